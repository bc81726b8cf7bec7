package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/greatnessmensah/blog-crud-app/internal/model"
	"github.com/greatnessmensah/blog-crud-app/internal/repository"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "user", u), ANY package that knows the string "user"
// can read or shadow your value. Using a package-private type prevents collisions:
// only THIS package can create a key of type contextKey, so only this package
// can read or write the authenticated user in the context.
type contextKey string

const userKey contextKey = "user"

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads the JWT from the "Authorization: Bearer <token>" header, validates
// it, resolves the user ID to a full user record, and stores the user in the
// request context. Any failure along that path — missing header, malformed
// header, bad signature, expired token, user no longer in the database —
// returns 401 Unauthorized and stops the request chain.
//
// WHY LOOK THE USER UP ON EVERY REQUEST?
// The token alone proves the ID was valid WHEN THE TOKEN WAS ISSUED. The
// lookup catches the one account-state change we do honour: deletion. A
// token for a deleted user fails here even though its signature and expiry
// are fine. Everything else stays valid for the full TTL — there is no
// revocation list.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware is a function that takes an http.Handler and returns a new
// http.Handler. The new handler "wraps" the original:
//
//	func Middleware(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        // ... do stuff before the handler ...
//	        next.ServeHTTP(w, r)
//	    })
//	}
//
// Chi applies middlewares in a chain: req → M1 → M2 → Handler → M2 → M1 → resp
func RequireAuth(tokens *TokenService, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			userID, err := tokens.Validate(tokenStr)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				// Covers both "user deleted after token issuance" and real
				// DB failures. Either way the caller can't be authenticated.
				unauthorized(w)
				return
			}

			// Store the user in context so handlers can read it
			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user from the request context.
//
// Returns (nil, false) if the request never went through RequireAuth.
// Handlers behind the middleware can rely on ok being true; the check
// exists so a mis-wired route fails loudly instead of dereferencing nil.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Returns ("", false) for a missing header, a non-Bearer scheme,
// or an empty token.
//
// The scheme comparison is case-insensitive per RFC 7235 — clients send
// "Bearer", "bearer", and occasionally "BEARER".
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

// unauthorized writes the standard 401 response.
// The body shape matches handler.ErrorResponse; we write it inline here
// because the auth package must not import the handler package (the
// handler package sits above this one in the dependency graph).
func unauthorized(w http.ResponseWriter) {
	http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
}
