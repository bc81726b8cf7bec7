// Package auth provides JWT token generation and validation for the blog API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User registers with email + password (bcrypt-hashed, see password.go)
// 2. POST /login verifies the password and issues a JWT access token
// 3. The client sends "Authorization: Bearer <token>" on every API call
// 4. Middleware validates the token, looks up the user, and puts them in
//    the request context
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store session
// data. All the information needed (user ID, expiry) is inside the signed token.
// The signature ensures nobody can tamper with it without the secret key.
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: algorithm + token type → {"alg":"HS256","typ":"JWT"}
//	- Payload: claims (data) → {"user_id":42,"exp":1234567890}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
//
// The server can verify the signature without any DB lookup — just the secret.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// issuer identifies tokens minted by this server. Validation rejects tokens
// issued by other applications that happen to share a secret.
const issuer = "blog-crud-app"

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens, the token
// lifetime, and the signing algorithm — all injected from config rather
// than hardcoded, so deployments can tune TTL without a rebuild.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	method *jwt.SigningMethodHMAC
	alg    string
}

// NewTokenService creates a TokenService.
//
// The secret should be at least 32 bytes of random data in production
// (SECRET_KEY=$(openssl rand -hex 32)); anything under 16 characters is
// rejected outright. The algorithm identifier comes from configuration and
// must name one of the HMAC family — asymmetric schemes (RS256 etc.) need
// key pairs this service doesn't manage.
func NewTokenService(secret string, ttl time.Duration, algorithm string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token TTL must be positive")
	}

	var method *jwt.SigningMethodHMAC
	switch algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("auth: unsupported signing algorithm %q", algorithm)
	}

	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		method: method,
		alg:    algorithm,
	}, nil
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims (standard fields
// like ExpiresAt, IssuedAt, Issuer) and adds a custom "user_id" claim.
//
// WHY "user_id" AND NOT THE STANDARD "sub" CLAIM?
// "sub" would work, but it's a string by spec and our IDs are integers.
// A dedicated numeric claim round-trips the ID without string conversion
// and without other consumers mistaking it for an opaque subject.
type claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Generate creates and signs a new access token for the given user ID.
//
// The token expires after the configured TTL. There is no server-side
// revocation — once issued, a token stays valid until it expires, even if
// the account changes. The only exception is user deletion: the middleware
// re-resolves the user on every request and rejects tokens for missing users.
func (s *TokenService) Generate(userID int64) (string, error) {
	return s.GenerateWithDuration(userID, s.ttl)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used in tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID int64, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	// jwt.NewWithClaims creates an unsigned token with the given algorithm.
	// SignedString(key) signs it and returns the complete JWT string.
	token := jwt.NewWithClaims(s.method, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string.
// Returns the user ID (from the "user_id" claim) if the token is valid.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired (ExpiresAt is in the future)
//   - Issuer matches (prevents tokens from other apps)
//   - Algorithm matches the configured one
//
// ALGORITHM CONFUSION ATTACK:
// Without checking the algorithm, an attacker could send a token signed with
// "none" and the library might accept it. Passing jwt.WithValidMethods prevents this.
func (s *TokenService) Validate(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			// Reject tokens that aren't signed with an HMAC method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{s.alg}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		// Translate jwt library errors into cleaner messages
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("auth: token expired")
		}
		return 0, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("auth: invalid token claims")
	}

	if c.UserID == 0 {
		return 0, fmt.Errorf("auth: token has no user_id claim")
	}

	return c.UserID, nil
}
