package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/greatnessmensah/blog-crud-app/internal/apperror"
	"github.com/greatnessmensah/blog-crud-app/internal/service"
)

// AuthHandler exposes the login endpoint.
//
// It owns no auth logic itself — password verification and token issuance
// live in AuthService. This handler's only job is translating between HTTP
// and the service call.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected here;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// loginRequest is the login payload.
//
// WHY "username" AND NOT "email"?
// The field carries the email address, but the wire name stays "username"
// for compatibility with OAuth2 password-grant clients, which POST
// username/password form fields by convention.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenResponse is the success payload of POST /login.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // always "bearer"
}

// HandleLogin authenticates a user and issues an access token.
//
// HTTP: POST /login
// BODY: JSON {"username": "a@b.com", "password": "..."} or an
// application/x-www-form-urlencoded form with the same fields.
//
// RESPONSES:
//
//	200 {"access_token":"<jwt>","token_type":"bearer"}
//	401 invalid credentials (same response whether the email is unknown
//	    or the password is wrong)
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLoginRequest(r)
	if err != nil {
		h.logger.Warn("login: invalid request body", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "invalid login payload"))
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// decodeLoginRequest accepts either a JSON body or a classic password-grant
// form. Browsers and curl default to forms; API clients usually send JSON —
// supporting both costs a content-type check.
func decodeLoginRequest(r *http.Request) (loginRequest, error) {
	var req loginRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
		return req, nil
	}

	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}
