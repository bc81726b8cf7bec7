package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/greatnessmensah/blog-crud-app/internal/apperror"
	"github.com/greatnessmensah/blog-crud-app/internal/service"
)

// UserHandler exposes registration and user lookup.
type UserHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(auth *service.AuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		auth:   auth,
		logger: logger,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /users/
// BODY: {"email": "a@b.com", "password": "..."}
//
// RESPONSES:
//
//	201 {"id":1,"email":"a@b.com","created_at":"..."}
//	400 validation error (missing/garbage fields)
//	409 email already registered
//
// The response body is the model.User struct — its PasswordHash field
// carries `json:"-"` so the hash can never appear in the output.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("register: invalid JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleGetByID returns a user's public record.
//
// HTTP: GET /users/{id}  (auth required)
//
// RESPONSES: 200 + user, or 404.
func (h *UserHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, apperror.ValidationFailed("id", "user id must be an integer"))
		return
	}

	user, err := h.auth.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
