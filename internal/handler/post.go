package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/greatnessmensah/blog-crud-app/internal/apperror"
	"github.com/greatnessmensah/blog-crud-app/internal/auth"
	"github.com/greatnessmensah/blog-crud-app/internal/repository"
	"github.com/greatnessmensah/blog-crud-app/internal/service"
)

// PostHandler manages CRUD operations for posts.
//
// Every route here sits behind auth.RequireAuth, so handlers can assume an
// authenticated user is in the request context. The ownership rule itself
// (only the owner mutates) lives in PostService — the handler just passes
// the caller's identity along.
type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		posts:  posts,
		logger: logger,
	}
}

// postRequest is the create/update payload.
//
// WHY Published *bool (A POINTER)?
// JSON has three states for this field: true, false, and absent. A plain
// bool can't represent "absent" — it decodes to false, silently turning an
// omitted field into published=false. With a pointer, nil means the client
// omitted it and we apply the default (true).
type postRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published *bool  `json:"published"`
}

// published returns the requested flag, defaulting to true when omitted.
func (p postRequest) published() bool {
	if p.Published == nil {
		return true
	}
	return *p.Published
}

// HandleList returns posts matching the search filter.
//
// HTTP: GET /posts/?limit=10&skip=0&search=
//
// QUERY PARAMETERS:
//   - limit:  max posts to return (default 10, capped at 100)
//   - skip:   offset into the result set (default 0)
//   - search: case-sensitive substring that must appear in post content
//     (default "" — matches everything)
//
// The listing is NOT filtered by ownership: any authenticated user sees
// all matching posts.
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := repository.ListOptions{
		Search: q.Get("search"),
		Limit:  queryInt(q.Get("limit"), service.DefaultListLimit),
		Offset: queryInt(q.Get("skip"), 0),
	}

	posts, err := h.posts.List(r.Context(), opts)
	if err != nil {
		h.logger.Error("listing posts", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleCreate saves a new post owned by the caller.
//
// HTTP: POST /posts/
// BODY: {"title": "t", "content": "c", "published": true}  (published optional)
//
// RESPONSES: 201 + created post (owner_id = caller), or 400.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("create post: invalid JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	post, err := h.posts.Create(r.Context(), user.ID, req.Title, req.Content, req.published())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// HandleGetByID returns a single post.
//
// HTTP: GET /posts/{id}
// RESPONSES: 200 + post, or 404.
func (h *PostHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleUpdate overwrites a post's title, content, and published flag.
//
// HTTP: PUT /posts/{id}
// BODY: same shape as create; an omitted published falls back to true,
// consistent with the create default (full overwrite, not a patch).
//
// RESPONSES: 200 + updated post, 404 if absent, 403 if not the owner.
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	id, err := postID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("update post: invalid JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	post, err := h.posts.Update(r.Context(), id, user.ID, req.Title, req.Content, req.published())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleDelete permanently removes a post.
//
// HTTP: DELETE /posts/{id}
// RESPONSES: 204 (no body), 404 if absent, 403 if not the owner.
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	id, err := postID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.posts.Delete(r.Context(), id, user.ID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent) // 204 — successful deletion, no body
}

// postID extracts and parses the {id} path parameter.
func postID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, apperror.ValidationFailed("id", "post id must be an integer")
	}
	return id, nil
}

// queryInt parses a query parameter as an int, falling back to def when
// the parameter is absent or not a number.
func queryInt(value string, def int) int {
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return n
}
