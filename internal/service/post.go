package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/greatnessmensah/blog-crud-app/internal/apperror"
	"github.com/greatnessmensah/blog-crud-app/internal/model"
	"github.com/greatnessmensah/blog-crud-app/internal/repository"
)

// Validation constants.
// Defining these as constants (not magic numbers in code) makes them:
// - Easy to find and change
// - Self-documenting (the name explains the purpose)
const (
	MaxTitleLength   = 200
	MaxContentLength = 100000 // ~100KB
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// PostService handles business logic for posts: validation and the
// ownership rule. Any authenticated user can READ any post; only the
// owner can UPDATE or DELETE it.
type PostService struct {
	posts  repository.PostRepository
	logger *slog.Logger
}

// NewPostService creates a new PostService.
//
// This is where dependency injection happens — the caller decides WHICH
// repository implementation to use (SQLite, or a fake for tests).
func NewPostService(posts repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{
		posts:  posts,
		logger: logger,
	}
}

// List returns posts whose content contains opts.Search (case-sensitive),
// in insertion order, paginated by opts.Limit/opts.Offset.
//
// No ownership filter: every authenticated caller sees all matching posts,
// published or not. Defaults (limit 10, offset 0) are applied in the
// repository so every caller gets the same behaviour.
func (s *PostService) List(ctx context.Context, opts repository.ListOptions) ([]model.Post, error) {
	posts, err := s.posts.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("service/post: listing posts: %w", err)
	}
	return posts, nil
}

// Create validates and saves a new post owned by ownerID.
//
// ACCEPT PRIMITIVES, NOT HTTP TYPES:
// The signature is (ctx, ownerID, title, content, published), NOT
// (*http.Request). The service has ZERO knowledge of HTTP — the handler
// resolves the authenticated user and the published default before calling.
func (s *PostService) Create(ctx context.Context, ownerID int64, title, content string, published bool) (*model.Post, error) {
	title = strings.TrimSpace(title)

	if title == "" {
		return nil, apperror.ValidationFailed("title", "post title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("post title must be %d characters or less", MaxTitleLength))
	}
	if len(content) > MaxContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("post content must be %d characters or less", MaxContentLength))
	}

	post := &model.Post{
		Title:     title,
		Content:   content,
		Published: published,
		OwnerID:   ownerID, // always the caller — clients can't create posts for others
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("service/post: creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.Int64("postID", post.ID),
		slog.Int64("ownerID", ownerID),
	)

	return post, nil
}

// Get returns a single post. Any authenticated user may read any post.
func (s *PostService) Get(ctx context.Context, id int64) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/post: getting post %d: %w", id, err)
	}
	return post, nil
}

// Update overwrites a post's title, content, and published flag.
//
// ORDER OF CHECKS — 404 BEFORE 403:
// We fetch first, so a nonexistent post is NotFound even when the caller
// wouldn't have owned it. Only an existing post belonging to someone else
// is Forbidden.
//
// FULL OVERWRITE, NOT PATCH:
// All three mutable fields are replaced with the supplied values every
// time. A client that wants to change only the title must send back the
// current content and published flag too.
func (s *PostService) Update(ctx context.Context, id, callerID int64, title, content string, published bool) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/post: updating post %d: %w", id, err)
	}

	if post.OwnerID != callerID {
		s.logger.Warn("update rejected: not the owner",
			slog.Int64("postID", id),
			slog.Int64("ownerID", post.OwnerID),
			slog.Int64("callerID", callerID),
		)
		return nil, apperror.Forbidden("you are not authorized to perform this request")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "post title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("post title must be %d characters or less", MaxTitleLength))
	}
	if len(content) > MaxContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("post content must be %d characters or less", MaxContentLength))
	}

	post.Title = title
	post.Content = content
	post.Published = published

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("service/post: updating post %d: %w", id, err)
	}

	return post, nil
}

// Delete permanently removes a post. Same existence-then-ownership order
// as Update.
func (s *PostService) Delete(ctx context.Context, id, callerID int64) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service/post: deleting post %d: %w", id, err)
	}

	if post.OwnerID != callerID {
		s.logger.Warn("delete rejected: not the owner",
			slog.Int64("postID", id),
			slog.Int64("ownerID", post.OwnerID),
			slog.Int64("callerID", callerID),
		)
		return apperror.Forbidden("you are not authorized to perform this request")
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("service/post: deleting post %d: %w", id, err)
	}

	s.logger.Info("post deleted",
		slog.Int64("postID", id),
		slog.Int64("ownerID", callerID),
	)

	return nil
}
