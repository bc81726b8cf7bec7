// Package repository defines the storage interfaces the service layer
// programs against. Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/greatnessmensah/blog-crud-app/internal/model"
)

// ListOptions controls pagination and filtering for PostRepository.List.
//
// Search is a case-sensitive substring match against post content. The
// empty string matches every post. Limit/Offset are plain LIMIT/OFFSET
// pagination — zero values mean "use the defaults" (applied by the
// implementation, not here).
type ListOptions struct {
	Search string
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	List(ctx context.Context, opts ListOptions) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id int64) error
}
