package repository

import (
	"bookex/internal/domain/model"
	"context"
)

type CommentRepository interface {
	Create(ctx context.Context, c model.Comment) (model.Comment, error)
	FindByID(ctx context.Context, id int64) (model.Comment, error)
	ListByBook(ctx context.Context, bookID int64) ([]model.Comment, error)
	Delete(ctx context.Context, id int64) error
	DeleteByBookID(ctx context.Context, bookID int64) error
}
