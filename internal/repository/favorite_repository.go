package repository

import (
	"bookex/internal/domain/model"
	"context"
)

type FavoriteRepository interface {
	Exists(ctx context.Context, userID int64, bookID int64) (bool, error)
	Add(ctx context.Context, userID int64, bookID int64) error
	Remove(ctx context.Context, userID int64, bookID int64) error
	ListBooks(ctx context.Context, userID int64) ([]model.Book, error)
	CountByBook(ctx context.Context, bookID int64) (int64, error)
	DeleteByBookID(ctx context.Context, bookID int64) error
}
