package repository

import (
	"bookex/internal/domain/model"
	"context"
)

type BookReturnRepository interface {
	Create(ctx context.Context, r model.BookReturn) (model.BookReturn, error)
	ReturnedQuantity(ctx context.Context, userID int64, bookID int64) (int64, error)
	ReturnedByBook(ctx context.Context, userID int64) (map[int64]int64, error)
	DeleteByBookID(ctx context.Context, bookID int64) error
}
