package repository

import (
	"bookex/internal/domain/model"
	"context"
)

type RateRepository interface {
	// 同じ(user, book)なら上書き
	Upsert(ctx context.Context, userID int64, bookID int64, rating int) error
	ListByBook(ctx context.Context, bookID int64) ([]model.Rate, error)
	// 評価が1件も無ければnil
	Average(ctx context.Context, bookID int64) (*float64, error)
	// 評価のある本だけ入る
	AveragesByBook(ctx context.Context, bookIDs []int64) (map[int64]float64, error)
	DeleteByBookID(ctx context.Context, bookID int64) error
}
