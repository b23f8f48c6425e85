package repository

import (
	"bookex/internal/domain/model"
	"context"
)

type CartLineRepository interface {
	// ACTIVE明細（Book付き）
	ListActive(ctx context.Context, userID int64) ([]model.CartLine, error)
	FindActive(ctx context.Context, userID int64, bookID int64) (model.CartLine, error)
	// ACTIVE明細があれば+1、無ければ数量1で作成
	IncrementOrCreate(ctx context.Context, userID int64, bookID int64) (model.CartLine, error)
	UpdateQuantity(ctx context.Context, lineID int64, qty int64) error
	// ACTIVEを全部checked_outにする。件数を返す
	CheckoutActive(ctx context.Context, userID int64) (int64, error)
	DeleteActive(ctx context.Context, userID int64) (int64, error)

	// checked_out済みの数量合計
	PurchasedQuantity(ctx context.Context, userID int64, bookID int64) (int64, error)
	PurchasedByBook(ctx context.Context, userID int64) (map[int64]int64, error)

	DeleteByBookID(ctx context.Context, bookID int64) error
}
