package repository

import (
	"bookex/internal/domain/model"
	"context"

	"github.com/shopspring/decimal"
)

// 一覧
type BookListQuery struct {
	Page  int
	Limit int
}

// 検索（nameの部分一致＋価格帯）
type BookSearchQuery struct {
	Q        string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// 本の永続化（保存・取得）だけを約束。
type BookRepository interface {
	List(ctx context.Context, q BookListQuery) ([]model.Book, int64, error)
	Search(ctx context.Context, q BookSearchQuery) ([]model.Book, error)
	FindByID(ctx context.Context, id int64) (model.Book, error)
	// tx内で行ロックを取る読み取り
	FindByIDForUpdate(ctx context.Context, id int64) (model.Book, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Book, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.Book, error)

	Create(ctx context.Context, b model.Book) (model.Book, error)
	Update(ctx context.Context, b model.Book) error
	// 本体のみ削除（関連行はtx内で先に消す）
	Delete(ctx context.Context, id int64) error

	// 返品で在庫を戻す
	IncreaseQuantity(ctx context.Context, id int64, qty int64) error
}
