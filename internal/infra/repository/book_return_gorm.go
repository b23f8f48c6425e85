package repository

import (
	"context"
	"time"

	"bookex/internal/domain/model"

	"gorm.io/gorm"
)

type BookReturnGormRepository struct {
	db *gorm.DB
}

func NewBookReturnGormRepository(db *gorm.DB) *BookReturnGormRepository {
	return &BookReturnGormRepository{db: db}
}

// 返品履歴を1件追加
func (r *BookReturnGormRepository) Create(ctx context.Context, ret model.BookReturn) (model.BookReturn, error) {
	if ret.ReturnedAt.IsZero() {
		ret.ReturnedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(&ret).Error; err != nil {
		return model.BookReturn{}, translate(err, "create book return")
	}
	return ret, nil
}

// 返品済み数量の合計
func (r *BookReturnGormRepository) ReturnedQuantity(ctx context.Context, userID int64, bookID int64) (int64, error) {
	var total int64

	row := r.db.WithContext(ctx).
		Model(&model.BookReturn{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Row()
	if err := row.Scan(&total); err != nil {
		return 0, translate(err, "sum returned quantity")
	}
	return total, nil
}

func (r *BookReturnGormRepository) ReturnedByBook(ctx context.Context, userID int64) (map[int64]int64, error) {
	return sumByBook(r.db.WithContext(ctx).
		Model(&model.BookReturn{}).
		Where("user_id = ?", userID), "sum returned by book")
}

func (r *BookReturnGormRepository) DeleteByBookID(ctx context.Context, bookID int64) error {
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Delete(&model.BookReturn{}).Error; err != nil {
		return translate(err, "delete book returns by book")
	}
	return nil
}
