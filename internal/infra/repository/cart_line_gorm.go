package repository

import (
	"bookex/internal/domain/model"
	repo "bookex/internal/repository"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartLineGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartLineGormRepository(db *gorm.DB) *CartLineGormRepository {
	return &CartLineGormRepository{db: db}
}

// ユーザーのACTIVE明細をBook付きで取得
func (r *CartLineGormRepository) ListActive(ctx context.Context, userID int64) ([]model.CartLine, error) {
	var lines []model.CartLine

	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ? AND checked_out = ?", userID, false).
		Order("id asc").
		Find(&lines).Error; err != nil {
		return []model.CartLine{}, translate(err, "list active cart lines")
	}

	return lines, nil
}

// (user, book)のACTIVE明細
func (r *CartLineGormRepository) FindActive(ctx context.Context, userID int64, bookID int64) (model.CartLine, error) {
	var line model.CartLine

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND checked_out = ?", userID, bookID, false).
		Order("id asc").
		First(&line).Error
	if err != nil {
		return model.CartLine{}, translate(err, "find active cart line")
	}
	return line, nil
}

// 同一の本は数量+1、無ければ数量1で作る
func (r *CartLineGormRepository) IncrementOrCreate(ctx context.Context, userID int64, bookID int64) (model.CartLine, error) {
	var line model.CartLine

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND book_id = ? AND checked_out = ?", userID, bookID, false).
			Order("id asc").
			First(&line).Error

		if findErr == nil {
			// 既存ありだったら数量を増やす
			res := tx.Model(&model.CartLine{}).
				Where("id = ?", line.ID).
				Update("quantity", gorm.Expr("quantity + ?", 1))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}
			line.Quantity++
			return nil
		}

		if !isNotFound(findErr) {
			return findErr
		}

		//無い場合は新規作成
		line = model.CartLine{
			UserID:     userID,
			BookID:     bookID,
			Quantity:   1,
			CheckedOut: false,
		}
		return tx.Omit(clause.Associations).Create(&line).Error
	})

	if err != nil {
		return model.CartLine{}, translate(err, "increment cart line")
	}
	return line, nil
}

// 明細の数量を更新
func (r *CartLineGormRepository) UpdateQuantity(ctx context.Context, lineID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Where("id = ?", lineID).
		Update("quantity", qty)

	if res.Error != nil {
		return translate(res.Error, "update cart line quantity")
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ACTIVE明細をまとめて購入済みにする
func (r *CartLineGormRepository) CheckoutActive(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Where("user_id = ? AND checked_out = ?", userID, false).
		Update("checked_out", true)

	if res.Error != nil {
		return 0, translate(res.Error, "checkout cart lines")
	}
	return res.RowsAffected, nil
}

// ACTIVE明細を全削除
func (r *CartLineGormRepository) DeleteActive(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND checked_out = ?", userID, false).
		Delete(&model.CartLine{})

	if res.Error != nil {
		return 0, translate(res.Error, "delete active cart lines")
	}
	return res.RowsAffected, nil
}

// 購入済み数量の合計
func (r *CartLineGormRepository) PurchasedQuantity(ctx context.Context, userID int64, bookID int64) (int64, error) {
	var total int64

	row := r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("user_id = ? AND book_id = ? AND checked_out = ?", userID, bookID, true).
		Row()
	if err := row.Scan(&total); err != nil {
		return 0, translate(err, "sum purchased quantity")
	}
	return total, nil
}

// 本ごとの購入済み数量
func (r *CartLineGormRepository) PurchasedByBook(ctx context.Context, userID int64) (map[int64]int64, error) {
	return sumByBook(r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Where("user_id = ? AND checked_out = ?", userID, true), "sum purchased by book")
}

func (r *CartLineGormRepository) DeleteByBookID(ctx context.Context, bookID int64) error {
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Delete(&model.CartLine{}).Error; err != nil {
		return translate(err, "delete cart lines by book")
	}
	return nil
}

// book_idごとのquantity合計をmapで返す
func sumByBook(tx *gorm.DB, op string) (map[int64]int64, error) {
	rows, err := tx.
		Select("book_id, COALESCE(SUM(quantity), 0)").
		Group("book_id").
		Rows()
	if err != nil {
		return nil, translate(err, op)
	}
	defer rows.Close()

	out := map[int64]int64{}
	for rows.Next() {
		var bookID, qty int64
		if err := rows.Scan(&bookID, &qty); err != nil {
			return nil, translate(err, op)
		}
		out[bookID] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, op)
	}
	return out, nil
}
