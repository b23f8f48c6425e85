package repository

import (
	"context"
	"strings"

	"bookex/internal/domain/model"
	repo "bookex/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LIKEのワイルドカードを文字として扱う
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type BookGormRepository struct {
	db *gorm.DB
}

// DI
func NewBookGormRepository(db *gorm.DB) *BookGormRepository {
	return &BookGormRepository{db: db}
}

// ページング付きで新しい順に返す。
func (r *BookGormRepository) List(ctx context.Context, q repo.BookListQuery) ([]model.Book, int64, error) {
	var books []model.Book
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Book{})

	if err := tx.Count(&total).Error; err != nil {
		return []model.Book{}, 0, translate(err, "count books")
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Order("created_at desc").Order("id desc").Offset(offset).Limit(q.Limit).Find(&books).Error; err != nil {
		return []model.Book{}, 0, translate(err, "list books")
	}

	return books, total, nil
}

// nameの部分一致（大文字小文字を区別しない）と価格帯
func (r *BookGormRepository) Search(ctx context.Context, q repo.BookSearchQuery) ([]model.Book, error) {
	var books []model.Book

	tx := r.db.WithContext(ctx).Model(&model.Book{})

	if s := strings.TrimSpace(q.Q); s != "" {
		tx = tx.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(s))+"%")
	}
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}

	if err := tx.Order("name asc").Order("id asc").Find(&books).Error; err != nil {
		return []model.Book{}, translate(err, "search books")
	}
	return books, nil
}

// IDで本を取得
func (r *BookGormRepository) FindByID(ctx context.Context, id int64) (model.Book, error) {
	var b model.Book
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return model.Book{}, translate(err, "find book")
	}
	return b, nil
}

// 返品tx用。行ロック付きで取得（sqliteでは無視される）
func (r *BookGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.Book, error) {
	var b model.Book
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, id).Error; err != nil {
		return model.Book{}, translate(err, "find book for update")
	}
	return b, nil
}

// 出品者の本
func (r *BookGormRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id asc").
		Find(&books).Error; err != nil {
		return []model.Book{}, translate(err, "list books by owner")
	}
	return books, nil
}

func (r *BookGormRepository) ListByIDs(ctx context.Context, ids []int64) ([]model.Book, error) {
	if len(ids) == 0 {
		return []model.Book{}, nil
	}
	var books []model.Book
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id asc").
		Find(&books).Error; err != nil {
		return []model.Book{}, translate(err, "list books by ids")
	}
	return books, nil
}

// 本の作成
func (r *BookGormRepository) Create(ctx context.Context, b model.Book) (model.Book, error) {
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		return model.Book{}, translate(err, "create book")
	}
	return b, nil
}

// 本の更新
func (r *BookGormRepository) Update(ctx context.Context, b model.Book) error {
	res := r.db.WithContext(ctx).Model(&model.Book{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"name":     b.Name,
		"web":      b.Web,
		"price":    b.Price,
		"picture":  b.Picture,
		"quantity": b.Quantity,
	})
	if res.Error != nil {
		return translate(res.Error, "update book")
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 本の削除
func (r *BookGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Book{}, id)
	if res.Error != nil {
		return translate(res.Error, "delete book")
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫戻し（返品）
func (r *BookGormRepository) IncreaseQuantity(ctx context.Context, id int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", qty))

	if res.Error != nil {
		return translate(res.Error, "increase quantity")
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
