package repository

import (
	"context"

	"bookex/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteGormRepository struct {
	db *gorm.DB
}

func NewFavoriteGormRepository(db *gorm.DB) *FavoriteGormRepository {
	return &FavoriteGormRepository{db: db}
}

func (r *FavoriteGormRepository) Exists(ctx context.Context, userID int64, bookID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.BookFavorite{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error; err != nil {
		return false, translate(err, "favorite exists")
	}
	return count > 0, nil
}

// 既にあれば何もしない
func (r *FavoriteGormRepository) Add(ctx context.Context, userID int64, bookID int64) error {
	fav := model.BookFavorite{UserID: userID, BookID: bookID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav).Error; err != nil {
		return translate(err, "add favorite")
	}
	return nil
}

func (r *FavoriteGormRepository) Remove(ctx context.Context, userID int64, bookID int64) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&model.BookFavorite{}).Error; err != nil {
		return translate(err, "remove favorite")
	}
	return nil
}

// お気に入りの本（登録順）
func (r *FavoriteGormRepository) ListBooks(ctx context.Context, userID int64) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Joins("JOIN book_favorites ON book_favorites.book_id = books.id").
		Where("book_favorites.user_id = ?", userID).
		Order("book_favorites.created_at asc").Order("books.id asc").
		Find(&books).Error; err != nil {
		return []model.Book{}, translate(err, "list favorite books")
	}
	return books, nil
}

func (r *FavoriteGormRepository) CountByBook(ctx context.Context, bookID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.BookFavorite{}).
		Where("book_id = ?", bookID).
		Count(&count).Error; err != nil {
		return 0, translate(err, "count favorites")
	}
	return count, nil
}

func (r *FavoriteGormRepository) DeleteByBookID(ctx context.Context, bookID int64) error {
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Delete(&model.BookFavorite{}).Error; err != nil {
		return translate(err, "delete favorites by book")
	}
	return nil
}
