package repository

import (
	"context"
	"time"

	"bookex/internal/domain/model"
	repo "bookex/internal/repository"

	"gorm.io/gorm"
)

type CommentGormRepository struct {
	db *gorm.DB
}

func NewCommentGormRepository(db *gorm.DB) *CommentGormRepository {
	return &CommentGormRepository{db: db}
}

func (r *CommentGormRepository) Create(ctx context.Context, c model.Comment) (model.Comment, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Comment{}, translate(err, "create comment")
	}
	return c, nil
}

func (r *CommentGormRepository) FindByID(ctx context.Context, id int64) (model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return model.Comment{}, translate(err, "find comment")
	}
	return c, nil
}

// 新しい順
func (r *CommentGormRepository) ListByBook(ctx context.Context, bookID int64) ([]model.Comment, error) {
	var comments []model.Comment
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("created_at desc").Order("id desc").
		Find(&comments).Error; err != nil {
		return []model.Comment{}, translate(err, "list comments")
	}
	return comments, nil
}

func (r *CommentGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Comment{}, id)
	if res.Error != nil {
		return translate(res.Error, "delete comment")
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CommentGormRepository) DeleteByBookID(ctx context.Context, bookID int64) error {
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Delete(&model.Comment{}).Error; err != nil {
		return translate(err, "delete comments by book")
	}
	return nil
}
