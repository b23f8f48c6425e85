package repository

import (
	"context"

	"bookex/internal/domain/model"

	"gorm.io/gorm"
)

type MenuGormRepository struct {
	db *gorm.DB
}

func NewMenuGormRepository(db *gorm.DB) *MenuGormRepository {
	return &MenuGormRepository{db: db}
}

func (r *MenuGormRepository) List(ctx context.Context) ([]model.MainMenu, error) {
	var items []model.MainMenu
	if err := r.db.WithContext(ctx).Order("id asc").Find(&items).Error; err != nil {
		return []model.MainMenu{}, translate(err, "list menu")
	}
	return items, nil
}
