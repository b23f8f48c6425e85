package repository

import (
	"bookex/internal/domain/model"
	"context"
)

type MenuRepository interface {
	List(ctx context.Context) ([]model.MainMenu, error)
}
