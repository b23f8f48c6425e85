package db

import (
	"context"

	"bookex/internal/domain/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// テーブル作成順（FKの参照先を先に）
func models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.UserProfile{},
		&model.Group{},
		&model.UserGroup{},
		&model.RefreshToken{},
		&model.Book{},
		&model.BookFavorite{},
		&model.CartLine{},
		&model.Rate{},
		&model.Comment{},
		&model.BookReturn{},
		&model.MainMenu{},
		&model.AuditLog{},
	}
}

// 初期メニュー
var defaultMenu = []model.MainMenu{
	{Item: "Home", Link: "/"},
	{Item: "Display Books", Link: "/displaybooks"},
	{Item: "Search Books", Link: "/searchbooks"},
	{Item: "My Books", Link: "/mybooks"},
	{Item: "Post Book", Link: "/postbook"},
	{Item: "Cart", Link: "/cart"},
	{Item: "About Us", Link: "/aboutus"},
}

// AutoMigrateしてから初期データを入れる
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	if err := gdb.WithContext(ctx).AutoMigrate(models()...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return Seed(ctx, gdb)
}

// 権限グループとメニューを入れる。何度実行しても同じ結果になる
func Seed(ctx context.Context, gdb *gorm.DB) error {
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range []string{model.GroupPublisher, model.GroupWriter} {
			g := model.Group{Name: name}
			if err := tx.Where("name = ?", name).FirstOrCreate(&g).Error; err != nil {
				return errors.Wrapf(err, "seed group %s", name)
			}
		}

		menu := make([]model.MainMenu, len(defaultMenu))
		copy(menu, defaultMenu)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&menu).Error; err != nil {
			return errors.Wrap(err, "seed menu")
		}
		return nil
	})
}
