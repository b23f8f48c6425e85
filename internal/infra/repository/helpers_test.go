package repository

import (
	"context"
	"testing"
	"time"

	"bookex/internal/config"
	"bookex/internal/domain/model"
	"bookex/internal/infra/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// テストごとに新しいインメモリDB
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(config.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background(), gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, username string) model.User {
	t.Helper()
	u := model.User{Username: username, PasswordHash: "x", IsActive: true}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func seedBook(t *testing.T, gdb *gorm.DB, name string, price string, qty int64) model.Book {
	t.Helper()
	b := model.Book{
		Name:        name,
		Web:         "https://example.com/" + name,
		Price:       decimal.RequireFromString(price),
		PublishDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Quantity:    qty,
	}
	require.NoError(t, gdb.Create(&b).Error)
	return b
}

func seedableBook(name string, ownerID *int64) model.Book {
	return model.Book{
		Name:        name,
		Web:         "https://example.com/" + name,
		Price:       decimal.RequireFromString("12.00"),
		PublishDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		OwnerID:     ownerID,
		Quantity:    1,
	}
}
