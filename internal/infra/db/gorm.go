package db

import (
	"context"
	"log/slog"
	"time"

	"bookex/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 起動直後はDBコンテナがまだ上がっていないことがあるのでこの時間まで待つ
const connectTimeout = 30 * time.Second

// Connect はDBに接続して *gorm.DB を返す。
// 接続とpingが通るまで指数バックオフでリトライする。
func Connect(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = connectTimeout

	var gdb *gorm.DB
	op := func() error {
		d, err := Open(cfg.DBDriver, cfg.DSN())
		if err != nil {
			slog.Warn("db connect failed, retrying", "driver", cfg.DBDriver, "err", err)
			return err
		}
		sqlDB, err := d.DB()
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.Warn("db ping failed, retrying", "driver", cfg.DBDriver, "err", err)
			_ = sqlDB.Close()
			return err
		}
		gdb = d
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return nil, errors.Wrap(err, "connect db")
	}
	return gdb, nil
}

// ドライバ名で開くだけ（リトライなし）
func Open(driver string, dsn string) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		// 一意制約違反をgorm.ErrDuplicatedKeyにする
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	switch driver {
	case config.DriverSQLite:
		d, err := gorm.Open(sqlite.Open(dsn), gcfg)
		if err != nil {
			return nil, err
		}
		// sqliteは書き込みが1本なので接続も1本にする
		sqlDB, err := d.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return d, nil
	case config.DriverPostgres, "":
		return gorm.Open(postgres.Open(dsn), gcfg)
	default:
		return nil, errors.Errorf("unknown db driver %q", driver)
	}
}
