package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bookex/internal/config"
	"bookex/internal/middleware"
	"bookex/internal/repository"
	"bookex/internal/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// echoを組み立てる（ミドルウェア・静的ファイル・ルート）
func New(cfg config.Config, userRepo repository.UserRepository, access middleware.SubjectResolver, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(middleware.RequestLog())

	// フロントが別オリジンのときだけ
	if cfg.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{cfg.FEURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost},
			AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.CSRFHeaderName},
			AllowCredentials: true,
		}))
	}

	// ローカル保存した表紙画像
	e.Static("/static/uploads", cfg.UploadDir)

	RegisterRoutes(e, newGuards(cfg, userRepo, access), h)
	return e
}

// ctxがキャンセルされるまで待ち受け、その後shutdownTimeout以内に止める
func Run(ctx context.Context, e *echo.Echo, addr string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server started", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("server shutting down")
		return e.Shutdown(sctx)
	})

	return g.Wait()
}
