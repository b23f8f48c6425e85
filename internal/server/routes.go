package server

import (
	"bookex/internal/config"
	"bookex/internal/handler"
	"bookex/internal/middleware"
	"bookex/internal/repository"

	"github.com/labstack/echo/v4"
)

// ログイン試行の上限（IPごと、毎秒・バースト）
const (
	authRatePerSecond = 1
	authRateBurst     = 10
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Book     *handler.BookHandler
	Cart     *handler.CartHandler
	Return   *handler.ReturnHandler
	Library  *handler.LibraryHandler
	Feedback *handler.FeedbackHandler
}

func newGuards(cfg config.Config, userRepo repository.UserRepository, access middleware.SubjectResolver) handler.Guards {
	return handler.Guards{
		Login: []echo.MiddlewareFunc{
			middleware.AuthJWT(cfg.JWTSecret),
			middleware.TokenVersionGuard(userRepo),
		},
		Viewer:    middleware.OptionalAuthJWT(cfg.JWTSecret),
		Publisher: middleware.PublisherGuard(access),
		RateLimit: middleware.RateLimit(authRatePerSecond, authRateBurst),
		CSRF:      middleware.CSRFDoubleSubmit(),
	}
}

func RegisterRoutes(e *echo.Echo, g handler.Guards, h Handlers) {
	h.Book.RegisterRoutes(e, g)
	h.Auth.RegisterRoutes(e, g)
	h.Cart.RegisterRoutes(e, g)
	h.Return.RegisterRoutes(e, g)
	h.Library.RegisterRoutes(e, g)
	h.Feedback.RegisterRoutes(e, g)
}
