package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// 1リクエスト1行のアクセスログ
func RequestLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// ステータスを確定させてから記録する
				c.Error(err)
			}

			attrs := []any{
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"ip", c.RealIP(),
				"ua", c.Request().UserAgent(),
			}
			if userID, ok := UserID(c); ok {
				attrs = append(attrs, "user_id", userID)
			}

			level := slog.LevelInfo
			if c.Response().Status >= 500 {
				level = slog.LevelError
			}
			slog.Log(c.Request().Context(), level, "http", attrs...)
			return nil
		}
	}
}
