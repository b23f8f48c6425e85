package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"bookex/internal/repository"

	"github.com/labstack/echo/v4"
)

// JWTのtvとDBのtoken_versionの一致するか確認。
// パスワード変更後に古いアクセストークンを弾く。
func TokenVersionGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := UserID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("login required"))
			}

			tv, ok := c.Get(CtxTokenVersionKey).(int)
			if !ok || tv < 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("login required"))
			}

			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, errorJSON("login required"))
			}
			if err != nil {
				slog.ErrorContext(c.Request().Context(), "token version lookup failed", "user_id", userID, "err", err)
				return c.JSON(http.StatusInternalServerError, errorJSON("db error"))
			}

			//停止ユーザーとtoken_version不一致は強制ログアウト扱い
			if !user.IsActive || user.TokenVersion != tv {
				return c.JSON(http.StatusUnauthorized, errorJSON("login required"))
			}

			return next(c)
		}
	}
}
