package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"bookex/internal/domain/policy"

	"github.com/labstack/echo/v4"
)

// プロフィールとグループからSubjectを作る（AccessUsecase）
type SubjectResolver interface {
	ResolveSubject(ctx context.Context, userID int64) (policy.Subject, error)
}

// 本の出品・編集・削除はPublisher/Writerだけ。
// AuthJWTの後ろに置く。
func PublisherGuard(resolver SubjectResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			userID, ok := UserID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("login required"))
			}

			subject, err := resolver.ResolveSubject(ctx, userID)
			if err != nil {
				slog.ErrorContext(ctx, "resolve subject failed", "user_id", userID, "err", err)
				return c.JSON(http.StatusInternalServerError, errorJSON("db error"))
			}

			if subject.Disagrees() {
				slog.WarnContext(ctx, "role sources disagree",
					"user_id", userID,
					"profile_role", subject.ProfileRole,
					"groups", subject.Groups,
				)
			}

			if !subject.Can(policy.CapPublishBooks) {
				return c.JSON(http.StatusForbidden, errorJSON("publisher or writer role required"))
			}

			return next(c)
		}
	}
}
