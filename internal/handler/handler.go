package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"bookex/internal/middleware"
	"bookex/internal/usecase"
	"bookex/internal/validator"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// ルートに付けるミドルウェアの組（server側で組み立てる）
type Guards struct {
	// AuthJWT + TokenVersionGuard
	Login []echo.MiddlewareFunc
	// 未ログインでも通す（詳細画面のお気に入り表示用）
	Viewer echo.MiddlewareFunc
	// Publisher/Writerだけ
	Publisher echo.MiddlewareFunc
	// /login /register
	RateLimit echo.MiddlewareFunc
	// /refresh /logout
	CSRF echo.MiddlewareFunc
}

func (g Guards) login(extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(g.Login)+len(extra))
	out = append(out, g.Login...)
	return append(out, extra...)
}

// usecase.HTTPErrorならそのステータスで返す。5xxは原因をログに出す。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	ctx := c.Request().Context()

	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", he.Status,
				"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"err", he.Err,
			)
		}
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	slog.ErrorContext(ctx, "request failed",
		"method", c.Request().Method,
		"path", c.Path(),
		"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
		"err", err,
	)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "login required"})
}

// :id を正の整数で取る
func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// JSON/フォームどちらでも受ける。失敗時は400を書いて返す。
func bindAndValidate(c echo.Context, dst interface{}) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(dst); err != nil {
		if errors.Is(err, validator.ErrInvalidInput) {
			return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: validator.Message(err)})
		}
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	return true, nil
}

// 各handlerの共通
func currentUser(c echo.Context) (int64, bool) {
	return middleware.UserID(c)
}
