package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	CSRFCookieName = "csrf_token"
	CSRFHeaderName = "X-CSRF-Token"
)

// Double Submit: cookieのcsrf_tokenとX-CSRF-Tokenヘッダが同じ値か
func CSRFDoubleSubmit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CSRFCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusForbidden, errorJSON("csrf token missing"))
			}

			header := c.Request().Header.Get(CSRFHeaderName)
			if header == "" {
				return c.JSON(http.StatusForbidden, errorJSON("csrf token missing"))
			}

			if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
				return c.JSON(http.StatusForbidden, errorJSON("csrf token mismatch"))
			}
			return next(c)
		}
	}
}
