package middleware

import (
	"net/http"
	"strconv"

	auth "bookex/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxTokenVersionKey = "token_version" // int

	// echo-jwtが*jwt.Tokenを入れるキー
	ctxTokenKey = "jwt_token"
)

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// Bearerトークン必須。無効・期限切れは401 login required。
func AuthJWT(secret string) echo.MiddlewareFunc {
	return chain(jwtMiddleware(secret, false), claimsToContext(false))
}

// トークンがあればuser_idを入れ、無ければ未ログインのまま通す。
func OptionalAuthJWT(secret string) echo.MiddlewareFunc {
	return chain(jwtMiddleware(secret, true), claimsToContext(true))
}

func jwtMiddleware(secret string, optional bool) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(secret),
		SigningMethod: "HS256",
		ContextKey:    ctxTokenKey,
		TokenLookup:   "header:Authorization:Bearer ",
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(auth.AccessClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if optional {
				return nil
			}
			return c.JSON(http.StatusUnauthorized, errorJSON("login required"))
		},
		ContinueOnIgnoredError: optional,
	})
}

// claimsのsub/tvをcontextへ
func claimsToContext(optional bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(ctxTokenKey).(*jwt.Token)
			if !ok || token == nil {
				if optional {
					return next(c)
				}
				return c.JSON(http.StatusUnauthorized, errorJSON("login required"))
			}

			claims, ok := token.Claims.(*auth.AccessClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("login required"))
			}

			userID, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil || userID <= 0 || claims.TokenVersion < 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("login required"))
			}

			c.Set(CtxUserIDKey, userID)
			c.Set(CtxTokenVersionKey, claims.TokenVersion)
			return next(c)
		}
	}
}

// 先頭から順に適用する
func chain(mws ...echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

// ハンドラから使う。未ログインなら(0, false)
func UserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(CtxUserIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}
