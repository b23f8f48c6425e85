package handler

import (
	"errors"
	"net/http"
	"time"

	"bookex/internal/middleware"
	"bookex/internal/repository"
	auth "bookex/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

const refreshCookieName = "refresh_token"

type AuthHandler struct {
	registerUC   *auth.RegisterUserUsecase // 会員登録usecase
	loginUC      *auth.LoginUsecase        // ログインusecase
	sessionUC    *auth.SessionUsecase      // refresh/logout
	settingsUC   *auth.SettingsUsecase     // 設定画面
	refreshTTL   time.Duration             // refresh/csrf cookie の有効期限
	cookieSecure bool
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	sessionUC *auth.SessionUsecase,
	settingsUC *auth.SettingsUsecase,
	refreshTTL time.Duration,
	cookieSecure bool,
) *AuthHandler {
	return &AuthHandler{
		registerUC:   registerUC,
		loginUC:      loginUC,
		sessionUC:    sessionUC,
		settingsUC:   settingsUC,
		refreshTTL:   refreshTTL,
		cookieSecure: cookieSecure,
	}
}

// /register のリクエストボディ。
type registerRequest struct {
	Username        string `json:"username" form:"username" validate:"required,username"`
	Password        string `json:"password" form:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required"`
	IsPublisher     bool   `json:"is_publisher" form:"is_publisher"`
	IsWriter        bool   `json:"is_writer" form:"is_writer"`
}

// /login のリクエストボディ。
type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// /settings のリクエストボディ。省略した項目は変えない。
type settingsRequest struct {
	IsPublisher        *bool  `json:"is_publisher" form:"is_publisher"`
	IsWriter           *bool  `json:"is_writer" form:"is_writer"`
	CurrentPassword    string `json:"current_password" form:"current_password"`
	NewPassword        string `json:"new_password" form:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm" form:"new_password_confirm"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	e.POST("/register", h.register, g.RateLimit)
	e.POST("/login", h.login, g.RateLimit)
	e.POST("/refresh", h.refresh, g.CSRF)
	e.POST("/logout", h.logout, g.CSRF)

	e.GET("/settings", h.getSettings, g.login()...)
	e.POST("/settings", h.updateSettings, g.login()...)
}

// usecaseのエラーをステータスへ
func writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidUsername),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordTooLong),
		errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrWrongCurrentPassword):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrUsernameAlreadyExists):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrRefreshTokenReused):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		// トークン発行後にユーザーが消えた
		return unauthorized(c)
	case errors.Is(err, auth.ErrUserInactive):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	default:
		return writeError(c, err)
	}
}

func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Username:        req.Username,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		IsPublisher:     req.IsPublisher,
		IsWriter:        req.IsWriter,
	})
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, side, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Username:  req.Username,
		Password:  req.Password,
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	if err := h.setSessionCookies(c, side.PlainRefreshToken); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: auth.ErrInvalidRefreshToken.Error()})
	}

	out, side, err := h.sessionUC.Refresh(c.Request().Context(), cookie.Value, c.Request().UserAgent())
	if err != nil {
		h.clearSessionCookies(c)
		return writeAuthError(c, err)
	}

	if err := h.setSessionCookies(c, side.PlainRefreshToken); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	plain := ""
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		plain = cookie.Value
	}

	if err := h.sessionUC.Logout(c.Request().Context(), plain); err != nil {
		return writeError(c, err)
	}
	h.clearSessionCookies(c)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) getSettings(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.settingsUC.Get(c.Request().Context(), userID)
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) updateSettings(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req settingsRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.settingsUC.Update(c.Request().Context(), userID, auth.UpdateSettingsInput{
		IsPublisher:        req.IsPublisher,
		IsWriter:           req.IsWriter,
		CurrentPassword:    req.CurrentPassword,
		NewPassword:        req.NewPassword,
		NewPasswordConfirm: req.NewPasswordConfirm,
	})
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// refresh token（HttpOnly）とcsrf token（JSから読める）をセット
func (h *AuthHandler) setSessionCookies(c echo.Context, plainRefresh string) error {
	csrfToken, err := auth.NewCSRFToken()
	if err != nil {
		return err
	}
	exp := time.Now().Add(h.refreshTTL)

	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    plainRefresh,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
	c.SetCookie(&http.Cookie{
		Name:     middleware.CSRFCookieName,
		Value:    csrfToken,
		Path:     "/",
		HttpOnly: false,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
	return nil
}

func (h *AuthHandler) clearSessionCookies(c echo.Context) {
	for _, name := range []string{refreshCookieName, middleware.CSRFCookieName} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: name == refreshCookieName,
			Secure:   h.cookieSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}
