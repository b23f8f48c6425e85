package handler

import (
	"net/http"

	"bookex/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 自分の本とお気に入り
type LibraryHandler struct {
	uc *usecase.LibraryUsecase
}

// DI
func NewLibraryHandler(uc *usecase.LibraryUsecase) *LibraryHandler {
	return &LibraryHandler{uc: uc}
}

func (h *LibraryHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	e.GET("/mybooks", h.myBooks, g.login()...)
	e.GET("/favorites", h.favorites, g.login()...)
	e.POST("/toggle_favorite/:id", h.toggleFavorite, g.login()...)
}

func (h *LibraryHandler) myBooks(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.MyBooks(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LibraryHandler) favorites(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.Favorites(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LibraryHandler) toggleFavorite(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	bookID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book id"})
	}

	out, err := h.uc.ToggleFavorite(c.Request().Context(), userID, bookID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
