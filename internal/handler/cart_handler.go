package handler

import (
	"net/http"

	"bookex/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cart と /checkout のHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type UpdateCartQuantityRequest struct {
	Quantity int64 `json:"quantity" form:"quantity"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	e.GET("/cart", h.getCart, g.login()...)
	e.POST("/add_to_cart/:id", h.addToCart, g.login()...)
	e.POST("/update_cart_quantity/:id", h.updateQuantity, g.login()...)
	e.POST("/cancel_cart", h.cancel, g.login()...)
	// GETは確認画面（カートと合計）、POSTで確定
	e.GET("/checkout", h.getCart, g.login()...)
	e.POST("/checkout", h.checkout, g.login()...)
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	bookID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book id"})
	}

	out, err := h.uc.AddToCart(c.Request().Context(), userID, bookID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) updateQuantity(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	bookID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book id"})
	}

	var req UpdateCartQuantityRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.uc.UpdateQuantity(c.Request().Context(), userID, bookID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) checkout(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.Checkout(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) cancel(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.CancelCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
