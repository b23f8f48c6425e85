package handler

import (
	"net/http"

	"bookex/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ReturnHandler struct {
	uc *usecase.ReturnUsecase
}

// DI
func NewReturnHandler(uc *usecase.ReturnUsecase) *ReturnHandler {
	return &ReturnHandler{uc: uc}
}

type ReturnRequest struct {
	Quantity int64 `json:"quantity" form:"quantity"`
}

func (h *ReturnHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	e.GET("/return/:id", h.returnable, g.login()...)
	e.POST("/return/:id", h.returnBook, g.login()...)
}

// 返品できる数
func (h *ReturnHandler) returnable(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	bookID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book id"})
	}

	out, err := h.uc.GetReturnable(c.Request().Context(), userID, bookID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReturnHandler) returnBook(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	bookID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book id"})
	}

	var req ReturnRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.uc.ReturnBook(c.Request().Context(), userID, bookID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
