package handler

import (
	"net/http"

	"bookex/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 評価とコメント
type FeedbackHandler struct {
	uc *usecase.FeedbackUsecase
}

// DI
func NewFeedbackHandler(uc *usecase.FeedbackUsecase) *FeedbackHandler {
	return &FeedbackHandler{uc: uc}
}

type RateRequest struct {
	Rating int `json:"rating" form:"rating" validate:"required"`
}

type CommentRequest struct {
	Content string `json:"content" form:"content" validate:"required"`
}

func (h *FeedbackHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	e.POST("/rate/:id", h.rate, g.login()...)
	e.POST("/add_comment/:id", h.addComment, g.login()...)
	e.POST("/delete_comment/:id", h.deleteComment, g.login()...)
}

func (h *FeedbackHandler) rate(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	bookID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book id"})
	}

	var req RateRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.uc.RateBook(c.Request().Context(), userID, bookID, req.Rating)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FeedbackHandler) addComment(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	bookID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book id"})
	}

	var req CommentRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.uc.AddComment(c.Request().Context(), userID, bookID, req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// :id はコメントID
func (h *FeedbackHandler) deleteComment(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	commentID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid comment id"})
	}

	if err := h.uc.DeleteComment(c.Request().Context(), userID, commentID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
