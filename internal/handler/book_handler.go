package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bookex/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// カタログ（一覧・詳細・検索）と出品
type BookHandler struct {
	uc *usecase.BookUsecase
}

// DI
func NewBookHandler(uc *usecase.BookUsecase) *BookHandler {
	return &BookHandler{uc: uc}
}

func (h *BookHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	e.GET("/", h.index)
	e.GET("/aboutus", h.aboutUs)
	e.GET("/displaybooks", h.list)
	e.GET("/book_detail/:id", h.detail, g.Viewer)
	e.GET("/searchbooks", h.search)

	e.GET("/postbook", h.canPost, g.login(g.Publisher)...)
	e.POST("/postbook", h.create, g.login(g.Publisher)...)
	e.POST("/book_edit/:id", h.update, g.login(g.Publisher)...)
	e.POST("/book_delete/:id", h.delete, g.login(g.Publisher)...)
}

func (h *BookHandler) index(c echo.Context) error {
	out, err := h.uc.Index(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BookHandler) aboutUs(c echo.Context) error {
	out, err := h.uc.AboutUs(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// page/limit省略時は1/20
func (h *BookHandler) list(c echo.Context) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}
	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}

	out, err := h.uc.ListBooks(c.Request().Context(), usecase.ListBooksInput{Page: page, Limit: limit})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BookHandler) detail(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book id"})
	}
	// 未ログインなら0
	viewerID, _ := currentUser(c)

	out, err := h.uc.GetBookDetail(c.Request().Context(), id, viewerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BookHandler) search(c echo.Context) error {
	in := usecase.SearchBooksInput{Q: c.QueryParam("q")}

	if raw := strings.TrimSpace(c.QueryParam("min_rating")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_rating"})
		}
		in.MinRating = &v
	}
	var err error
	if in.PriceMin, err = queryDecimal(c, "price_min"); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid price_min"})
	}
	if in.PriceMax, err = queryDecimal(c, "price_max"); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid price_max"})
	}

	out, err := h.uc.SearchBooks(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type canPostResponse struct {
	CanPublish bool `json:"can_publish"`
}

// PublisherGuardを通れば出品できる
func (h *BookHandler) canPost(c echo.Context) error {
	return c.JSON(http.StatusOK, canPostResponse{CanPublish: true})
}

func (h *BookHandler) create(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	in, closeFn, err := readBookForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	defer closeFn()

	out, err := h.uc.CreateBook(c.Request().Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *BookHandler) update(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book id"})
	}

	in, closeFn, err := readBookForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	defer closeFn()

	out, err := h.uc.UpdateBook(c.Request().Context(), userID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BookHandler) delete(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book id"})
	}

	if err := h.uc.DeleteBook(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// multipart: name, web, price, quantity, picture(ファイル)
func readBookForm(c echo.Context) (usecase.BookInput, func(), error) {
	noop := func() {}
	in := usecase.BookInput{
		Name: c.FormValue("name"),
		Web:  c.FormValue("web"),
	}

	price, err := decimal.NewFromString(strings.TrimSpace(c.FormValue("price")))
	if err != nil {
		return in, noop, errors.New("invalid price")
	}
	in.Price = price

	if raw := strings.TrimSpace(c.FormValue("quantity")); raw != "" {
		qty, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return in, noop, errors.New("invalid quantity")
		}
		in.Quantity = qty
	}

	fh, err := c.FormFile("picture")
	// 画像なし（編集時は既存画像のまま）
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return in, noop, nil
	}
	if err != nil {
		return in, noop, errors.New("invalid picture")
	}
	f, err := fh.Open()
	if err != nil {
		return in, noop, errors.New("invalid picture")
	}
	in.Picture = &usecase.ImageUpload{Filename: fh.Filename, Body: f}
	return in, func() { _ = f.Close() }, nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func queryDecimal(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
