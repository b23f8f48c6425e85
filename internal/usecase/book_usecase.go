package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bookex/internal/domain/model"
	repo "bookex/internal/repository"

	"github.com/shopspring/decimal"
)

// 表紙画像の保存先
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

// numeric(8,2)に入る上限
var maxPrice = decimal.RequireFromString("999999.99")

const aboutText = "bookEx is a small community bookstore: publishers and writers post books, readers buy, rate, comment and return them."

type BookUsecase struct {
	bookRepo    repo.BookRepository
	rateRepo    repo.RateRepository
	commentRepo repo.CommentRepository
	favRepo     repo.FavoriteRepository
	menuRepo    repo.MenuRepository
	tx          repo.TransactionManager
	images      ImageStore
}

// DI
func NewBookUsecase(
	bookRepo repo.BookRepository,
	rateRepo repo.RateRepository,
	commentRepo repo.CommentRepository,
	favRepo repo.FavoriteRepository,
	menuRepo repo.MenuRepository,
	tx repo.TransactionManager,
	images ImageStore,
) *BookUsecase {
	return &BookUsecase{
		bookRepo:    bookRepo,
		rateRepo:    rateRepo,
		commentRepo: commentRepo,
		favRepo:     favRepo,
		menuRepo:    menuRepo,
		tx:          tx,
		images:      images,
	}
}

type IndexOutput struct {
	Menu []model.MainMenu `json:"menu"`
}

type AboutOutput struct {
	Menu  []model.MainMenu `json:"menu"`
	About string           `json:"about"`
}

func (u *BookUsecase) Index(ctx context.Context) (IndexOutput, error) {
	menu, err := u.menuRepo.List(ctx)
	if err != nil {
		return IndexOutput{}, internalError(err)
	}
	return IndexOutput{Menu: menu}, nil
}

func (u *BookUsecase) AboutUs(ctx context.Context) (AboutOutput, error) {
	menu, err := u.menuRepo.List(ctx)
	if err != nil {
		return AboutOutput{}, internalError(err)
	}
	return AboutOutput{Menu: menu, About: aboutText}, nil
}

// GET /displaybooks
type ListBooksInput struct {
	Page  int
	Limit int
}

type BookListOutput struct {
	Items []BookView `json:"items"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

func (u *BookUsecase) ListBooks(ctx context.Context, in ListBooksInput) (BookListOutput, error) {
	if in.Page < 1 {
		return BookListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return BookListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	books, total, err := u.bookRepo.List(ctx, repo.BookListQuery{Page: in.Page, Limit: in.Limit})
	if err != nil {
		return BookListOutput{}, internalError(err)
	}

	return BookListOutput{
		Items: toBookViews(books),
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

type BookDetailOutput struct {
	Book          BookView        `json:"book"`
	Rates         []model.Rate    `json:"rates"`
	AverageRating float64         `json:"average_rating"`
	Comments      []model.Comment `json:"comments"`
	FavoriteCount int64           `json:"favorite_count"`
	IsFavorite    bool            `json:"is_favorite"`
}

// viewerIDは未ログインなら0
func (u *BookUsecase) GetBookDetail(ctx context.Context, bookID int64, viewerID int64) (BookDetailOutput, error) {
	if bookID <= 0 {
		return BookDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	b, err := u.bookRepo.FindByID(ctx, bookID)
	if errors.Is(err, repo.ErrNotFound) {
		return BookDetailOutput{}, NewHTTPError(http.StatusNotFound, "book not found")
	}
	if err != nil {
		return BookDetailOutput{}, internalError(err)
	}

	rates, err := u.rateRepo.ListByBook(ctx, bookID)
	if err != nil {
		return BookDetailOutput{}, internalError(err)
	}
	avg, err := u.rateRepo.Average(ctx, bookID)
	if err != nil {
		return BookDetailOutput{}, internalError(err)
	}
	comments, err := u.commentRepo.ListByBook(ctx, bookID)
	if err != nil {
		return BookDetailOutput{}, internalError(err)
	}
	favCount, err := u.favRepo.CountByBook(ctx, bookID)
	if err != nil {
		return BookDetailOutput{}, internalError(err)
	}

	out := BookDetailOutput{
		Book:          toBookView(b),
		Rates:         rates,
		Comments:      comments,
		FavoriteCount: favCount,
	}
	// 評価なしは0表示
	if avg != nil {
		out.AverageRating = *avg
	}
	if viewerID > 0 {
		fav, err := u.favRepo.Exists(ctx, viewerID, bookID)
		if err != nil {
			return BookDetailOutput{}, internalError(err)
		}
		out.IsFavorite = fav
	}
	return out, nil
}

// GET /searchbooks
type SearchBooksInput struct {
	Q         string
	MinRating *int
	PriceMin  *decimal.Decimal
	PriceMax  *decimal.Decimal
}

type SearchItem struct {
	BookView
	// 評価が無ければnull
	AverageRating *float64 `json:"average_rating"`
}

type SearchOutput struct {
	Query string       `json:"query"`
	Items []SearchItem `json:"items"`
}

func (u *BookUsecase) SearchBooks(ctx context.Context, in SearchBooksInput) (SearchOutput, error) {
	q := strings.TrimSpace(in.Q)
	if len(q) > 100 {
		return SearchOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinRating != nil && (*in.MinRating < model.MinRating || *in.MinRating > model.MaxRating) {
		return SearchOutput{}, NewHTTPError(http.StatusBadRequest, "min_rating must be between 1 and 5")
	}
	if in.PriceMin != nil && in.PriceMin.IsNegative() {
		return SearchOutput{}, NewHTTPError(http.StatusBadRequest, "price_min must be >= 0")
	}
	if in.PriceMax != nil && in.PriceMax.IsNegative() {
		return SearchOutput{}, NewHTTPError(http.StatusBadRequest, "price_max must be >= 0")
	}
	if in.PriceMin != nil && in.PriceMax != nil && in.PriceMin.GreaterThan(*in.PriceMax) {
		return SearchOutput{}, NewHTTPError(http.StatusBadRequest, "price_min must be <= price_max")
	}

	out := SearchOutput{Query: q, Items: []SearchItem{}}
	// 検索語もフィルタも無ければ何も返さない
	if q == "" && in.MinRating == nil && in.PriceMin == nil && in.PriceMax == nil {
		return out, nil
	}

	books, err := u.bookRepo.Search(ctx, repo.BookSearchQuery{Q: q, MinPrice: in.PriceMin, MaxPrice: in.PriceMax})
	if err != nil {
		return SearchOutput{}, internalError(err)
	}

	ids := make([]int64, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	avgs, err := u.rateRepo.AveragesByBook(ctx, ids)
	if err != nil {
		return SearchOutput{}, internalError(err)
	}

	for _, b := range books {
		item := SearchItem{BookView: toBookView(b)}
		if avg, ok := avgs[b.ID]; ok {
			v := avg
			item.AverageRating = &v
		}
		if in.MinRating != nil {
			// 未評価の本はmin_ratingを満たさない
			if item.AverageRating == nil || *item.AverageRating < float64(*in.MinRating) {
				continue
			}
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

// 表紙画像のアップロード
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

// POST /postbook, /book_edit/:id
type BookInput struct {
	Name     string
	Web      string
	Price    decimal.Decimal
	Quantity int64
	// 編集時はnilなら画像を変えない
	Picture *ImageUpload
}

func validateBookInput(in BookInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if len(name) > 200 {
		return NewHTTPError(http.StatusBadRequest, "name too long")
	}
	web := strings.TrimSpace(in.Web)
	if web == "" {
		return NewHTTPError(http.StatusBadRequest, "web required")
	}
	if len(web) > 300 {
		return NewHTTPError(http.StatusBadRequest, "web too long")
	}
	if in.Price.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Price.GreaterThan(maxPrice) {
		return NewHTTPError(http.StatusBadRequest, "price too large")
	}
	if in.Quantity < 0 {
		return NewHTTPError(http.StatusBadRequest, "quantity must be >= 0")
	}
	return nil
}

// 監査ログに残す項目
type bookSnapshot struct {
	Name     string `json:"name"`
	Web      string `json:"web"`
	Price    string `json:"price"`
	Quantity int64  `json:"quantity"`
	Picture  string `json:"picture"`
}

func snapshotJSON(b model.Book) string {
	raw, err := json.Marshal(bookSnapshot{
		Name:     b.Name,
		Web:      b.Web,
		Price:    b.Price.StringFixed(2),
		Quantity: b.Quantity,
		Picture:  b.Picture,
	})
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func (u *BookUsecase) saveImage(ctx context.Context, img *ImageUpload) (string, error) {
	ref, err := u.images.Save(ctx, img.Filename, img.Body)
	if err != nil {
		return "", &HTTPError{Status: http.StatusBadRequest, Message: "invalid picture", Err: err}
	}
	return ref, nil
}

// 保存失敗はログだけ（本の操作は成功扱い）
func (u *BookUsecase) discardImage(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := u.images.Delete(ctx, ref); err != nil {
		slog.WarnContext(ctx, "image delete failed", "ref", ref, "err", err)
	}
}

func (u *BookUsecase) CreateBook(ctx context.Context, actorID int64, in BookInput) (BookView, error) {
	if actorID <= 0 {
		return BookView{}, NewHTTPError(http.StatusUnauthorized, "login required")
	}
	if err := validateBookInput(in); err != nil {
		return BookView{}, err
	}
	if in.Picture == nil {
		return BookView{}, NewHTTPError(http.StatusBadRequest, "picture required")
	}

	ref, err := u.saveImage(ctx, in.Picture)
	if err != nil {
		return BookView{}, err
	}

	now := time.Now()
	owner := actorID
	var created model.Book
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		b, err := r.Books().Create(ctx, model.Book{
			Name:        strings.TrimSpace(in.Name),
			Web:         strings.TrimSpace(in.Web),
			Price:       in.Price.Round(2),
			PublishDate: now,
			Picture:     ref,
			OwnerID:     &owner,
			Quantity:    in.Quantity,
		})
		if err != nil {
			return err
		}
		created = b

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorID,
			Action:       model.AuditActionCreateBook,
			ResourceType: model.AuditResourceBook,
			ResourceID:   b.ID,
			AfterJSON:    snapshotJSON(b),
			CreatedAt:    now,
		})
	})
	if err != nil {
		u.discardImage(ctx, ref)
		return BookView{}, internalError(err)
	}
	return toBookView(created), nil
}

func (u *BookUsecase) UpdateBook(ctx context.Context, actorID int64, bookID int64, in BookInput) (BookView, error) {
	if actorID <= 0 {
		return BookView{}, NewHTTPError(http.StatusUnauthorized, "login required")
	}
	if bookID <= 0 {
		return BookView{}, NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	if err := validateBookInput(in); err != nil {
		return BookView{}, err
	}

	newRef := ""
	if in.Picture != nil {
		ref, err := u.saveImage(ctx, in.Picture)
		if err != nil {
			return BookView{}, err
		}
		newRef = ref
	}

	var before, after model.Book
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		b, err := r.Books().FindByID(ctx, bookID)
		if err != nil {
			return err
		}
		before = b

		after = b
		after.Name = strings.TrimSpace(in.Name)
		after.Web = strings.TrimSpace(in.Web)
		after.Price = in.Price.Round(2)
		after.Quantity = in.Quantity
		if newRef != "" {
			after.Picture = newRef
		}
		if err := r.Books().Update(ctx, after); err != nil {
			return err
		}

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorID,
			Action:       model.AuditActionUpdateBook,
			ResourceType: model.AuditResourceBook,
			ResourceID:   bookID,
			BeforeJSON:   snapshotJSON(before),
			AfterJSON:    snapshotJSON(after),
			CreatedAt:    time.Now(),
		})
	})
	if err != nil {
		u.discardImage(ctx, newRef)
		if errors.Is(err, repo.ErrNotFound) {
			return BookView{}, NewHTTPError(http.StatusNotFound, "book not found")
		}
		return BookView{}, internalError(err)
	}

	// 差し替えた古い画像を消す
	if newRef != "" && before.Picture != newRef {
		u.discardImage(ctx, before.Picture)
	}
	return toBookView(after), nil
}

// 関連行（カート・評価・コメント・返品・お気に入り）もまとめて消す
func (u *BookUsecase) DeleteBook(ctx context.Context, actorID int64, bookID int64) error {
	if actorID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "login required")
	}
	if bookID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	var deleted model.Book
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		b, err := r.Books().FindByID(ctx, bookID)
		if err != nil {
			return err
		}
		deleted = b

		if err := r.CartLines().DeleteByBookID(ctx, bookID); err != nil {
			return err
		}
		if err := r.Rates().DeleteByBookID(ctx, bookID); err != nil {
			return err
		}
		if err := r.Comments().DeleteByBookID(ctx, bookID); err != nil {
			return err
		}
		if err := r.Returns().DeleteByBookID(ctx, bookID); err != nil {
			return err
		}
		if err := r.Favorites().DeleteByBookID(ctx, bookID); err != nil {
			return err
		}
		if err := r.Books().Delete(ctx, bookID); err != nil {
			return err
		}

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorID,
			Action:       model.AuditActionDeleteBook,
			ResourceType: model.AuditResourceBook,
			ResourceID:   bookID,
			BeforeJSON:   snapshotJSON(b),
			CreatedAt:    time.Now(),
		})
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "book not found")
	}
	if err != nil {
		return internalError(err)
	}

	u.discardImage(ctx, deleted.Picture)
	return nil
}
