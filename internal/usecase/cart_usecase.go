package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bookex/internal/domain/ledger"
	"bookex/internal/domain/model"
	repo "bookex/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart と /checkout の業務ロジックです。
// 明細は(user, book)につきACTIVEが1行。checked_outになった行は購入履歴になる。
type CartUsecase struct {
	cartRepo repo.CartLineRepository
	bookRepo repo.BookRepository
	tx       repo.TransactionManager
}

func NewCartUsecase(
	cartRepo repo.CartLineRepository,
	bookRepo repo.BookRepository,
	tx repo.TransactionManager,
) *CartUsecase {
	return &CartUsecase{
		cartRepo: cartRepo,
		bookRepo: bookRepo,
		tx:       tx,
	}
}

type CartItemResponse struct {
	ID       int64           `json:"id"`
	BookID   int64           `json:"book_id"`
	Name     string          `json:"name"`
	PicPath  string          `json:"pic_path"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

type CheckoutResponse struct {
	CheckedOut int64           `json:"checked_out"`
	Total      decimal.Decimal `json:"total"`
}

type CancelResponse struct {
	Removed int64 `json:"removed"`
}

func toCartResponse(lines []model.CartLine) CartResponse {
	items := make([]CartItemResponse, 0, len(lines))
	priced := make([]ledger.PricedLine, 0, len(lines))
	for _, l := range lines {
		pl := ledger.PricedLine{Quantity: l.Quantity, UnitPrice: l.Book.Price}
		priced = append(priced, pl)
		items = append(items, CartItemResponse{
			ID:       l.ID,
			BookID:   l.BookID,
			Name:     l.Book.Name,
			PicPath:  l.Book.PicPath(),
			Price:    l.Book.Price,
			Quantity: l.Quantity,
			Subtotal: pl.Subtotal().Round(2),
		})
	}
	return CartResponse{Items: items, Total: ledger.CartTotal(priced)}
}

// GetCart はACTIVE明細と合計を返す（GET /cart, GET /checkout）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "login required")
	}

	lines, err := u.cartRepo.ListActive(ctx, userID)
	if err != nil {
		return CartResponse{}, internalError(err)
	}
	return toCartResponse(lines), nil
}

// AddToCart は同じ本なら数量+1、無ければ数量1で追加する。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, bookID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "login required")
	}
	if bookID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	//本の存在確認
	_, err := u.bookRepo.FindByID(ctx, bookID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "book not found")
	}
	if err != nil {
		return CartResponse{}, internalError(err)
	}

	if _, err := u.cartRepo.IncrementOrCreate(ctx, userID, bookID); err != nil {
		return CartResponse{}, internalError(err)
	}
	return u.GetCart(ctx, userID)
}

// UpdateQuantity はACTIVE明細の数量を置き換える。明細が無ければ何もしない。
func (u *CartUsecase) UpdateQuantity(ctx context.Context, userID int64, bookID int64, qty int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "login required")
	}
	if bookID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	if qty <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "quantity must be >= 1")
	}

	line, err := u.cartRepo.FindActive(ctx, userID, bookID)
	if errors.Is(err, repo.ErrNotFound) {
		return u.GetCart(ctx, userID)
	}
	if err != nil {
		return CartResponse{}, internalError(err)
	}

	if err := u.cartRepo.UpdateQuantity(ctx, line.ID, qty); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, internalError(err)
	}
	return u.GetCart(ctx, userID)
}

// Checkout はACTIVE明細を全部購入済みにする。ACTIVEが無ければ何も変えない。
// 在庫（Book.quantity）は減らさない。
func (u *CartUsecase) Checkout(ctx context.Context, userID int64) (CheckoutResponse, error) {
	if userID <= 0 {
		return CheckoutResponse{}, NewHTTPError(http.StatusUnauthorized, "login required")
	}

	var out CheckoutResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines, err := r.CartLines().ListActive(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			out = CheckoutResponse{Total: decimal.Zero}
			return nil
		}

		total := toCartResponse(lines).Total
		n, err := r.CartLines().CheckoutActive(ctx, userID)
		if err != nil {
			return err
		}
		out = CheckoutResponse{CheckedOut: n, Total: total}

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  userID,
			Action:       model.AuditActionCheckout,
			ResourceType: model.AuditResourceCart,
			ResourceID:   userID,
			AfterJSON:    fmt.Sprintf(`{"lines":%d,"total":"%s"}`, n, total.StringFixed(2)),
			CreatedAt:    time.Now(),
		})
	})
	if err != nil {
		return CheckoutResponse{}, internalError(err)
	}
	return out, nil
}

// CancelCart はACTIVE明細を全部消す。
func (u *CartUsecase) CancelCart(ctx context.Context, userID int64) (CancelResponse, error) {
	if userID <= 0 {
		return CancelResponse{}, NewHTTPError(http.StatusUnauthorized, "login required")
	}

	n, err := u.cartRepo.DeleteActive(ctx, userID)
	if err != nil {
		return CancelResponse{}, internalError(err)
	}
	return CancelResponse{Removed: n}, nil
}
