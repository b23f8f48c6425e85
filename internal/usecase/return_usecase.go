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
)

// 購入済みの本を返品する
type ReturnUsecase struct {
	bookRepo   repo.BookRepository
	cartRepo   repo.CartLineRepository
	returnRepo repo.BookReturnRepository
	tx         repo.TransactionManager
}

func NewReturnUsecase(
	bookRepo repo.BookRepository,
	cartRepo repo.CartLineRepository,
	returnRepo repo.BookReturnRepository,
	tx repo.TransactionManager,
) *ReturnUsecase {
	return &ReturnUsecase{
		bookRepo:   bookRepo,
		cartRepo:   cartRepo,
		returnRepo: returnRepo,
		tx:         tx,
	}
}

type ReturnableResponse struct {
	Book              BookView `json:"book"`
	Purchased         int64    `json:"purchased"`
	Returned          int64    `json:"returned"`
	AvailableToReturn int64    `json:"available_to_return"`
}

type ReturnResponse struct {
	BookID            int64 `json:"book_id"`
	Returned          int64 `json:"returned"`
	AvailableToReturn int64 `json:"available_to_return"`
	BookQuantity      int64 `json:"book_quantity"`
}

// GET /return/:id
func (u *ReturnUsecase) GetReturnable(ctx context.Context, userID int64, bookID int64) (ReturnableResponse, error) {
	if userID <= 0 {
		return ReturnableResponse{}, NewHTTPError(http.StatusUnauthorized, "login required")
	}
	if bookID <= 0 {
		return ReturnableResponse{}, NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	b, err := u.bookRepo.FindByID(ctx, bookID)
	if errors.Is(err, repo.ErrNotFound) {
		return ReturnableResponse{}, NewHTTPError(http.StatusNotFound, "book not found")
	}
	if err != nil {
		return ReturnableResponse{}, internalError(err)
	}

	purchased, err := u.cartRepo.PurchasedQuantity(ctx, userID, bookID)
	if err != nil {
		return ReturnableResponse{}, internalError(err)
	}
	returned, err := u.returnRepo.ReturnedQuantity(ctx, userID, bookID)
	if err != nil {
		return ReturnableResponse{}, internalError(err)
	}

	h := ledger.Holding{Purchased: purchased, Returned: returned}
	return ReturnableResponse{
		Book:              toBookView(b),
		Purchased:         purchased,
		Returned:          returned,
		AvailableToReturn: h.AvailableToReturn(),
	}, nil
}

// POST /return/:id
// 返品可能数の再計算・在庫戻し・返品履歴・監査ログを1トランザクションで行う。
func (u *ReturnUsecase) ReturnBook(ctx context.Context, userID int64, bookID int64, qty int64) (ReturnResponse, error) {
	if userID <= 0 {
		return ReturnResponse{}, NewHTTPError(http.StatusUnauthorized, "login required")
	}
	if bookID <= 0 {
		return ReturnResponse{}, NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	var out ReturnResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		b, err := r.Books().FindByIDForUpdate(ctx, bookID)
		if err != nil {
			return err
		}

		purchased, err := r.CartLines().PurchasedQuantity(ctx, userID, bookID)
		if err != nil {
			return err
		}
		returned, err := r.Returns().ReturnedQuantity(ctx, userID, bookID)
		if err != nil {
			return err
		}

		h := ledger.Holding{Purchased: purchased, Returned: returned}
		if err := h.CheckReturn(qty); err != nil {
			return err
		}

		if err := r.Books().IncreaseQuantity(ctx, bookID, qty); err != nil {
			return err
		}
		now := time.Now()
		if _, err := r.Returns().Create(ctx, model.BookReturn{
			UserID:     userID,
			BookID:     bookID,
			Quantity:   qty,
			ReturnedAt: now,
		}); err != nil {
			return err
		}

		out = ReturnResponse{
			BookID:            bookID,
			Returned:          qty,
			AvailableToReturn: h.AvailableToReturn() - qty,
			BookQuantity:      b.Quantity + qty,
		}

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  userID,
			Action:       model.AuditActionReturnBook,
			ResourceType: model.AuditResourceBook,
			ResourceID:   bookID,
			BeforeJSON:   fmt.Sprintf(`{"quantity":%d}`, b.Quantity),
			AfterJSON:    fmt.Sprintf(`{"quantity":%d}`, out.BookQuantity),
			CreatedAt:    now,
		})
	})
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, ledger.ErrInvalidReturnQuantity):
		return ReturnResponse{}, NewHTTPError(http.StatusBadRequest, "invalid return quantity")
	case errors.Is(err, repo.ErrNotFound):
		return ReturnResponse{}, NewHTTPError(http.StatusNotFound, "book not found")
	default:
		return ReturnResponse{}, internalError(err)
	}
}
