package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"bookex/internal/domain/model"
	repo "bookex/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	assert.Equal(t, status, he.Status)
}

func line(id, bookID, qty int64, price string) model.CartLine {
	return model.CartLine{
		ID:       id,
		BookID:   bookID,
		Quantity: qty,
		Book:     model.Book{ID: bookID, Name: "b", Price: decimal.RequireFromString(price), Picture: "/static/uploads/x.png"},
	}
}

func TestCartUsecase_GetCart_Total(t *testing.T) {
	m := newMocks()
	uc := NewCartUsecase(m.cartLines, m.books, m.tx)

	m.cartLines.On("ListActive", mock.Anything, int64(1)).
		Return([]model.CartLine{line(1, 10, 2, "10.00"), line(2, 11, 3, "5.00")}, nil)

	out, err := uc.GetCart(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "35.00", out.Total.StringFixed(2))
	assert.Equal(t, "20.00", out.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "uploads/x.png", out.Items[0].PicPath)
}

func TestCartUsecase_AddToCart_BookMissing(t *testing.T) {
	m := newMocks()
	uc := NewCartUsecase(m.cartLines, m.books, m.tx)

	m.books.On("FindByID", mock.Anything, int64(99)).Return(model.Book{}, repo.ErrNotFound)

	_, err := uc.AddToCart(context.Background(), 1, 99)
	assertHTTPStatus(t, err, http.StatusNotFound)
	m.cartLines.AssertNotCalled(t, "IncrementOrCreate", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_AddToCart_Increments(t *testing.T) {
	m := newMocks()
	uc := NewCartUsecase(m.cartLines, m.books, m.tx)

	m.books.On("FindByID", mock.Anything, int64(10)).Return(model.Book{ID: 10}, nil)
	m.cartLines.On("IncrementOrCreate", mock.Anything, int64(1), int64(10)).Return(line(1, 10, 2, "10.00"), nil)
	m.cartLines.On("ListActive", mock.Anything, int64(1)).Return([]model.CartLine{line(1, 10, 2, "10.00")}, nil)

	out, err := uc.AddToCart(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Items[0].Quantity)
	m.cartLines.AssertExpectations(t)
}

func TestCartUsecase_UpdateQuantity(t *testing.T) {
	t.Run("non positive is rejected", func(t *testing.T) {
		m := newMocks()
		uc := NewCartUsecase(m.cartLines, m.books, m.tx)

		_, err := uc.UpdateQuantity(context.Background(), 1, 10, 0)
		assertHTTPStatus(t, err, http.StatusBadRequest)
	})

	t.Run("no active line is a no-op", func(t *testing.T) {
		m := newMocks()
		uc := NewCartUsecase(m.cartLines, m.books, m.tx)

		m.cartLines.On("FindActive", mock.Anything, int64(1), int64(10)).Return(model.CartLine{}, repo.ErrNotFound)
		m.cartLines.On("ListActive", mock.Anything, int64(1)).Return([]model.CartLine{}, nil)

		out, err := uc.UpdateQuantity(context.Background(), 1, 10, 3)
		require.NoError(t, err)
		assert.Empty(t, out.Items)
		m.cartLines.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("sets quantity", func(t *testing.T) {
		m := newMocks()
		uc := NewCartUsecase(m.cartLines, m.books, m.tx)

		m.cartLines.On("FindActive", mock.Anything, int64(1), int64(10)).Return(line(7, 10, 1, "10.00"), nil)
		m.cartLines.On("UpdateQuantity", mock.Anything, int64(7), int64(3)).Return(nil)
		m.cartLines.On("ListActive", mock.Anything, int64(1)).Return([]model.CartLine{line(7, 10, 3, "10.00")}, nil)

		out, err := uc.UpdateQuantity(context.Background(), 1, 10, 3)
		require.NoError(t, err)
		assert.Equal(t, "30.00", out.Total.StringFixed(2))
	})
}

func TestCartUsecase_Checkout_EmptyCartIsNoop(t *testing.T) {
	m := newMocks()
	uc := NewCartUsecase(m.cartLines, m.books, m.tx)

	m.cartLines.On("ListActive", mock.Anything, int64(1)).Return([]model.CartLine{}, nil)

	out, err := uc.Checkout(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.CheckedOut)
	assert.True(t, out.Total.IsZero())
	m.cartLines.AssertNotCalled(t, "CheckoutActive", mock.Anything, mock.Anything)
	m.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCartUsecase_Checkout_FlipsAndAudits(t *testing.T) {
	m := newMocks()
	uc := NewCartUsecase(m.cartLines, m.books, m.tx)

	m.cartLines.On("ListActive", mock.Anything, int64(1)).
		Return([]model.CartLine{line(1, 10, 2, "10.00"), line(2, 11, 3, "5.00")}, nil)
	m.cartLines.On("CheckoutActive", mock.Anything, int64(1)).Return(int64(2), nil)
	m.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionCheckout && l.ActorUserID == 1
	})).Return(nil)

	out, err := uc.Checkout(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.CheckedOut)
	assert.Equal(t, "35.00", out.Total.StringFixed(2))
	assert.Equal(t, 1, m.tx.calls)
	m.audit.AssertExpectations(t)
}

func TestCartUsecase_Checkout_DBErrorIs500(t *testing.T) {
	m := newMocks()
	uc := NewCartUsecase(m.cartLines, m.books, m.tx)

	boom := errors.New("boom")
	m.cartLines.On("ListActive", mock.Anything, int64(1)).Return(nil, boom)

	_, err := uc.Checkout(context.Background(), 1)
	assertHTTPStatus(t, err, http.StatusInternalServerError)
	assert.ErrorIs(t, err, boom)
}

func TestCartUsecase_Cancel(t *testing.T) {
	m := newMocks()
	uc := NewCartUsecase(m.cartLines, m.books, m.tx)

	m.cartLines.On("DeleteActive", mock.Anything, int64(1)).Return(int64(3), nil)

	out, err := uc.CancelCart(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.Removed)

	_, err = uc.CancelCart(context.Background(), 0)
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}
