package usecase

import (
	"context"
	"net/http"
	"testing"

	"bookex/internal/domain/model"
	"bookex/internal/domain/policy"
	repo "bookex/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLibraryUsecase_MyBooks_NetPurchased(t *testing.T) {
	m := newMocks()
	uc := NewLibraryUsecase(m.books, m.cartLines, m.returns, m.favorites)

	m.books.On("ListByOwner", mock.Anything, int64(1)).Return([]model.Book{{ID: 5}}, nil)
	// 10: 3買って1返品 → 2、11: 1買って1返品 → 含めない
	m.cartLines.On("PurchasedByBook", mock.Anything, int64(1)).Return(map[int64]int64{10: 3, 11: 1}, nil)
	m.returns.On("ReturnedByBook", mock.Anything, int64(1)).Return(map[int64]int64{10: 1, 11: 1}, nil)
	m.books.On("ListByIDs", mock.Anything, []int64{10}).Return([]model.Book{{ID: 10}}, nil)
	m.favorites.On("ListBooks", mock.Anything, int64(1)).Return([]model.Book{}, nil)

	out, err := uc.MyBooks(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{10: 2}, out.PurchasedQuantities)
	require.Len(t, out.Purchased, 1)
	assert.Equal(t, int64(10), out.Purchased[0].ID)
	assert.Len(t, out.Posted, 1)
}

func TestLibraryUsecase_ToggleFavorite(t *testing.T) {
	m := newMocks()
	uc := NewLibraryUsecase(m.books, m.cartLines, m.returns, m.favorites)

	m.books.On("FindByID", mock.Anything, int64(10)).Return(model.Book{ID: 10}, nil)
	m.favorites.On("Exists", mock.Anything, int64(1), int64(10)).Return(false, nil).Once()
	m.favorites.On("Add", mock.Anything, int64(1), int64(10)).Return(nil)

	out, err := uc.ToggleFavorite(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, out.Favorited)

	m.favorites.On("Exists", mock.Anything, int64(1), int64(10)).Return(true, nil).Once()
	m.favorites.On("Remove", mock.Anything, int64(1), int64(10)).Return(nil)

	out, err = uc.ToggleFavorite(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.False(t, out.Favorited)
}

func TestLibraryUsecase_ToggleFavorite_BookMissing(t *testing.T) {
	m := newMocks()
	uc := NewLibraryUsecase(m.books, m.cartLines, m.returns, m.favorites)

	m.books.On("FindByID", mock.Anything, int64(10)).Return(model.Book{}, repo.ErrNotFound)

	_, err := uc.ToggleFavorite(context.Background(), 1, 10)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestFeedbackUsecase_RateBook(t *testing.T) {
	m := newMocks()
	uc := NewFeedbackUsecase(m.books, m.rates, m.comments)

	_, err := uc.RateBook(context.Background(), 1, 10, 6)
	assertHTTPStatus(t, err, http.StatusBadRequest)

	m.books.On("FindByID", mock.Anything, int64(10)).Return(model.Book{ID: 10}, nil)
	m.rates.On("Upsert", mock.Anything, int64(1), int64(10), 4).Return(nil)
	m.rates.On("Average", mock.Anything, int64(10)).Return(ptrFloat(3.5), nil)

	out, err := uc.RateBook(context.Background(), 1, 10, 4)
	require.NoError(t, err)
	assert.Equal(t, 3.5, out.AverageRating)
}

func TestFeedbackUsecase_AddComment_Blank(t *testing.T) {
	m := newMocks()
	uc := NewFeedbackUsecase(m.books, m.rates, m.comments)

	_, err := uc.AddComment(context.Background(), 1, 10, "   ")
	assertHTTPStatus(t, err, http.StatusBadRequest)
	m.comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFeedbackUsecase_DeleteComment_OnlyAuthor(t *testing.T) {
	m := newMocks()
	uc := NewFeedbackUsecase(m.books, m.rates, m.comments)

	m.comments.On("FindByID", mock.Anything, int64(3)).Return(model.Comment{ID: 3, UserID: 2}, nil)

	err := uc.DeleteComment(context.Background(), 1, 3)
	assertHTTPStatus(t, err, http.StatusForbidden)
	m.comments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	m.comments.On("Delete", mock.Anything, int64(3)).Return(nil)
	require.NoError(t, uc.DeleteComment(context.Background(), 2, 3))
}

func TestFeedbackUsecase_DeleteComment_Missing(t *testing.T) {
	m := newMocks()
	uc := NewFeedbackUsecase(m.books, m.rates, m.comments)

	m.comments.On("FindByID", mock.Anything, int64(3)).Return(model.Comment{}, repo.ErrNotFound)

	err := uc.DeleteComment(context.Background(), 1, 3)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestAccessUsecase_ResolveSubject(t *testing.T) {
	m := newMocks()
	uc := NewAccessUsecase(m.users)

	m.users.On("FindProfile", mock.Anything, int64(1)).Return(model.UserProfile{}, repo.ErrNotFound)
	m.users.On("ListGroupNames", mock.Anything, int64(1)).Return([]string{model.GroupWriter}, nil)

	s, err := uc.ResolveSubject(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.RoleRegular, s.ProfileRole)
	assert.True(t, s.Can(policy.CapPublishBooks))
	assert.True(t, s.Disagrees())
}
