package repository

import (
	"context"
	"testing"

	repo "bookex/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook_SearchByNameIsCaseInsensitive(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	seedBook(t, gdb, "The Go Programming Language", "40.00", 1)
	seedBook(t, gdb, "Learning GOLANG", "25.00", 1)
	seedBook(t, gdb, "Rust in Action", "30.00", 1)

	r := NewBookGormRepository(gdb)

	books, err := r.Search(ctx, repo.BookSearchQuery{Q: "go"})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Learning GOLANG", books[0].Name)
	assert.Equal(t, "The Go Programming Language", books[1].Name)
}

func TestBook_SearchTreatsWildcardsLiterally(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	seedBook(t, gdb, "Go Programming", "10.00", 1)
	seedBook(t, gdb, "100% Rust", "20.00", 1)

	r := NewBookGormRepository(gdb)

	books, err := r.Search(ctx, repo.BookSearchQuery{Q: "_"})
	require.NoError(t, err)
	assert.Empty(t, books)

	books, err = r.Search(ctx, repo.BookSearchQuery{Q: "%"})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "100% Rust", books[0].Name)

	books, err = r.Search(ctx, repo.BookSearchQuery{Q: `\`})
	require.NoError(t, err)
	assert.Empty(t, books)

	books, err = r.Search(ctx, repo.BookSearchQuery{Q: "go"})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Go Programming", books[0].Name)
}

func TestBook_FindByIDForUpdate(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	b := seedBook(t, gdb, "A", "1.00", 3)

	r := NewBookGormRepository(gdb)

	got, err := r.FindByIDForUpdate(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, int64(3), got.Quantity)

	_, err = r.FindByIDForUpdate(ctx, 9999)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestBook_SearchByPriceRange(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	seedBook(t, gdb, "A", "5.00", 1)
	seedBook(t, gdb, "B", "15.50", 1)
	seedBook(t, gdb, "C", "30.00", 1)

	r := NewBookGormRepository(gdb)
	min := decimal.RequireFromString("10")
	max := decimal.RequireFromString("20")

	books, err := r.Search(ctx, repo.BookSearchQuery{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "B", books[0].Name)
	assert.True(t, books[0].Price.Equal(decimal.RequireFromString("15.50")))
}

func TestBook_ListPaginates(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	for _, n := range []string{"A", "B", "C"} {
		seedBook(t, gdb, n, "1.00", 1)
	}

	r := NewBookGormRepository(gdb)
	books, total, err := r.List(ctx, repo.BookListQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, books, 1)
}

func TestBook_UpdateDeleteAndIncrease(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	b := seedBook(t, gdb, "A", "1.00", 1)

	r := NewBookGormRepository(gdb)

	b.Name = "A2"
	b.Price = decimal.RequireFromString("2.50")
	require.NoError(t, r.Update(ctx, b))

	require.NoError(t, r.IncreaseQuantity(ctx, b.ID, 3))

	got, err := r.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "A2", got.Name)
	assert.Equal(t, int64(4), got.Quantity)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("2.5")))

	require.NoError(t, r.Delete(ctx, b.ID))
	_, err = r.FindByID(ctx, b.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, b.ID), repo.ErrNotFound)
}

func TestBook_ListByOwnerAndIDs(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, gdb, "pub")

	r := NewBookGormRepository(gdb)
	mine, err := r.Create(ctx, seedableBook("Mine", &u.ID))
	require.NoError(t, err)
	other := seedBook(t, gdb, "Other", "1.00", 1)

	owned, err := r.ListByOwner(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, mine.ID, owned[0].ID)

	byIDs, err := r.ListByIDs(ctx, []int64{other.ID, mine.ID})
	require.NoError(t, err)
	assert.Len(t, byIDs, 2)

	empty, err := r.ListByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
