package repository

import (
	"context"
	"testing"

	"bookex/internal/domain/model"
	repo "bookex/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartLine_IncrementOrCreate_SameBookMergesIntoOneLine(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, gdb, "alice")
	b := seedBook(t, gdb, "Go", "10.00", 5)

	r := NewCartLineGormRepository(gdb)

	first, err := r.IncrementOrCreate(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Quantity)

	second, err := r.IncrementOrCreate(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(2), second.Quantity)

	lines, err := r.ListActive(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].Quantity)
	assert.Equal(t, "Go", lines[0].Book.Name)
}

func TestCartLine_CheckoutActive_FlipsAndIsIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, gdb, "alice")
	b1 := seedBook(t, gdb, "Go", "10.00", 5)
	b2 := seedBook(t, gdb, "Rust", "5.00", 5)

	r := NewCartLineGormRepository(gdb)
	_, err := r.IncrementOrCreate(ctx, u.ID, b1.ID)
	require.NoError(t, err)
	_, err = r.IncrementOrCreate(ctx, u.ID, b2.ID)
	require.NoError(t, err)

	n, err := r.CheckoutActive(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// 2回目は何も変わらない
	n, err = r.CheckoutActive(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	lines, err := r.ListActive(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	purchased, err := r.PurchasedByBook(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{b1.ID: 1, b2.ID: 1}, purchased)
}

func TestCartLine_AfterCheckoutNewLineIsCreated(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, gdb, "alice")
	b := seedBook(t, gdb, "Go", "10.00", 5)

	r := NewCartLineGormRepository(gdb)
	first, err := r.IncrementOrCreate(ctx, u.ID, b.ID)
	require.NoError(t, err)
	_, err = r.CheckoutActive(ctx, u.ID)
	require.NoError(t, err)

	next, err := r.IncrementOrCreate(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, next.ID)
	assert.Equal(t, int64(1), next.Quantity)

	got, err := r.PurchasedQuantity(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestCartLine_UpdateQuantityAndDeleteActive(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, gdb, "alice")
	other := seedUser(t, gdb, "bob")
	b := seedBook(t, gdb, "Go", "10.00", 5)

	r := NewCartLineGormRepository(gdb)
	line, err := r.IncrementOrCreate(ctx, u.ID, b.ID)
	require.NoError(t, err)
	_, err = r.IncrementOrCreate(ctx, other.ID, b.ID)
	require.NoError(t, err)

	require.NoError(t, r.UpdateQuantity(ctx, line.ID, 4))
	found, err := r.FindActive(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), found.Quantity)

	assert.ErrorIs(t, r.UpdateQuantity(ctx, 9999, 1), repo.ErrNotFound)

	n, err := r.DeleteActive(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = r.FindActive(ctx, u.ID, b.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	// 他人のカートは残る
	lines, err := r.ListActive(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestCartLine_PurchasedQuantity_NoRowsIsZero(t *testing.T) {
	gdb := newTestDB(t)
	r := NewCartLineGormRepository(gdb)

	got, err := r.PurchasedQuantity(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)

	var count int64
	require.NoError(t, gdb.Model(&model.CartLine{}).Count(&count).Error)
	assert.Zero(t, count)
}
