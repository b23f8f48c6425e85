package usecase

import (
	"context"
	"errors"
	"net/http"

	"bookex/internal/domain/ledger"
	repo "bookex/internal/repository"
)

// 自分の本（出品・購入・お気に入り）
type LibraryUsecase struct {
	bookRepo   repo.BookRepository
	cartRepo   repo.CartLineRepository
	returnRepo repo.BookReturnRepository
	favRepo    repo.FavoriteRepository
}

func NewLibraryUsecase(
	bookRepo repo.BookRepository,
	cartRepo repo.CartLineRepository,
	returnRepo repo.BookReturnRepository,
	favRepo repo.FavoriteRepository,
) *LibraryUsecase {
	return &LibraryUsecase{
		bookRepo:   bookRepo,
		cartRepo:   cartRepo,
		returnRepo: returnRepo,
		favRepo:    favRepo,
	}
}

type MyBooksResponse struct {
	Posted    []BookView `json:"posted"`
	Purchased []BookView `json:"purchased"`
	// book_id → 正味の購入数（0以下は含めない）
	PurchasedQuantities map[int64]int64 `json:"purchased_quantities"`
	Favorites           []BookView      `json:"favorites"`
}

type FavoritesResponse struct {
	Items []BookView `json:"items"`
}

type ToggleFavoriteResponse struct {
	BookID    int64 `json:"book_id"`
	Favorited bool  `json:"favorited"`
}

func (u *LibraryUsecase) MyBooks(ctx context.Context, userID int64) (MyBooksResponse, error) {
	if userID <= 0 {
		return MyBooksResponse{}, NewHTTPError(http.StatusUnauthorized, "login required")
	}

	posted, err := u.bookRepo.ListByOwner(ctx, userID)
	if err != nil {
		return MyBooksResponse{}, internalError(err)
	}

	purchased, err := u.cartRepo.PurchasedByBook(ctx, userID)
	if err != nil {
		return MyBooksResponse{}, internalError(err)
	}
	returned, err := u.returnRepo.ReturnedByBook(ctx, userID)
	if err != nil {
		return MyBooksResponse{}, internalError(err)
	}
	quantities := ledger.PurchasedQuantities(purchased, returned)

	ids := make([]int64, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	purchasedBooks, err := u.bookRepo.ListByIDs(ctx, ids)
	if err != nil {
		return MyBooksResponse{}, internalError(err)
	}

	favs, err := u.favRepo.ListBooks(ctx, userID)
	if err != nil {
		return MyBooksResponse{}, internalError(err)
	}

	return MyBooksResponse{
		Posted:              toBookViews(posted),
		Purchased:           toBookViews(purchasedBooks),
		PurchasedQuantities: quantities,
		Favorites:           toBookViews(favs),
	}, nil
}

func (u *LibraryUsecase) Favorites(ctx context.Context, userID int64) (FavoritesResponse, error) {
	if userID <= 0 {
		return FavoritesResponse{}, NewHTTPError(http.StatusUnauthorized, "login required")
	}

	favs, err := u.favRepo.ListBooks(ctx, userID)
	if err != nil {
		return FavoritesResponse{}, internalError(err)
	}
	return FavoritesResponse{Items: toBookViews(favs)}, nil
}

// 登録済みなら外し、無ければ登録する
func (u *LibraryUsecase) ToggleFavorite(ctx context.Context, userID int64, bookID int64) (ToggleFavoriteResponse, error) {
	if userID <= 0 {
		return ToggleFavoriteResponse{}, NewHTTPError(http.StatusUnauthorized, "login required")
	}
	if bookID <= 0 {
		return ToggleFavoriteResponse{}, NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	_, err := u.bookRepo.FindByID(ctx, bookID)
	if errors.Is(err, repo.ErrNotFound) {
		return ToggleFavoriteResponse{}, NewHTTPError(http.StatusNotFound, "book not found")
	}
	if err != nil {
		return ToggleFavoriteResponse{}, internalError(err)
	}

	exists, err := u.favRepo.Exists(ctx, userID, bookID)
	if err != nil {
		return ToggleFavoriteResponse{}, internalError(err)
	}

	if exists {
		if err := u.favRepo.Remove(ctx, userID, bookID); err != nil {
			return ToggleFavoriteResponse{}, internalError(err)
		}
		return ToggleFavoriteResponse{BookID: bookID, Favorited: false}, nil
	}

	if err := u.favRepo.Add(ctx, userID, bookID); err != nil {
		return ToggleFavoriteResponse{}, internalError(err)
	}
	return ToggleFavoriteResponse{BookID: bookID, Favorited: true}, nil
}
