package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"bookex/internal/domain/model"
	repo "bookex/internal/repository"
)

// 評価とコメント
type FeedbackUsecase struct {
	bookRepo    repo.BookRepository
	rateRepo    repo.RateRepository
	commentRepo repo.CommentRepository
}

func NewFeedbackUsecase(
	bookRepo repo.BookRepository,
	rateRepo repo.RateRepository,
	commentRepo repo.CommentRepository,
) *FeedbackUsecase {
	return &FeedbackUsecase{
		bookRepo:    bookRepo,
		rateRepo:    rateRepo,
		commentRepo: commentRepo,
	}
}

const maxCommentLength = 2000

type RateResponse struct {
	BookID        int64   `json:"book_id"`
	Rating        int     `json:"rating"`
	AverageRating float64 `json:"average_rating"`
}

func (u *FeedbackUsecase) ensureBook(ctx context.Context, bookID int64) error {
	if bookID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	_, err := u.bookRepo.FindByID(ctx, bookID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "book not found")
	}
	if err != nil {
		return internalError(err)
	}
	return nil
}

// 同じ本への2回目以降は上書き
func (u *FeedbackUsecase) RateBook(ctx context.Context, userID int64, bookID int64, rating int) (RateResponse, error) {
	if userID <= 0 {
		return RateResponse{}, NewHTTPError(http.StatusUnauthorized, "login required")
	}
	if rating < model.MinRating || rating > model.MaxRating {
		return RateResponse{}, NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}
	if err := u.ensureBook(ctx, bookID); err != nil {
		return RateResponse{}, err
	}

	if err := u.rateRepo.Upsert(ctx, userID, bookID, rating); err != nil {
		return RateResponse{}, internalError(err)
	}

	avg, err := u.rateRepo.Average(ctx, bookID)
	if err != nil {
		return RateResponse{}, internalError(err)
	}
	out := RateResponse{BookID: bookID, Rating: rating}
	if avg != nil {
		out.AverageRating = *avg
	}
	return out, nil
}

func (u *FeedbackUsecase) AddComment(ctx context.Context, userID int64, bookID int64, content string) (model.Comment, error) {
	if userID <= 0 {
		return model.Comment{}, NewHTTPError(http.StatusUnauthorized, "login required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Comment{}, NewHTTPError(http.StatusBadRequest, "content required")
	}
	if len(content) > maxCommentLength {
		return model.Comment{}, NewHTTPError(http.StatusBadRequest, "content too long")
	}
	if err := u.ensureBook(ctx, bookID); err != nil {
		return model.Comment{}, err
	}

	c, err := u.commentRepo.Create(ctx, model.Comment{
		BookID:    bookID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return model.Comment{}, internalError(err)
	}
	return c, nil
}

// 投稿者本人だけが消せる
func (u *FeedbackUsecase) DeleteComment(ctx context.Context, userID int64, commentID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "login required")
	}
	if commentID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid comment id")
	}

	c, err := u.commentRepo.FindByID(ctx, commentID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "comment not found")
	}
	if err != nil {
		return internalError(err)
	}
	if c.UserID != userID {
		return NewHTTPError(http.StatusForbidden, "not the author of this comment")
	}

	if err := u.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "comment not found")
		}
		return internalError(err)
	}
	return nil
}
