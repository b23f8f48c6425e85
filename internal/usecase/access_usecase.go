package usecase

import (
	"context"
	"errors"
	"net/http"

	"bookex/internal/domain/policy"
	repo "bookex/internal/repository"
)

// プロフィールとグループから権限判定用のSubjectを組み立てる
type AccessUsecase struct {
	userRepo repo.UserRepository
}

func NewAccessUsecase(userRepo repo.UserRepository) *AccessUsecase {
	return &AccessUsecase{userRepo: userRepo}
}

func (u *AccessUsecase) ResolveSubject(ctx context.Context, userID int64) (policy.Subject, error) {
	if userID <= 0 {
		return policy.Subject{}, NewHTTPError(http.StatusUnauthorized, "login required")
	}

	profile, err := u.userRepo.FindProfile(ctx, userID)
	pp := &profile
	if errors.Is(err, repo.ErrNotFound) {
		// プロフィールが無ければRegular扱い
		pp = nil
	} else if err != nil {
		return policy.Subject{}, internalError(err)
	}

	groups, err := u.userRepo.ListGroupNames(ctx, userID)
	if err != nil {
		return policy.Subject{}, internalError(err)
	}

	return policy.ResolveSubject(userID, pp, groups), nil
}
