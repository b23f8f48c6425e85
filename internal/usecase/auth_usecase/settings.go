package auth

import (
	"context"
	"errors"

	"bookex/internal/domain/model"
	"bookex/internal/domain/policy"
	"bookex/internal/repository"
)

type SettingsOutput struct {
	UserID     int64      `json:"user_id"`
	Username   string     `json:"username"`
	Role       model.Role `json:"role"`
	Groups     []string   `json:"groups"`
	CanPublish bool       `json:"can_publish"`
}

// nilの項目は変更しない
type UpdateSettingsInput struct {
	IsPublisher *bool
	IsWriter    *bool

	CurrentPassword    string
	NewPassword        string
	NewPasswordConfirm string
}

type SettingsUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	verifier PasswordVerifier
	rtRepo   repository.RefreshTokenRepository
}

func NewSettingsUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	rtRepo repository.RefreshTokenRepository,
) *SettingsUsecase {
	return &SettingsUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		verifier: verifier,
		rtRepo:   rtRepo,
	}
}

func (u *SettingsUsecase) Get(ctx context.Context, userID int64) (SettingsOutput, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return SettingsOutput{}, err
	}

	profile, err := u.userRepo.FindProfile(ctx, userID)
	pp := &profile
	if errors.Is(err, repository.ErrNotFound) {
		pp = nil
	} else if err != nil {
		return SettingsOutput{}, err
	}

	groups, err := u.userRepo.ListGroupNames(ctx, userID)
	if err != nil {
		return SettingsOutput{}, err
	}
	if groups == nil {
		groups = []string{}
	}

	subject := policy.ResolveSubject(userID, pp, groups)
	return SettingsOutput{
		UserID:     user.ID,
		Username:   user.Username,
		Role:       subject.ProfileRole,
		Groups:     groups,
		CanPublish: subject.Can(policy.CapPublishBooks),
	}, nil
}

// ロール変更とパスワード変更。
// パスワードを変えたらtoken_versionを上げて発行済みのアクセストークンとリフレッシュトークンを無効にする。
func (u *SettingsUsecase) Update(ctx context.Context, userID int64, in UpdateSettingsInput) (SettingsOutput, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return SettingsOutput{}, err
	}

	if in.NewPassword != "" {
		if !u.verifier.Verify(in.CurrentPassword, user.PasswordHash) {
			return SettingsOutput{}, ErrWrongCurrentPassword
		}
		if err := checkNewPassword(in.NewPassword, in.NewPasswordConfirm); err != nil {
			return SettingsOutput{}, err
		}
	}

	if in.IsPublisher != nil || in.IsWriter != nil {
		current, err := u.Get(ctx, userID)
		if err != nil {
			return SettingsOutput{}, err
		}
		isPublisher := current.Role == model.RolePublisher || current.Role == model.RolePublisherWriter
		isWriter := current.Role == model.RoleWriter || current.Role == model.RolePublisherWriter
		if in.IsPublisher != nil {
			isPublisher = *in.IsPublisher
		}
		if in.IsWriter != nil {
			isWriter = *in.IsWriter
		}
		if err := u.userRepo.UpdateRole(ctx, userID, model.RoleFromFlags(isPublisher, isWriter)); err != nil {
			return SettingsOutput{}, err
		}
	}

	if in.NewPassword != "" {
		hashed, err := u.hasher.Hash(in.NewPassword)
		if err != nil {
			return SettingsOutput{}, err
		}
		user.PasswordHash = hashed
		if err := u.userRepo.Update(ctx, user); err != nil {
			return SettingsOutput{}, err
		}
		if err := u.userRepo.IncrementTokenVersion(ctx, userID); err != nil {
			return SettingsOutput{}, err
		}
		if err := u.rtRepo.DeleteAllByUserID(ctx, userID); err != nil {
			return SettingsOutput{}, err
		}
	}

	return u.Get(ctx, userID)
}
