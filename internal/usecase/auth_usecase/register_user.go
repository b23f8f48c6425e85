package auth

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"bookex/internal/domain/model"
	"bookex/internal/repository"
)

// 会員登録の入力
type RegisterUserInput struct {
	Username        string
	Password        string
	PasswordConfirm string
	IsPublisher     bool
	IsWriter        bool
}

// 会員登録の出力
type RegisterUserOutput struct {
	User model.User `json:"user"`
	Role model.Role `json:"role"`
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	username := strings.TrimSpace(in.Username)
	if !isValidUsername(username) {
		return out, ErrInvalidUsername
	}
	if err := checkNewPassword(in.Password, in.PasswordConfirm); err != nil {
		return out, err
	}

	// username重複チェック
	existing, err := u.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return out, ErrUsernameAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return out, err
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		TokenVersion: 0,
		IsActive:     true,
	}
	// チェックボックスからロール
	role := model.RoleFromFlags(in.IsPublisher, in.IsWriter)

	// ユーザーとプロフィールを保存（同時登録の重複は一意制約で弾く）
	if err := u.userRepo.Create(ctx, user, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return out, ErrUsernameAlreadyExists
		}
		return out, err
	}

	out.User = *user
	out.Role = role
	return out, nil
}

// 150文字以内で、英数字と @ . + - _ のみ
func isValidUsername(username string) bool {
	if username == "" || len(username) > 150 {
		return false
	}
	for _, r := range username {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case '@', '.', '+', '-', '_':
			continue
		}
		return false
	}
	return true
}
