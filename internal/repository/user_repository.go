package repository

import (
	"bookex/internal/domain/model"
	"context"
)

// 保存・取得を約束
type UserRepository interface {
	//ユーザーとプロフィールをまとめて作成
	Create(ctx context.Context, user *model.User, role model.Role) error
	// 見つからなければErrNotFound
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// パスワード・最終ログインなど
	Update(ctx context.Context, user *model.User) error
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID int64) error

	// プロフィールが無ければErrNotFound
	FindProfile(ctx context.Context, userID int64) (model.UserProfile, error)
	UpdateRole(ctx context.Context, userID int64, role model.Role) error

	ListGroupNames(ctx context.Context, userID int64) ([]string, error)
	AddToGroup(ctx context.Context, userID int64, groupName string) error
	RemoveFromGroup(ctx context.Context, userID int64, groupName string) error
}
