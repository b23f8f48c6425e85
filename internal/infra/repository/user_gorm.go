package repository

import (
	"bookex/internal/domain/model"
	domainrepo "bookex/internal/repository"
	"context"

	"gorm.io/gorm"
)

type userGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewUserGormRepository(db *gorm.DB) domainrepo.UserRepository {
	return &userGormRepository{db: db}
}

// ユーザーとプロフィールを同じトランザクションで作成
func (r *userGormRepository) Create(ctx context.Context, user *model.User, role model.Role) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile := model.UserProfile{UserID: user.ID, Role: role}
		return tx.Create(&profile).Error
	})
	return translate(err, "create user")
}

// usernameでユーザーを1件取得
func (r *userGormRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&u).Error
	if err != nil {
		return nil, translate(err, "find user by username")
	}

	return &u, nil
}

// IDでユーザーを1件取得
func (r *userGormRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, translate(err, "find user")
	}

	return &u, nil
}

// ユーザーを更新。
func (r *userGormRepository) Update(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return translate(err, "update user")
	}
	return nil
}

// token_versionを+1 します。
func (r *userGormRepository) IncrementTokenVersion(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + ?", 1))

	if res.Error != nil {
		return translate(res.Error, "increment token version")
	}

	// 0件更新は「対象がない」
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}

func (r *userGormRepository) FindProfile(ctx context.Context, userID int64) (model.UserProfile, error) {
	var p model.UserProfile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error; err != nil {
		return model.UserProfile{}, translate(err, "find profile")
	}
	return p, nil
}

// プロフィールが無い古いユーザーにも対応して作るか更新する
func (r *userGormRepository) UpdateRole(ctx context.Context, userID int64, role model.Role) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.UserProfile{}).
			Where("user_id = ?", userID).
			Update("role", role)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		return tx.Create(&model.UserProfile{UserID: userID, Role: role}).Error
	})
	return translate(err, "update role")
}

// 所属グループ名（名前順）
func (r *userGormRepository) ListGroupNames(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Joins("JOIN auth_user_groups ON auth_user_groups.group_id = auth_groups.id").
		Where("auth_user_groups.user_id = ?", userID).
		Order("auth_groups.name asc").
		Pluck("auth_groups.name", &names).Error; err != nil {
		return nil, translate(err, "list groups")
	}
	return names, nil
}

// グループが無ければ作ってから所属させる
func (r *userGormRepository) AddToGroup(ctx context.Context, userID int64, groupName string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u model.User
		if err := tx.Select("id").First(&u, userID).Error; err != nil {
			return err
		}
		g := model.Group{Name: groupName}
		if err := tx.Where("name = ?", groupName).FirstOrCreate(&g).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&model.UserGroup{}).
			Where("user_id = ? AND group_id = ?", userID, g.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return tx.Create(&model.UserGroup{UserID: userID, GroupID: g.ID}).Error
	})
	return translate(err, "add to group")
}

func (r *userGormRepository) RemoveFromGroup(ctx context.Context, userID int64, groupName string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g model.Group
		if err := tx.Where("name = ?", groupName).First(&g).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND group_id = ?", userID, g.ID).
			Delete(&model.UserGroup{}).Error
	})
	return translate(err, "remove from group")
}
