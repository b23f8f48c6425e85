package model

import "time"

type Role string

const (
	RoleRegular         Role = "Regular"
	RolePublisher       Role = "Publisher"
	RoleWriter          Role = "Writer"
	RolePublisherWriter Role = "Publisher/Writer"
)

// 登録フォームのチェックボックスからロールを決める
func RoleFromFlags(isPublisher, isWriter bool) Role {
	switch {
	case isPublisher && isWriter:
		return RolePublisherWriter
	case isPublisher:
		return RolePublisher
	case isWriter:
		return RoleWriter
	default:
		return RoleRegular
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleRegular, RolePublisher, RoleWriter, RolePublisherWriter:
		return true
	}
	return false
}

// 1ユーザーにつき1件
type UserProfile struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'Regular'" json:"role"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
