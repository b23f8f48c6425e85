package model

const (
	GroupPublisher = "Publisher"
	GroupWriter    = "Writer"
)

// 権限グループ（運用者がbookexctlで付け外しする）
type Group struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
}

type UserGroup struct {
	UserID  int64 `gorm:"primaryKey" json:"user_id"`
	GroupID int64 `gorm:"primaryKey" json:"group_id"`
}

func (Group) TableName() string { return "auth_groups" }

func (UserGroup) TableName() string { return "auth_user_groups" }
