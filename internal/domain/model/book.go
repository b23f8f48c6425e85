package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Book struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(200);not null" json:"name"`
	Web         string          `gorm:"type:varchar(300);not null" json:"web"`
	Price       decimal.Decimal `gorm:"type:numeric(8,2);not null" json:"price"`
	PublishDate time.Time       `gorm:"not null" json:"publish_date"`
	Picture     string          `gorm:"type:varchar(300)" json:"picture"`
	OwnerID     *int64          `gorm:"index" json:"owner_id"`
	Quantity    int64           `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 画像参照から "/static/" までを落とした表示用パス
func (b Book) PicPath() string {
	if i := strings.LastIndex(b.Picture, "/static/"); i >= 0 {
		return b.Picture[i+len("/static/"):]
	}
	return b.Picture
}

func (b Book) IsOwnedBy(userID int64) bool {
	return b.OwnerID != nil && *b.OwnerID == userID
}

// お気に入り（ユーザーと本の多対多）
type BookFavorite struct {
	UserID    int64     `gorm:"primaryKey" json:"user_id"`
	BookID    int64     `gorm:"primaryKey;index" json:"book_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
