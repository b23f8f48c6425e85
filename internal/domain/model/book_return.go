package model

import "time"

// 返品の履歴（追記のみ）
type BookReturn struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"not null;index:idx_book_returns_owner" json:"user_id"`
	BookID     int64     `gorm:"not null;index:idx_book_returns_owner;index" json:"book_id"`
	Quantity   int64     `gorm:"not null" json:"quantity"`
	ReturnedAt time.Time `gorm:"not null" json:"returned_at"`
}
