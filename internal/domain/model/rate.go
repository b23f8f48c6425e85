package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Rate struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_rates_user_book" json:"user_id"`
	BookID    int64     `gorm:"not null;uniqueIndex:idx_rates_user_book;index" json:"book_id"`
	Rating    int       `gorm:"not null;default:1" json:"rating"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
