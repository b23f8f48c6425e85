package model

import "time"

// カート明細
// checked_out=false の行がACTIVE。(user, book)につきACTIVEは1行
type CartLine struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"not null;index:idx_cart_lines_owner" json:"user_id"`
	BookID     int64     `gorm:"not null;index:idx_cart_lines_owner;index" json:"book_id"`
	Quantity   int64     `gorm:"not null;default:1" json:"quantity"`
	CheckedOut bool      `gorm:"not null;default:false;index" json:"checked_out"`
	Book       Book      `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"book"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
