package model

type MainMenu struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Item string `gorm:"type:varchar(300);uniqueIndex;not null" json:"item"`
	Link string `gorm:"type:varchar(300);uniqueIndex;not null" json:"link"`
}
