package model

import "time"

// 本の出品・編集・削除、返品など
type AuditAction string

const (
	AuditActionCreateBook AuditAction = "CREATE_BOOK"
	AuditActionUpdateBook AuditAction = "UPDATE_BOOK"
	AuditActionDeleteBook AuditAction = "DELETE_BOOK"
	//返品で在庫が戻った操作
	AuditActionReturnBook AuditAction = "RETURN_BOOK"
	AuditActionCheckout   AuditAction = "CHECKOUT"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceBook AuditResourceType = "book"
	AuditResourceCart AuditResourceType = "cart"
	AuditResourceUser AuditResourceType = "user"
)

// 監査ログ。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザーのID。
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	ResourceID int64 `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
