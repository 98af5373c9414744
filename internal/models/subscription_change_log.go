package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubscriptionChangeLog snapshots a subscription before and after a mutation.
// Only the durable store writes these rows.
type SubscriptionChangeLog struct {
	ID             string                               `gorm:"column:id;type:varchar(64);primary_key" json:"id"`
	UserID         string                               `gorm:"column:user_id;type:varchar(64);not null;index" json:"user_id"`
	SubscriptionID string                               `gorm:"column:subscription_id;type:varchar(64);not null" json:"subscription_id"`
	Before         datatypes.JSONType[*Subscription]    `gorm:"column:before;type:jsonb;default:'{}'" json:"before"`
	After          datatypes.JSONType[*Subscription]    `gorm:"column:after;type:jsonb;default:'{}'" json:"after"`
	CreatedAt      time.Time                            `json:"created_at"`
}

func (SubscriptionChangeLog) TableName() string {
	return "subscription_change_log"
}
