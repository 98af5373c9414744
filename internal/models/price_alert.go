package models

import "time"

// PriceAlert records a detected price change on a subscription. No producer
// exists in this service yet; alerts arrive through the store API and are
// only ever mutated by acknowledgement.
type PriceAlert struct {
	ID               string    `gorm:"column:id;type:varchar(64);primary_key" json:"id"`
	UserID           string    `gorm:"column:user_id;type:varchar(64);not null;index" json:"user_id"`
	SubscriptionID   string    `gorm:"column:subscription_id;type:varchar(64);not null" json:"subscription_id"`
	OldPrice         float64   `gorm:"column:old_price;not null" json:"old_price"`
	NewPrice         float64   `gorm:"column:new_price;not null" json:"new_price"`
	ChangePercentage float64   `gorm:"column:change_percentage;not null" json:"change_percentage"`
	AlertDate        time.Time `gorm:"column:alert_date" json:"alert_date"`
	Acknowledged     bool      `gorm:"column:acknowledged" json:"acknowledged"`
}

func (PriceAlert) TableName() string {
	return "price_alert"
}
