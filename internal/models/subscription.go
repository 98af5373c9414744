package models

import (
	"time"

	"github.com/subwise/subwise/pkg/types"
)

// Subscription is a recurring charge tracked for a user. UserID is a
// reference, not ownership; callers verify the user exists first.
type Subscription struct {
	ID              string                     `gorm:"column:id;type:varchar(64);primary_key" json:"id"`
	UserID          string                     `gorm:"column:user_id;type:varchar(64);not null;index" json:"user_id"`
	Name            string                     `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Company         string                     `gorm:"column:company;type:varchar(255);not null" json:"company"`
	Amount          float64                    `gorm:"column:amount;not null" json:"amount"`
	Currency        string                     `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	BillingCycle    types.BillingCycle         `gorm:"column:billing_cycle;type:varchar(16);not null" json:"billing_cycle"`
	NextBillingDate time.Time                  `gorm:"column:next_billing_date" json:"next_billing_date"`
	Category        types.SubscriptionCategory `gorm:"column:category;type:varchar(32);not null" json:"category"`
	Status          types.SubscriptionStatus   `gorm:"column:status;type:varchar(32);not null" json:"status"`
	AutoDetected    bool                       `gorm:"column:auto_detected" json:"auto_detected"`
	// LastUsed is optional; a subscription that has never reported usage is
	// not considered unused, however old it is.
	LastUsed  *time.Time `gorm:"column:last_used;default:null" json:"last_used"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

func (s *Subscription) Active() bool {
	return s != nil && s.Status == types.SubscriptionStatusActive
}

// SubscriptionPatch is an explicit partial update; nil fields are left
// unchanged. Applying any patch refreshes UpdatedAt at the store layer.
type SubscriptionPatch struct {
	Name            *string
	Company         *string
	Amount          *float64
	Currency        *string
	BillingCycle    *types.BillingCycle
	NextBillingDate *time.Time
	Category        *types.SubscriptionCategory
	Status          *types.SubscriptionStatus
	LastUsed        *time.Time
}

func (s *Subscription) Apply(p *SubscriptionPatch) {
	if p == nil {
		return
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Company != nil {
		s.Company = *p.Company
	}
	if p.Amount != nil {
		s.Amount = *p.Amount
	}
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if p.BillingCycle != nil {
		s.BillingCycle = *p.BillingCycle
	}
	if p.NextBillingDate != nil {
		s.NextBillingDate = *p.NextBillingDate
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.LastUsed != nil {
		s.LastUsed = p.LastUsed
	}
}
