package models

import (
	"time"

	"github.com/subwise/subwise/pkg/types"
)

// BillNegotiation tracks an attempt to lower a recurring bill. It starts
// pending with an estimated savings potential; completing it overwrites the
// estimate with the actual savings.
type BillNegotiation struct {
	ID               string           `gorm:"column:id;type:varchar(64);primary_key" json:"id"`
	UserID           string           `gorm:"column:user_id;type:varchar(64);not null;index" json:"user_id"`
	SubscriptionID   *string          `gorm:"column:subscription_id;type:varchar(64);default:null" json:"subscription_id"`
	ServiceName      string           `gorm:"column:service_name;type:varchar(255);not null" json:"service_name"`
	CurrentAmount    float64          `gorm:"column:current_amount;not null" json:"current_amount"`
	TargetAmount     *float64         `gorm:"column:target_amount;default:null" json:"target_amount"`
	Status           types.BillStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	SavingsPotential *float64         `gorm:"column:savings_potential;default:null" json:"savings_potential"`
	NegotiationNotes *string          `gorm:"column:negotiation_notes;type:text;default:null" json:"negotiation_notes"`
	CreatedAt        time.Time        `json:"created_at"`
	CompletedAt      *time.Time       `gorm:"column:completed_at;default:null" json:"completed_at"`
}

func (BillNegotiation) TableName() string {
	return "bill_negotiation"
}

type BillNegotiationPatch struct {
	Status           *types.BillStatus
	TargetAmount     *float64
	SavingsPotential *float64
	NegotiationNotes *string
	CompletedAt      *time.Time
}

func (n *BillNegotiation) Apply(p *BillNegotiationPatch) {
	if p == nil {
		return
	}
	if p.Status != nil {
		n.Status = *p.Status
	}
	if p.TargetAmount != nil {
		n.TargetAmount = p.TargetAmount
	}
	if p.SavingsPotential != nil {
		n.SavingsPotential = p.SavingsPotential
	}
	if p.NegotiationNotes != nil {
		n.NegotiationNotes = p.NegotiationNotes
	}
	if p.CompletedAt != nil {
		n.CompletedAt = p.CompletedAt
	}
}
