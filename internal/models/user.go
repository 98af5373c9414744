package models

import (
	"time"

	"github.com/subwise/subwise/pkg/types"
)

// User is an account holder. Spending and savings totals are cached
// aggregates maintained by callers, not recomputed on read.
type User struct {
	ID                   string         `gorm:"column:id;type:varchar(64);primary_key" json:"id"`
	Email                string         `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	Name                 string         `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Currency             string         `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	Plan                 types.PlanTier `gorm:"column:plan;type:varchar(32);not null" json:"plan"`
	TotalMonthlySpending float64        `gorm:"column:total_monthly_spending" json:"total_monthly_spending"`
	TotalSavings         float64        `gorm:"column:total_savings" json:"total_savings"`
	AIDetectionsUsed     int            `gorm:"column:ai_detections_used" json:"ai_detections_used"`
	AIDetectionLimit     int            `gorm:"column:ai_detection_limit" json:"ai_detection_limit"`
	CreatedAt            time.Time      `json:"created_at"`
}

func (User) TableName() string {
	return "app_user"
}

// UserPatch is an explicit partial update; nil fields are left unchanged.
type UserPatch struct {
	Plan                 *types.PlanTier
	TotalMonthlySpending *float64
	TotalSavings         *float64
	AIDetectionsUsed     *int
	AIDetectionLimit     *int
}

func (u *User) Apply(p *UserPatch) {
	if p == nil {
		return
	}
	if p.Plan != nil {
		u.Plan = *p.Plan
	}
	if p.TotalMonthlySpending != nil {
		u.TotalMonthlySpending = *p.TotalMonthlySpending
	}
	if p.TotalSavings != nil {
		u.TotalSavings = *p.TotalSavings
	}
	if p.AIDetectionsUsed != nil {
		u.AIDetectionsUsed = *p.AIDetectionsUsed
	}
	if p.AIDetectionLimit != nil {
		u.AIDetectionLimit = *p.AIDetectionLimit
	}
}
