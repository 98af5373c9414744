package models

// SavingsReport is a derived view, recomputed from live store state on every
// request and never persisted.
type SavingsReport struct {
	UserID                 string  `json:"user_id"`
	MonthlySavings         float64 `json:"monthly_savings"`
	YearlySavings          float64 `json:"yearly_savings"`
	CancelledSubscriptions int     `json:"cancelled_subscriptions"`
	NegotiatedBills        int     `json:"negotiated_bills"`
	TotalSubscriptions     int     `json:"total_subscriptions"`
	ActiveSubscriptions    int     `json:"active_subscriptions"`
}
