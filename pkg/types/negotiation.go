package types

type BillStatus string

const (
	BillStatusPending     BillStatus = "pending"
	BillStatusNegotiating BillStatus = "negotiating"
	BillStatusCompleted   BillStatus = "completed"
	BillStatusFailed      BillStatus = "failed"
)
