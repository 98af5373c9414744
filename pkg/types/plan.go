package types

type PlanTier string

const (
	PlanFree    PlanTier = "free"
	PlanPremium PlanTier = "premium"
)

func (p PlanTier) Valid() bool {
	return p == PlanFree || p == PlanPremium
}
