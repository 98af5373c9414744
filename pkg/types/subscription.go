package types

type SubscriptionStatus string

const (
	SubscriptionStatusActive              SubscriptionStatus = "active"
	SubscriptionStatusCancelled           SubscriptionStatus = "cancelled"
	SubscriptionStatusPaused              SubscriptionStatus = "paused"
	SubscriptionStatusPendingCancellation SubscriptionStatus = "pending_cancellation"
)

type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
	BillingCycleWeekly  BillingCycle = "weekly"
)

func (c BillingCycle) Valid() bool {
	switch c {
	case BillingCycleMonthly, BillingCycleYearly, BillingCycleWeekly:
		return true
	}
	return false
}

type SubscriptionCategory string

const (
	CategoryStreaming SubscriptionCategory = "streaming"
	CategorySoftware  SubscriptionCategory = "software"
	CategoryUtilities SubscriptionCategory = "utilities"
	CategoryFitness   SubscriptionCategory = "fitness"
	CategoryInsurance SubscriptionCategory = "insurance"
	CategoryTelecom   SubscriptionCategory = "telecom"
	CategoryNews      SubscriptionCategory = "news"
	CategoryGaming    SubscriptionCategory = "gaming"
	CategoryOther     SubscriptionCategory = "other"
)

func (c SubscriptionCategory) Valid() bool {
	switch c {
	case CategoryStreaming, CategorySoftware, CategoryUtilities, CategoryFitness,
		CategoryInsurance, CategoryTelecom, CategoryNews, CategoryGaming, CategoryOther:
		return true
	}
	return false
}
