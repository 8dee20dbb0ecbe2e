package model

import "github.com/shopspring/decimal"

// SubscriptionPlan is a static offering; plans are compiled in, not stored.
type SubscriptionPlan struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Interval      string          `json:"interval"`
	Description   string          `json:"description"`
	Features      []string        `json:"features"`
	StripePriceID *string         `json:"stripe_price_id,omitempty"`
}

// SelectPlanRequest is the payload for POST /api/subscriptions/select.
type SelectPlanRequest struct {
	PlanID int64 `json:"plan_id"`
}

// SelectPlanResponse confirms a tier change.
type SelectPlanResponse struct {
	Message string           `json:"message"`
	Plan    SubscriptionPlan `json:"plan"`
}

// Plans returns the static plan list. Paid plans pick up their Stripe price
// ids from configuration at wiring time.
func Plans(basicPriceID, premiumPriceID string) []SubscriptionPlan {
	optional := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	return []SubscriptionPlan{
		{
			ID:          1,
			Name:        "Free",
			Price:       decimal.Zero,
			Interval:    "month",
			Description: "Explore curated figures and events.",
			Features:    []string{"Browse figures", "Browse events", "Ask the Historian (rate-limited)"},
		},
		{
			ID:            2,
			Name:          "Basic",
			Price:         decimal.RequireFromString("9.99"),
			Interval:      "month",
			Description:   "Unlock more content and marketplace access.",
			Features:      []string{"Everything in Free", "Marketplace purchases", "Higher AI limits"},
			StripePriceID: optional(basicPriceID),
		},
		{
			ID:            3,
			Name:          "Premium",
			Price:         decimal.RequireFromString("19.99"),
			Interval:      "month",
			Description:   "Creator tools and exclusive events.",
			Features:      []string{"Everything in Basic", "Creator tools", "Exclusive events", "Priority support"},
			StripePriceID: optional(premiumPriceID),
		},
	}
}
