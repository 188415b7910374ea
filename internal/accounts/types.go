package accounts

import "time"

const (
	SubscriptionActive = "active"

	// TrialDays is the calendar trial window after signup.
	TrialDays = 7
)

// Profile is the per-user account record. Subscription fields are written by
// the payment flow (out of scope here) and only read by the gate.
type Profile struct {
	ID                  string     `json:"id"` // auth subject
	Email               []string   `json:"email"`
	FullName            string     `json:"full_name,omitempty"`
	TrialStartDate      time.Time  `json:"trial_start_date"`
	TrialUsed           bool       `json:"trial_used,omitempty"`
	MealPlansGenerated  int        `json:"meal_plans_generated"`
	SubscriptionStatus  string     `json:"subscription_status,omitempty"`
	SubscriptionID      string     `json:"subscription_id,omitempty"`
	StripeCustomerID    string     `json:"stripe_customer_id,omitempty"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// Decision is the gate's answer for one generation attempt.
type Decision struct {
	Allowed       bool   `json:"allowed"`
	Reason        string `json:"reason,omitempty"`
	RemainingDays int    `json:"remaining_days,omitempty"`
}
