package subscription

import "time"

type SubscribeInput struct {
	UserID     string
	PlanID     uint64
	AmountPaid float64
	ProofRef   string
}

type SubscriptionDTO struct {
	SubscriptionID  string     `json:"subscription_id"`
	UserID          string     `json:"user_id"`
	PlanID          uint64     `json:"plan_id"`
	AmountPaid      float64    `json:"amount_paid"`
	ProofRef        string     `json:"proof_ref"`
	Status          string     `json:"status"`
	IsActive        bool       `json:"is_active"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
