package subscription

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("subscription not found")
	ErrAlreadyDecided = errors.New("subscription already decided")
	ErrPendingExists  = errors.New("user already has a pending subscription")
	ErrQuotaExhausted = errors.New("plan subscriber quota exhausted for this month")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// ActivePeriod is how long an activated subscription stays usable.
const ActivePeriod = 30 * 24 * time.Hour

type Subscription struct {
	ID              uint64         `gorm:"primaryKey;column:id" json:"-"`
	SubscriptionID  string         `gorm:"size:32;uniqueIndex:ux_subscriptions_sub_id_active" json:"subscription_id"`
	UserID          string         `gorm:"size:32;index:idx_subscriptions_user" json:"user_id"`
	PlanID          uint64         `gorm:"index" json:"plan_id"`
	AmountPaid      float64        `gorm:"type:decimal(18,2)" json:"amount_paid"`
	ProofRef        string         `gorm:"type:text" json:"proof_ref"`
	Status          Status         `gorm:"type:enum('pending','active','rejected','expired');default:'pending'" json:"status"`
	IsActive        bool           `gorm:"default:false;index:idx_subscriptions_user" json:"is_active"`
	StartDate       *time.Time     `json:"start_date,omitempty"`
	EndDate         *time.Time     `json:"end_date,omitempty"`
	RejectionReason *string        `gorm:"type:text" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Subscription) TableName() string { return "subscriptions" }

// EffectivelyActive is the read-time predicate for "this subscription still
// gates loan eligibility". Expiry is derived here, never from a sweep having
// run.
func (s *Subscription) EffectivelyActive(now time.Time) bool {
	return s.Status == StatusActive && s.EndDate != nil && s.EndDate.After(now)
}
