package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound             = errors.New("loan not found")
	ErrAlreadyDecided       = errors.New("loan already decided")
	ErrOverCeiling          = errors.New("loan would exceed the plan debt ceiling")
	ErrOverCapacity         = errors.New("loan would exceed the plan open-loan capacity")
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrInvalidAmount        = errors.New("invalid loan amount")
	ErrInvalidPayout        = errors.New("invalid payout details")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
	StatusPaid     Status = "paid"
	StatusOverdue  Status = "overdue"
)

// OpenStatuses are the loans that count toward a user's ceiling and
// capacity: requested but undecided, running, or past due.
func OpenStatuses() []Status {
	return []Status{StatusPending, StatusActive, StatusOverdue}
}

// Terms is the slice of plan state a loan freezes at the moment it becomes
// active. Later plan edits never reach through to an issued loan.
type Terms struct {
	MaxLoanAmount      float64 `gorm:"type:decimal(18,2)" json:"max_loan_amount"`
	RepaymentDelayDays int     `json:"repayment_delay_days"`
}

type Loan struct {
	ID     uint64  `gorm:"primaryKey;column:id" json:"-"`
	LoanID string  `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	UserID string  `gorm:"size:32;index:idx_loans_user_status" json:"user_id"`
	PlanID uint64  `gorm:"index" json:"plan_id"`
	Amount float64 `gorm:"type:decimal(18,2)" json:"amount"`
	// Monotonically non-decreasing; only VerifyRepayment writes it.
	AmountPaid        float64        `gorm:"type:decimal(18,2);default:0" json:"amount_paid"`
	Status            Status         `gorm:"type:enum('pending','active','rejected','paid','overdue');default:'pending';index:idx_loans_user_status" json:"status"`
	Terms             Terms          `gorm:"embedded;embeddedPrefix:term_" json:"terms"`
	PayoutPhone       string         `gorm:"size:32" json:"payout_phone"`
	PayoutName        string         `gorm:"size:255" json:"payout_name"`
	PayoutNetwork     string         `gorm:"size:32" json:"payout_network"`
	RequestDate       time.Time      `json:"request_date"`
	AdminID           *string        `gorm:"size:32" json:"admin_id,omitempty"`
	AdminDecisionDate *time.Time     `json:"admin_decision_date,omitempty"`
	DueDate           *time.Time     `json:"due_date,omitempty"`
	RejectionReason   *string        `gorm:"type:text" json:"rejection_reason,omitempty"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy         string         `gorm:"size:32" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Outstanding is what remains to be repaid on this loan.
func (l *Loan) Outstanding() float64 { return l.Amount - l.AmountPaid }
