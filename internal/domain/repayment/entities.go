package repayment

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("repayment not found")
	ErrInvalidAmount  = errors.New("invalid repayment amount")
	ErrAlreadyDecided = errors.New("repayment already decided")
	ErrExceedsBalance = errors.New("repayment exceeds the loan's remaining balance")
	ErrLoanNotActive  = errors.New("loan is not active")
	ErrNotOwner       = errors.New("loan does not belong to this user")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

// Repayment is a user-declared payment. It never carries value on its own:
// only verification moves the loan balance.
type Repayment struct {
	ID          uint64 `gorm:"primaryKey;column:id" json:"-"`
	RepaymentID string `gorm:"size:32;uniqueIndex:ux_repayments_repayment_id_active" json:"repayment_id"`
	// Numeric FK to loans.id.
	LoanID         uint64         `gorm:"not null;index" json:"-"`
	UserID         string         `gorm:"size:32;index" json:"user_id"`
	AmountDeclared float64        `gorm:"type:decimal(18,2)" json:"amount_declared"`
	ProofRef       string         `gorm:"type:text" json:"proof_ref"`
	Status         Status         `gorm:"type:enum('pending','verified','rejected');default:'pending'" json:"status"`
	ValidatorID    *string        `gorm:"size:32" json:"validator_id,omitempty"`
	ValidatedAt    *time.Time     `json:"validated_at,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Repayment) TableName() string { return "repayments" }
