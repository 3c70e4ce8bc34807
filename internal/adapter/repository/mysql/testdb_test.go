package mysql

import (
	"testing"
	"time"

	planDomain "creditly-backend/internal/domain/plan"
	userDomain "creditly-backend/internal/domain/user"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLite-friendly schemas only for tests (no ENUM columns). The domain
// models keep their MySQL enum tags; these mirrors swap status for text.

type loanSQLite struct {
	ID                    uint64         `gorm:"primaryKey;column:id"`
	LoanID                string         `gorm:"size:32;column:loan_id"`
	UserID                string         `gorm:"size:32;column:user_id"`
	PlanID                uint64         `gorm:"column:plan_id"`
	Amount                float64        `gorm:"column:amount"`
	AmountPaid            float64        `gorm:"column:amount_paid"`
	Status                string         `gorm:"type:text;column:status"`
	TermMaxLoanAmount     float64        `gorm:"column:term_max_loan_amount"`
	TermRepaymentDelayDay int            `gorm:"column:term_repayment_delay_days"`
	PayoutPhone           string         `gorm:"column:payout_phone"`
	PayoutName            string         `gorm:"column:payout_name"`
	PayoutNetwork         string         `gorm:"column:payout_network"`
	RequestDate           time.Time      `gorm:"column:request_date"`
	AdminID               *string        `gorm:"column:admin_id"`
	AdminDecisionDate     *time.Time     `gorm:"column:admin_decision_date"`
	DueDate               *time.Time     `gorm:"column:due_date"`
	RejectionReason       *string        `gorm:"column:rejection_reason"`
	CreatedAt             time.Time      `gorm:"column:created_at"`
	UpdatedAt             time.Time      `gorm:"column:updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"column:deleted_at"`
	DeletedBy             string         `gorm:"column:deleted_by"`
}

func (loanSQLite) TableName() string { return "loans" }

type subscriptionSQLite struct {
	ID              uint64         `gorm:"primaryKey;column:id"`
	SubscriptionID  string         `gorm:"size:32;column:subscription_id"`
	UserID          string         `gorm:"size:32;column:user_id"`
	PlanID          uint64         `gorm:"column:plan_id"`
	AmountPaid      float64        `gorm:"column:amount_paid"`
	ProofRef        string         `gorm:"column:proof_ref"`
	Status          string         `gorm:"type:text;column:status"`
	IsActive        bool           `gorm:"column:is_active"`
	StartDate       *time.Time     `gorm:"column:start_date"`
	EndDate         *time.Time     `gorm:"column:end_date"`
	RejectionReason *string        `gorm:"column:rejection_reason"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (subscriptionSQLite) TableName() string { return "subscriptions" }

type repaymentSQLite struct {
	ID             uint64         `gorm:"primaryKey;column:id"`
	RepaymentID    string         `gorm:"size:32;column:repayment_id"`
	LoanID         uint64         `gorm:"column:loan_id"`
	UserID         string         `gorm:"size:32;column:user_id"`
	AmountDeclared float64        `gorm:"column:amount_declared"`
	ProofRef       string         `gorm:"column:proof_ref"`
	Status         string         `gorm:"type:text;column:status"`
	ValidatorID    *string        `gorm:"column:validator_id"`
	ValidatedAt    *time.Time     `gorm:"column:validated_at"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (repaymentSQLite) TableName() string { return "repayments" }

type kycSQLite struct {
	ID           uint64         `gorm:"primaryKey;column:id"`
	SubmissionID string         `gorm:"size:32;column:submission_id"`
	UserID       string         `gorm:"size:32;column:user_id"`
	IDCardRef    string         `gorm:"column:id_card_ref"`
	SelfieRef    string         `gorm:"column:selfie_ref"`
	ResidenceRef string         `gorm:"column:residence_ref"`
	Status       string         `gorm:"type:text;column:status"`
	AdminNotes   *string        `gorm:"column:admin_notes"`
	DecidedBy    *string        `gorm:"column:decided_by"`
	DecidedAt    *time.Time     `gorm:"column:decided_at"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (kycSQLite) TableName() string { return "kyc_submissions" }

// openTestDB creates an in-memory sqlite DB and migrates the sqlite-safe
// schema. Users and plans carry no enum, so their domain models migrate
// as-is.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&userDomain.User{}, &planDomain.Plan{},
		&loanSQLite{}, &subscriptionSQLite{}, &repaymentSQLite{}, &kycSQLite{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
