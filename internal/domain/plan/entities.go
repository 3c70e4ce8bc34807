package plan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("plan not found")

// Plan is staff-maintained reference data. Loans snapshot the terms they
// need at approval time, so editing a plan never changes an issued loan.
type Plan struct {
	ID                 uint64         `gorm:"primaryKey;column:id" json:"id"`
	Name               string         `gorm:"size:64;uniqueIndex:ux_plans_name_active" json:"name"`
	Price              float64        `gorm:"type:decimal(18,2)" json:"price"`
	MaxLoanAmount      float64        `gorm:"type:decimal(18,2)" json:"max_loan_amount"`
	MaxLoansPerMonth   int            `json:"max_loans_per_month"`
	RepaymentDelayDays int            `json:"repayment_delay_days"`
	SubscriberQuota    int            `json:"subscriber_quota"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Plan) TableName() string { return "plans" }
