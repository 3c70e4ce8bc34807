package kyc

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("kyc submission not found")
	ErrAlreadyDecided = errors.New("kyc submission already decided")
	// Returned when KYC approval committed but account activation did not.
	// The operator retries activation alone; re-approving is wrong.
	ErrPartiallyApplied = errors.New("kyc approved but account activation failed")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Submission holds the three proof documents as opaque storage refs.
// One row per user; resubmission overwrites and resets to pending.
type Submission struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"-"`
	SubmissionID string         `gorm:"size:32;uniqueIndex:ux_kyc_submission_id_active" json:"submission_id"`
	UserID       string         `gorm:"size:32;uniqueIndex:ux_kyc_user_active" json:"user_id"`
	IDCardRef    string         `gorm:"type:text" json:"id_card_ref"`
	SelfieRef    string         `gorm:"type:text" json:"selfie_ref"`
	ResidenceRef string         `gorm:"type:text" json:"residence_ref"`
	Status       Status         `gorm:"type:enum('pending','approved','rejected');default:'pending'" json:"status"`
	AdminNotes   *string        `gorm:"type:text" json:"admin_notes,omitempty"`
	DecidedBy    *string        `gorm:"size:32" json:"decided_by,omitempty"`
	DecidedAt    *time.Time     `json:"decided_at,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Submission) TableName() string { return "kyc_submissions" }
