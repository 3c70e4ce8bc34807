package kyc

import "time"

type SubmitInput struct {
	UserID       string
	IDCardRef    string
	SelfieRef    string
	ResidenceRef string
}

type DecideInput struct {
	SubmissionID string
	AdminID      string
	Approve      bool
	Notes        string
}

type SubmissionDTO struct {
	SubmissionID string     `json:"submission_id"`
	UserID       string     `json:"user_id"`
	IDCardRef    string     `json:"id_card_ref"`
	SelfieRef    string     `json:"selfie_ref"`
	ResidenceRef string     `json:"residence_ref"`
	Status       string     `json:"status"`
	AdminNotes   *string    `json:"admin_notes,omitempty"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type RegisterInput struct {
	UserID string
	Email  string
	Name   string
}
