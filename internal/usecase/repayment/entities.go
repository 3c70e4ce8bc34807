package repayment

import "time"

type DeclareInput struct {
	LoanID   string
	UserID   string
	Amount   float64
	ProofRef string
}

type RepaymentDTO struct {
	RepaymentID    string     `json:"repayment_id"`
	LoanID         string     `json:"loan_id,omitempty"`
	UserID         string     `json:"user_id"`
	AmountDeclared float64    `json:"amount_declared"`
	ProofRef       string     `json:"proof_ref"`
	Status         string     `json:"status"`
	ValidatedAt    *time.Time `json:"validated_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// VerifyResult carries the loan balance as it stood after the verification
// committed.
type VerifyResult struct {
	Repayment  RepaymentDTO `json:"repayment"`
	LoanID     string       `json:"loan_id"`
	AmountPaid float64      `json:"amount_paid"`
	LoanStatus string       `json:"loan_status"`
}
