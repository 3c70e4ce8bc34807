package loan

import "time"

type RequestLoanInput struct {
	UserID        string  `json:"user_id"`
	Amount        float64 `json:"amount"`
	PayoutPhone   string  `json:"payout_phone"`
	PayoutName    string  `json:"payout_name"`
	PayoutNetwork string  `json:"payout_network"`
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

type DecideLoanInput struct {
	LoanID   string
	AdminID  string
	Decision Decision
	Reason   string // required for reject
}

type LoanDTO struct {
	LoanID            string     `json:"loan_id"`
	UserID            string     `json:"user_id"`
	PlanID            uint64     `json:"plan_id"`
	Amount            float64    `json:"amount"`
	AmountPaid        float64    `json:"amount_paid"`
	Status            string     `json:"status"`
	PayoutPhone       string     `json:"payout_phone"`
	PayoutName        string     `json:"payout_name"`
	PayoutNetwork     string     `json:"payout_network"`
	RequestDate       time.Time  `json:"request_date"`
	AdminDecisionDate *time.Time `json:"admin_decision_date,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	RejectionReason   *string    `json:"rejection_reason,omitempty"`
}
