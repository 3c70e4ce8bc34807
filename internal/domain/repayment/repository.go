package repayment

import "context"

type Repository interface {
	Create(ctx context.Context, r *Repayment) error
	GetByRepaymentID(ctx context.Context, repaymentID string) (*Repayment, error)
	GetByRepaymentIDForUpdate(ctx context.Context, repaymentID string) (*Repayment, error)
	ListByLoanID(ctx context.Context, loanNumericID uint64) ([]Repayment, error)
	ListByUserID(ctx context.Context, userID string) ([]Repayment, error)
	ListByStatus(ctx context.Context, st Status) ([]Repayment, error)
	Save(ctx context.Context, r *Repayment) error
}
