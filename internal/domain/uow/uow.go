package uow

import (
	"context"

	"creditly-backend/internal/domain/kyc"
	"creditly-backend/internal/domain/loan"
	"creditly-backend/internal/domain/plan"
	"creditly-backend/internal/domain/repayment"
	"creditly-backend/internal/domain/subscription"
	"creditly-backend/internal/domain/user"
)

type Repos struct {
	Users         user.Repository
	Plans         plan.Repository
	Subscriptions subscription.Repository
	Loans         loan.Repository
	Repayments    repayment.Repository
	Kyc           kyc.Repository
}

// UnitOfWork scopes multi-step writes to one transaction. The two locked
// variants are the whole concurrency story: the user row serializes writers
// of that user's open-loan aggregate, the loan row serializes writers of
// that loan's balance.
type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the user row first, then run fn
	WithinUserTx(ctx context.Context, userID string, fn func(r Repos, u *user.User) error) error
	// lock the loan row first, then run fn
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
