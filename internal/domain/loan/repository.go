package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	// Locked read by numeric PK, for callers holding a repayment FK.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	ListByUserID(ctx context.Context, userID string) ([]Loan, error)
	ListByStatus(ctx context.Context, st Status) ([]Loan, error)

	// Aggregates over the user's open loans (pending/active/overdue).
	// excludeID skips one loan (the one being decided); 0 excludes nothing.
	// Only meaningful inside a transaction that already holds the user lock.
	SumOpenAmountByUserID(ctx context.Context, userID string, excludeID uint64) (float64, error)
	CountOpenByUserID(ctx context.Context, userID string, excludeID uint64) (int64, error)

	// Flips active loans whose due_date has passed to overdue. Idempotent.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}
