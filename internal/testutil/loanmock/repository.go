package loanmock

import (
	"context"
	"time"

	domain "creditly-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying loan.Repository. Fill in only
// the fields a test needs; unfilled getters report context.Canceled so an
// unexpected call fails loudly.
type Repo struct {
	CreateFn                func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn           func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn  func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByIDForUpdateFn      func(ctx context.Context, id uint64) (*domain.Loan, error)
	SaveFn                  func(ctx context.Context, l *domain.Loan) error
	ListByUserIDFn          func(ctx context.Context, userID string) ([]domain.Loan, error)
	ListByStatusFn          func(ctx context.Context, st domain.Status) ([]domain.Loan, error)
	SumOpenAmountByUserIDFn func(ctx context.Context, userID string, excludeID uint64) (float64, error)
	CountOpenByUserIDFn     func(ctx context.Context, userID string, excludeID uint64) (int64, error)
	MarkOverdueFn           func(ctx context.Context, now time.Time) (int64, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) ListByUserID(ctx context.Context, userID string) ([]domain.Loan, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByStatus(ctx context.Context, st domain.Status) ([]domain.Loan, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, st)
	}
	return nil, context.Canceled
}

func (m *Repo) SumOpenAmountByUserID(ctx context.Context, userID string, excludeID uint64) (float64, error) {
	if m.SumOpenAmountByUserIDFn != nil {
		return m.SumOpenAmountByUserIDFn(ctx, userID, excludeID)
	}
	return 0, context.Canceled
}

func (m *Repo) CountOpenByUserID(ctx context.Context, userID string, excludeID uint64) (int64, error) {
	if m.CountOpenByUserIDFn != nil {
		return m.CountOpenByUserIDFn(ctx, userID, excludeID)
	}
	return 0, context.Canceled
}

func (m *Repo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	if m.MarkOverdueFn != nil {
		return m.MarkOverdueFn(ctx, now)
	}
	return 0, context.Canceled
}
