package repaymock

import (
	"context"

	domain "creditly-backend/internal/domain/repayment"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying repayment.Repository.
type Repo struct {
	CreateFn                    func(ctx context.Context, r *domain.Repayment) error
	GetByRepaymentIDFn          func(ctx context.Context, repaymentID string) (*domain.Repayment, error)
	GetByRepaymentIDForUpdateFn func(ctx context.Context, repaymentID string) (*domain.Repayment, error)
	ListByLoanIDFn              func(ctx context.Context, loanNumericID uint64) ([]domain.Repayment, error)
	ListByUserIDFn              func(ctx context.Context, userID string) ([]domain.Repayment, error)
	ListByStatusFn              func(ctx context.Context, st domain.Status) ([]domain.Repayment, error)
	SaveFn                      func(ctx context.Context, r *domain.Repayment) error
}

func (m *Repo) Create(ctx context.Context, r *domain.Repayment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByRepaymentID(ctx context.Context, repaymentID string) (*domain.Repayment, error) {
	if m.GetByRepaymentIDFn != nil {
		return m.GetByRepaymentIDFn(ctx, repaymentID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByRepaymentIDForUpdate(ctx context.Context, repaymentID string) (*domain.Repayment, error) {
	if m.GetByRepaymentIDForUpdateFn != nil {
		return m.GetByRepaymentIDForUpdateFn(ctx, repaymentID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByLoanID(ctx context.Context, loanNumericID uint64) ([]domain.Repayment, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanNumericID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByUserID(ctx context.Context, userID string) ([]domain.Repayment, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByStatus(ctx context.Context, st domain.Status) ([]domain.Repayment, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, st)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, r *domain.Repayment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}
