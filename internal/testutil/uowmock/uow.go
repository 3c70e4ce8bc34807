package uowmock

import (
	"context"
	"errors"
	"sync"

	"creditly-backend/internal/domain/loan"
	"creditly-backend/internal/domain/uow"
	"creditly-backend/internal/domain/user"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock satisfying uow.UnitOfWork. Unfilled methods
// return errUnimplemented.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinUserTxFn func(ctx context.Context, userID string, fn func(r uow.Repos, u *user.User) error) error
	WithinLoanTxFn func(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough builds a UoW that runs callbacks immediately against the given
// repos, handing WithinUserTx the supplied user and WithinLoanTx whatever
// the repos' locked loan read returns. Close enough to the real thing for
// usecase tests.
func Passthrough(r uow.Repos, usr *user.User) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error {
			return fn(r)
		},
		WithinUserTxFn: func(ctx context.Context, userID string, fn func(uow.Repos, *user.User) error) error {
			return fn(r, usr)
		},
		WithinLoanTxFn: func(ctx context.Context, loanID string, fn func(uow.Repos, *loan.Loan) error) error {
			l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
			if err != nil {
				return err
			}
			return fn(r, l)
		},
	}
}

// Serialized is Passthrough with one mutex held for the length of each
// callback, standing in for the row locks that make concurrent transactions
// take turns. Use it when a test fires goroutines at shared mock state.
func Serialized(r uow.Repos, usr *user.User) *UoW {
	var mu sync.Mutex
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error {
			mu.Lock()
			defer mu.Unlock()
			return fn(r)
		},
		WithinUserTxFn: func(ctx context.Context, userID string, fn func(uow.Repos, *user.User) error) error {
			mu.Lock()
			defer mu.Unlock()
			return fn(r, usr)
		},
		WithinLoanTxFn: func(ctx context.Context, loanID string, fn func(uow.Repos, *loan.Loan) error) error {
			mu.Lock()
			defer mu.Unlock()
			l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
			if err != nil {
				return err
			}
			return fn(r, l)
		},
	}
}

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinUserTx(ctx context.Context, userID string, fn func(r uow.Repos, u *user.User) error) error {
	if m.WithinUserTxFn != nil {
		return m.WithinUserTxFn(ctx, userID, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, loanID, fn)
	}
	return errUnimplemented
}
