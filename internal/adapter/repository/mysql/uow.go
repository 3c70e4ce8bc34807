package mysql

import (
	"context"

	"creditly-backend/internal/domain/loan"
	"creditly-backend/internal/domain/uow"
	"creditly-backend/internal/domain/user"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Users:         &UserRepository{db: tx},
		Plans:         &PlanRepository{db: tx},
		Subscriptions: &SubscriptionRepository{db: tx},
		Loans:         &LoanRepository{db: tx},
		Repayments:    &RepaymentRepository{db: tx},
		Kyc:           &KycRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinUserTx(ctx context.Context, userID string, fn func(r uow.Repos, usr *user.User) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the user row up-front; it is the per-user mutex for
		// ceiling/capacity writes
		usr, err := r.Users.GetByUserIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		return fn(r, usr)
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the loan row up-front; it serializes balance writes
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}
