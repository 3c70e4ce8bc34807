package repayment

import (
	"context"
	"errors"
	"time"

	domainLoan "creditly-backend/internal/domain/loan"
	domainRepay "creditly-backend/internal/domain/repayment"
	"creditly-backend/internal/domain/uow"
	"creditly-backend/internal/notify"
	"creditly-backend/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	repayments domainRepay.Repository
	uow        uow.UnitOfWork
	notifier   notify.Dispatcher
}

func NewUsecase(repayments domainRepay.Repository, tx uow.UnitOfWork, n notify.Dispatcher) *Usecase {
	return &Usecase{repayments: repayments, uow: tx, notifier: n}
}

// Declare records a claimed payment against an active loan. The balance
// check here is advisory only: the loan is untouched, and the binding check
// happens again at verification against the then-current balance.
func (u *Usecase) Declare(ctx context.Context, in DeclareInput) (*RepaymentDTO, error) {
	if in.Amount <= 0 {
		return nil, domainRepay.ErrInvalidAmount
	}

	var created *domainRepay.Repayment
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.UserID != in.UserID {
			return domainRepay.ErrNotOwner
		}
		if l.Status != domainLoan.StatusActive && l.Status != domainLoan.StatusOverdue {
			return domainRepay.ErrLoanNotActive
		}
		if in.Amount > l.Outstanding() {
			return domainRepay.ErrExceedsBalance
		}
		created = &domainRepay.Repayment{
			RepaymentID:    id.NewID32(),
			LoanID:         l.ID,
			UserID:         in.UserID,
			AmountDeclared: in.Amount,
			ProofRef:       in.ProofRef,
			Status:         domainRepay.StatusPending,
		}
		return r.Repayments.Create(ctx, created)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	return toDTO(created, in.LoanID), nil
}

// Verify applies one declared repayment to its loan. Repayment and loan rows
// are both locked, so two verifications racing on the same loan serialize;
// the loser re-reads the new balance and fails ExceedsBalance instead of
// overpaying the loan.
func (u *Usecase) Verify(ctx context.Context, repaymentID, adminID string) (*VerifyResult, error) {
	var out *VerifyResult
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		rp, err := r.Repayments.GetByRepaymentIDForUpdate(ctx, repaymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainRepay.ErrNotFound
			}
			return err
		}
		if rp.Status != domainRepay.StatusPending {
			return domainRepay.ErrAlreadyDecided
		}

		l, err := r.Loans.GetByIDForUpdate(ctx, rp.LoanID)
		if err != nil {
			return err
		}
		newPaid := l.AmountPaid + rp.AmountDeclared
		if newPaid > l.Amount {
			return domainRepay.ErrExceedsBalance
		}

		now := time.Now().UTC()
		rp.Status = domainRepay.StatusVerified
		rp.ValidatorID = &adminID
		rp.ValidatedAt = &now
		if err := r.Repayments.Save(ctx, rp); err != nil {
			return err
		}

		l.AmountPaid = newPaid
		if newPaid >= l.Amount {
			l.Status = domainLoan.StatusPaid
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		out = &VerifyResult{
			Repayment:  *toDTO(rp, l.LoanID),
			LoanID:     l.LoanID,
			AmountPaid: l.AmountPaid,
			LoanStatus: string(l.Status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.notifier.Dispatch(ctx, notify.EventRepaymentVerified, map[string]any{
		"repayment_id": out.Repayment.RepaymentID, "loan_id": out.LoanID, "amount_paid": out.AmountPaid,
	})
	return out, nil
}

// Reject marks a declared repayment as rejected. The loan is never touched.
func (u *Usecase) Reject(ctx context.Context, repaymentID, adminID string) (*RepaymentDTO, error) {
	var rejected *domainRepay.Repayment
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		rp, err := r.Repayments.GetByRepaymentIDForUpdate(ctx, repaymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainRepay.ErrNotFound
			}
			return err
		}
		if rp.Status != domainRepay.StatusPending {
			return domainRepay.ErrAlreadyDecided
		}
		now := time.Now().UTC()
		rp.Status = domainRepay.StatusRejected
		rp.ValidatorID = &adminID
		rp.ValidatedAt = &now
		if err := r.Repayments.Save(ctx, rp); err != nil {
			return err
		}
		rejected = rp
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.notifier.Dispatch(ctx, notify.EventRepaymentRejected, map[string]any{
		"repayment_id": rejected.RepaymentID, "user_id": rejected.UserID,
	})
	return toDTO(rejected, ""), nil
}

func (u *Usecase) ListForUser(ctx context.Context, userID string) ([]RepaymentDTO, error) {
	rps, err := u.repayments.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]RepaymentDTO, 0, len(rps))
	for i := range rps {
		out = append(out, *toDTO(&rps[i], ""))
	}
	return out, nil
}

func (u *Usecase) ListPending(ctx context.Context) ([]RepaymentDTO, error) {
	rps, err := u.repayments.ListByStatus(ctx, domainRepay.StatusPending)
	if err != nil {
		return nil, err
	}
	out := make([]RepaymentDTO, 0, len(rps))
	for i := range rps {
		out = append(out, *toDTO(&rps[i], ""))
	}
	return out, nil
}

func toDTO(rp *domainRepay.Repayment, publicLoanID string) *RepaymentDTO {
	return &RepaymentDTO{
		RepaymentID:    rp.RepaymentID,
		LoanID:         publicLoanID,
		UserID:         rp.UserID,
		AmountDeclared: rp.AmountDeclared,
		ProofRef:       rp.ProofRef,
		Status:         string(rp.Status),
		ValidatedAt:    rp.ValidatedAt,
		CreatedAt:      rp.CreatedAt,
	}
}
