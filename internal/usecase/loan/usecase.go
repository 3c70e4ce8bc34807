package loan

import (
	"context"
	"errors"
	"strings"
	"time"

	domainLoan "creditly-backend/internal/domain/loan"
	"creditly-backend/internal/domain/uow"
	domainUser "creditly-backend/internal/domain/user"
	"creditly-backend/internal/notify"
	"creditly-backend/pkg/id"

	"gorm.io/gorm"
)

// Smallest principal any plan will issue. Plans only bound the ceiling.
const minLoanAmount = 1000

var ErrInvalidDecision = errors.New("decision must be approve or reject")

type Usecase struct {
	loans    domainLoan.Repository
	uow      uow.UnitOfWork
	notifier notify.Dispatcher
}

func NewUsecase(loans domainLoan.Repository, tx uow.UnitOfWork, n notify.Dispatcher) *Usecase {
	return &Usecase{loans: loans, uow: tx, notifier: n}
}

// Request validates a loan request against the user's current plan and open
// debt, and inserts the pending row in the same transaction that did the
// reads. The user row lock taken by WithinUserTx is what makes two
// concurrent requests near the ceiling serialize instead of both passing a
// stale check.
func (u *Usecase) Request(ctx context.Context, in RequestLoanInput) (*LoanDTO, error) {
	if in.Amount <= 0 {
		return nil, domainLoan.ErrInvalidAmount
	}
	if strings.TrimSpace(in.PayoutPhone) == "" ||
		strings.TrimSpace(in.PayoutName) == "" ||
		strings.TrimSpace(in.PayoutNetwork) == "" {
		return nil, domainLoan.ErrInvalidPayout
	}

	var created *domainLoan.Loan
	err := u.uow.WithinUserTx(ctx, in.UserID, func(r uow.Repos, usr *domainUser.User) error {
		if !usr.IsAccountActive {
			return domainUser.ErrAccountInactive
		}

		now := time.Now().UTC()
		sub, err := r.Subscriptions.GetActiveByUserID(ctx, in.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainLoan.ErrNoActiveSubscription
			}
			return err
		}
		if !sub.EffectivelyActive(now) {
			return domainLoan.ErrNoActiveSubscription
		}

		pl, err := r.Plans.GetByID(ctx, sub.PlanID)
		if err != nil {
			return err
		}
		if in.Amount < minLoanAmount || in.Amount > pl.MaxLoanAmount {
			return domainLoan.ErrInvalidAmount
		}

		outstanding, err := r.Loans.SumOpenAmountByUserID(ctx, in.UserID, 0)
		if err != nil {
			return err
		}
		if outstanding+in.Amount > pl.MaxLoanAmount {
			return domainLoan.ErrOverCeiling
		}
		open, err := r.Loans.CountOpenByUserID(ctx, in.UserID, 0)
		if err != nil {
			return err
		}
		if open >= int64(pl.MaxLoansPerMonth) {
			return domainLoan.ErrOverCapacity
		}

		created = &domainLoan.Loan{
			LoanID:        id.NewID32(),
			UserID:        in.UserID,
			PlanID:        pl.ID,
			Amount:        in.Amount,
			Status:        domainLoan.StatusPending,
			PayoutPhone:   in.PayoutPhone,
			PayoutName:    in.PayoutName,
			PayoutNetwork: in.PayoutNetwork,
			RequestDate:   now,
		}
		return r.Loans.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	u.notifier.Dispatch(ctx, notify.EventLoanRequested, map[string]any{
		"loan_id": created.LoanID, "user_id": created.UserID, "amount": created.Amount,
	})
	return toDTO(created), nil
}

// Decide approves or rejects a pending loan. Approval re-runs the ceiling
// check against the debt as it stands now, excluding this loan; a recheck
// failure leaves the loan pending for a human to re-decide.
func (u *Usecase) Decide(ctx context.Context, in DecideLoanInput) (*LoanDTO, error) {
	if in.Decision != DecisionApprove && in.Decision != DecisionReject {
		return nil, ErrInvalidDecision
	}

	cur, err := u.loans.GetByLoanID(ctx, in.LoanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}

	var decided *domainLoan.Loan
	err = u.uow.WithinUserTx(ctx, cur.UserID, func(r uow.Repos, _ *domainUser.User) error {
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, in.LoanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainLoan.ErrNotFound
			}
			return err
		}
		if l.Status != domainLoan.StatusPending {
			return domainLoan.ErrAlreadyDecided
		}

		now := time.Now().UTC()
		adminID := in.AdminID
		l.AdminID = &adminID
		l.AdminDecisionDate = &now

		if in.Decision == DecisionReject {
			reason := in.Reason
			l.Status = domainLoan.StatusRejected
			l.RejectionReason = &reason
		} else {
			pl, err := r.Plans.GetByID(ctx, l.PlanID)
			if err != nil {
				return err
			}
			outstanding, err := r.Loans.SumOpenAmountByUserID(ctx, l.UserID, l.ID)
			if err != nil {
				return err
			}
			if outstanding+l.Amount > pl.MaxLoanAmount {
				return domainLoan.ErrOverCeiling
			}
			due := now.AddDate(0, 0, pl.RepaymentDelayDays)
			l.Status = domainLoan.StatusActive
			l.DueDate = &due
			l.Terms = domainLoan.Terms{
				MaxLoanAmount:      pl.MaxLoanAmount,
				RepaymentDelayDays: pl.RepaymentDelayDays,
			}
		}

		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		decided = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := notify.EventLoanApproved
	if decided.Status == domainLoan.StatusRejected {
		event = notify.EventLoanRejected
	}
	u.notifier.Dispatch(ctx, event, map[string]any{
		"loan_id": decided.LoanID, "user_id": decided.UserID,
	})
	return toDTO(decided), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) ListForUser(ctx context.Context, userID string) ([]LoanDTO, error) {
	ls, err := u.loans.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toDTO(&ls[i]))
	}
	return out, nil
}

func (u *Usecase) ListPending(ctx context.Context) ([]LoanDTO, error) {
	ls, err := u.loans.ListByStatus(ctx, domainLoan.StatusPending)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toDTO(&ls[i]))
	}
	return out, nil
}

// MarkOverdue flips active loans past their due date to overdue. Safe to
// run on a schedule; a second run in the same instant touches nothing.
func (u *Usecase) MarkOverdue(ctx context.Context) (int64, error) {
	return u.loans.MarkOverdue(ctx, time.Now().UTC())
}

func toDTO(l *domainLoan.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:            l.LoanID,
		UserID:            l.UserID,
		PlanID:            l.PlanID,
		Amount:            l.Amount,
		AmountPaid:        l.AmountPaid,
		Status:            string(l.Status),
		PayoutPhone:       l.PayoutPhone,
		PayoutName:        l.PayoutName,
		PayoutNetwork:     l.PayoutNetwork,
		RequestDate:       l.RequestDate,
		AdminDecisionDate: l.AdminDecisionDate,
		DueDate:           l.DueDate,
		RejectionReason:   l.RejectionReason,
	}
}
