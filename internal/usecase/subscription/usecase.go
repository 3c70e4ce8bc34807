package subscription

import (
	"context"
	"errors"
	"time"

	domainSub "creditly-backend/internal/domain/subscription"
	"creditly-backend/internal/domain/uow"
	domainUser "creditly-backend/internal/domain/user"
	"creditly-backend/internal/notify"
	"creditly-backend/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	subs     domainSub.Repository
	uow      uow.UnitOfWork
	notifier notify.Dispatcher
}

func NewUsecase(subs domainSub.Repository, tx uow.UnitOfWork, n notify.Dispatcher) *Usecase {
	return &Usecase{subs: subs, uow: tx, notifier: n}
}

// Subscribe files a pending claim to a plan. Staff activate or reject it;
// nothing here grants loan eligibility yet.
func (u *Usecase) Subscribe(ctx context.Context, in SubscribeInput) (*SubscriptionDTO, error) {
	var created *domainSub.Subscription
	err := u.uow.WithinUserTx(ctx, in.UserID, func(r uow.Repos, usr *domainUser.User) error {
		if !usr.IsAccountActive {
			return domainUser.ErrAccountInactive
		}
		if _, err := r.Subscriptions.GetPendingByUserID(ctx, in.UserID); err == nil {
			return domainSub.ErrPendingExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		pl, err := r.Plans.GetByID(ctx, in.PlanID)
		if err != nil {
			return err
		}
		if pl.SubscriberQuota > 0 {
			from, to := monthWindow(time.Now().UTC())
			n, err := r.Subscriptions.CountActivatedInWindow(ctx, pl.ID, from, to)
			if err != nil {
				return err
			}
			if n >= int64(pl.SubscriberQuota) {
				return domainSub.ErrQuotaExhausted
			}
		}

		created = &domainSub.Subscription{
			SubscriptionID: id.NewID32(),
			UserID:         in.UserID,
			PlanID:         in.PlanID,
			AmountPaid:     in.AmountPaid,
			ProofRef:       in.ProofRef,
			Status:         domainSub.StatusPending,
		}
		return r.Subscriptions.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return toDTO(created), nil
}

// Activate opens the 30-day window. Any earlier row still flagged active for
// the user is cleared in the same transaction, keeping at most one
// is_active row per user.
func (u *Usecase) Activate(ctx context.Context, subscriptionID string) (*SubscriptionDTO, error) {
	var activated *domainSub.Subscription
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Subscriptions.GetBySubscriptionIDForUpdate(ctx, subscriptionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainSub.ErrNotFound
			}
			return err
		}
		if s.Status != domainSub.StatusPending {
			return domainSub.ErrAlreadyDecided
		}

		now := time.Now().UTC()
		end := now.Add(domainSub.ActivePeriod)
		s.Status = domainSub.StatusActive
		s.IsActive = true
		s.StartDate = &now
		s.EndDate = &end
		s.RejectionReason = nil
		if err := r.Subscriptions.Save(ctx, s); err != nil {
			return err
		}
		if err := r.Subscriptions.DeactivateOthers(ctx, s.UserID, s.ID); err != nil {
			return err
		}
		activated = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.notifier.Dispatch(ctx, notify.EventSubscriptionActivated, map[string]any{
		"subscription_id": activated.SubscriptionID, "user_id": activated.UserID,
	})
	return toDTO(activated), nil
}

func (u *Usecase) Reject(ctx context.Context, subscriptionID, reason string) (*SubscriptionDTO, error) {
	var rejected *domainSub.Subscription
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Subscriptions.GetBySubscriptionIDForUpdate(ctx, subscriptionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainSub.ErrNotFound
			}
			return err
		}
		if s.Status != domainSub.StatusPending {
			return domainSub.ErrAlreadyDecided
		}
		s.Status = domainSub.StatusRejected
		s.IsActive = false
		s.RejectionReason = &reason
		if err := r.Subscriptions.Save(ctx, s); err != nil {
			return err
		}
		rejected = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.notifier.Dispatch(ctx, notify.EventSubscriptionRejected, map[string]any{
		"subscription_id": rejected.SubscriptionID, "user_id": rejected.UserID,
	})
	return toDTO(rejected), nil
}

// Current returns the user's effectively-active subscription, applying the
// read-time expiry predicate.
func (u *Usecase) Current(ctx context.Context, userID string) (*SubscriptionDTO, error) {
	s, err := u.subs.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainSub.ErrNotFound
		}
		return nil, err
	}
	if !s.EffectivelyActive(time.Now().UTC()) {
		return nil, domainSub.ErrNotFound
	}
	return toDTO(s), nil
}

func (u *Usecase) ListForUser(ctx context.Context, userID string) ([]SubscriptionDTO, error) {
	ss, err := u.subs.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]SubscriptionDTO, 0, len(ss))
	for i := range ss {
		out = append(out, *toDTO(&ss[i]))
	}
	return out, nil
}

func (u *Usecase) ListPending(ctx context.Context) ([]SubscriptionDTO, error) {
	ss, err := u.subs.ListByStatus(ctx, domainSub.StatusPending)
	if err != nil {
		return nil, err
	}
	out := make([]SubscriptionDTO, 0, len(ss))
	for i := range ss {
		out = append(out, *toDTO(&ss[i]))
	}
	return out, nil
}

// ExpireStale persists the derived expiry for rows whose window has closed.
// Reads never depend on it; it exists so listings and dashboards converge.
func (u *Usecase) ExpireStale(ctx context.Context) (int64, error) {
	return u.subs.ExpireStale(ctx, time.Now().UTC())
}

func monthWindow(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func toDTO(s *domainSub.Subscription) *SubscriptionDTO {
	return &SubscriptionDTO{
		SubscriptionID:  s.SubscriptionID,
		UserID:          s.UserID,
		PlanID:          s.PlanID,
		AmountPaid:      s.AmountPaid,
		ProofRef:        s.ProofRef,
		Status:          string(s.Status),
		IsActive:        s.IsActive,
		StartDate:       s.StartDate,
		EndDate:         s.EndDate,
		RejectionReason: s.RejectionReason,
		CreatedAt:       s.CreatedAt,
	}
}
