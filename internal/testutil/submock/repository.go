package submock

import (
	"context"
	"time"

	domain "creditly-backend/internal/domain/subscription"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying subscription.Repository.
type Repo struct {
	CreateFn                       func(ctx context.Context, s *domain.Subscription) error
	GetBySubscriptionIDFn          func(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
	GetBySubscriptionIDForUpdateFn func(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
	GetActiveByUserIDFn            func(ctx context.Context, userID string) (*domain.Subscription, error)
	GetPendingByUserIDFn           func(ctx context.Context, userID string) (*domain.Subscription, error)
	ListByUserIDFn                 func(ctx context.Context, userID string) ([]domain.Subscription, error)
	ListByStatusFn                 func(ctx context.Context, st domain.Status) ([]domain.Subscription, error)
	CountActivatedInWindowFn       func(ctx context.Context, planID uint64, from, to time.Time) (int64, error)
	DeactivateOthersFn             func(ctx context.Context, userID string, keepID uint64) error
	ExpireStaleFn                  func(ctx context.Context, now time.Time) (int64, error)
	SaveFn                         func(ctx context.Context, s *domain.Subscription) error
}

func (m *Repo) Create(ctx context.Context, s *domain.Subscription) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}

func (m *Repo) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	if m.GetBySubscriptionIDFn != nil {
		return m.GetBySubscriptionIDFn(ctx, subscriptionID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetBySubscriptionIDForUpdate(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	if m.GetBySubscriptionIDForUpdateFn != nil {
		return m.GetBySubscriptionIDForUpdateFn(ctx, subscriptionID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetActiveByUserID(ctx context.Context, userID string) (*domain.Subscription, error) {
	if m.GetActiveByUserIDFn != nil {
		return m.GetActiveByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetPendingByUserID(ctx context.Context, userID string) (*domain.Subscription, error) {
	if m.GetPendingByUserIDFn != nil {
		return m.GetPendingByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByUserID(ctx context.Context, userID string) ([]domain.Subscription, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByStatus(ctx context.Context, st domain.Status) ([]domain.Subscription, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, st)
	}
	return nil, context.Canceled
}

func (m *Repo) CountActivatedInWindow(ctx context.Context, planID uint64, from, to time.Time) (int64, error) {
	if m.CountActivatedInWindowFn != nil {
		return m.CountActivatedInWindowFn(ctx, planID, from, to)
	}
	return 0, context.Canceled
}

func (m *Repo) DeactivateOthers(ctx context.Context, userID string, keepID uint64) error {
	if m.DeactivateOthersFn != nil {
		return m.DeactivateOthersFn(ctx, userID, keepID)
	}
	return nil
}

func (m *Repo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	if m.ExpireStaleFn != nil {
		return m.ExpireStaleFn(ctx, now)
	}
	return 0, context.Canceled
}

func (m *Repo) Save(ctx context.Context, s *domain.Subscription) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}
