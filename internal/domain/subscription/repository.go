package subscription

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, s *Subscription) error
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*Subscription, error)
	GetBySubscriptionIDForUpdate(ctx context.Context, subscriptionID string) (*Subscription, error)
	// Latest subscription flagged active for the user; callers still apply
	// EffectivelyActive for the end-date check.
	GetActiveByUserID(ctx context.Context, userID string) (*Subscription, error)
	GetPendingByUserID(ctx context.Context, userID string) (*Subscription, error)
	ListByUserID(ctx context.Context, userID string) ([]Subscription, error)
	ListByStatus(ctx context.Context, st Status) ([]Subscription, error)
	// Subscriptions activated for the plan inside [from, to).
	CountActivatedInWindow(ctx context.Context, planID uint64, from, to time.Time) (int64, error)
	// Clears is_active on every other subscription of the user.
	DeactivateOthers(ctx context.Context, userID string, keepID uint64) error
	// Flips status=active rows whose end_date has passed to expired.
	// Idempotent; returns the number of rows touched.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
	Save(ctx context.Context, s *Subscription) error
}
