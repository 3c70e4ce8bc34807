package mysql

import (
	"context"
	"time"

	subDomain "creditly-backend/internal/domain/subscription"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository struct{ db *gorm.DB }

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *subDomain.Subscription) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SubscriptionRepository) Save(ctx context.Context, s *subDomain.Subscription) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SubscriptionRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*subDomain.Subscription, error) {
	var out subDomain.Subscription
	res := r.db.WithContext(ctx).Where("subscription_id = ?", subscriptionID).First(&out)
	return &out, res.Error
}

func (r *SubscriptionRepository) GetBySubscriptionIDForUpdate(ctx context.Context, subscriptionID string) (*subDomain.Subscription, error) {
	var out subDomain.Subscription
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("subscription_id = ?", subscriptionID).
		First(&out)
	return &out, res.Error
}

func (r *SubscriptionRepository) GetActiveByUserID(ctx context.Context, userID string) (*subDomain.Subscription, error) {
	var out subDomain.Subscription
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND status = ?", userID, true, subDomain.StatusActive).
		Order("start_date DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *SubscriptionRepository) GetPendingByUserID(ctx context.Context, userID string) (*subDomain.Subscription, error) {
	var out subDomain.Subscription
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, subDomain.StatusPending).
		Order("created_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *SubscriptionRepository) ListByUserID(ctx context.Context, userID string) ([]subDomain.Subscription, error) {
	var out []subDomain.Subscription
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *SubscriptionRepository) ListByStatus(ctx context.Context, st subDomain.Status) ([]subDomain.Subscription, error) {
	var out []subDomain.Subscription
	res := r.db.WithContext(ctx).
		Where("status = ?", st).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *SubscriptionRepository) CountActivatedInWindow(ctx context.Context, planID uint64, from, to time.Time) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&subDomain.Subscription{}).
		Where("plan_id = ? AND start_date >= ? AND start_date < ? AND status IN ?",
			planID, from, to, []subDomain.Status{subDomain.StatusActive, subDomain.StatusExpired}).
		Count(&n)
	return n, res.Error
}

func (r *SubscriptionRepository) DeactivateOthers(ctx context.Context, userID string, keepID uint64) error {
	return r.db.WithContext(ctx).Model(&subDomain.Subscription{}).
		Where("user_id = ? AND id <> ? AND is_active = ?", userID, keepID, true).
		Update("is_active", false).Error
}

func (r *SubscriptionRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&subDomain.Subscription{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?", subDomain.StatusActive, now).
		Updates(map[string]any{"status": subDomain.StatusExpired, "is_active": false})
	return res.RowsAffected, res.Error
}
