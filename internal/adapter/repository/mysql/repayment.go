package mysql

import (
	"context"

	repayDomain "creditly-backend/internal/domain/repayment"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RepaymentRepository struct{ db *gorm.DB }

func NewRepaymentRepository(db *gorm.DB) *RepaymentRepository {
	return &RepaymentRepository{db: db}
}

func (r *RepaymentRepository) Create(ctx context.Context, rp *repayDomain.Repayment) error {
	return r.db.WithContext(ctx).Create(rp).Error
}

func (r *RepaymentRepository) Save(ctx context.Context, rp *repayDomain.Repayment) error {
	return r.db.WithContext(ctx).Save(rp).Error
}

func (r *RepaymentRepository) GetByRepaymentID(ctx context.Context, repaymentID string) (*repayDomain.Repayment, error) {
	var out repayDomain.Repayment
	res := r.db.WithContext(ctx).Where("repayment_id = ?", repaymentID).First(&out)
	return &out, res.Error
}

func (r *RepaymentRepository) GetByRepaymentIDForUpdate(ctx context.Context, repaymentID string) (*repayDomain.Repayment, error) {
	var out repayDomain.Repayment
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("repayment_id = ?", repaymentID).
		First(&out)
	return &out, res.Error
}

func (r *RepaymentRepository) ListByLoanID(ctx context.Context, loanNumericID uint64) ([]repayDomain.Repayment, error) {
	var out []repayDomain.Repayment
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *RepaymentRepository) ListByUserID(ctx context.Context, userID string) ([]repayDomain.Repayment, error) {
	var out []repayDomain.Repayment
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *RepaymentRepository) ListByStatus(ctx context.Context, st repayDomain.Status) ([]repayDomain.Repayment, error) {
	var out []repayDomain.Repayment
	res := r.db.WithContext(ctx).
		Where("status = ?", st).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}
