package mysql

import (
	"context"

	planDomain "creditly-backend/internal/domain/plan"

	"gorm.io/gorm"
)

type PlanRepository struct{ db *gorm.DB }

func NewPlanRepository(db *gorm.DB) *PlanRepository { return &PlanRepository{db: db} }

func (r *PlanRepository) Create(ctx context.Context, p *planDomain.Plan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PlanRepository) Save(ctx context.Context, p *planDomain.Plan) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PlanRepository) GetByID(ctx context.Context, id uint64) (*planDomain.Plan, error) {
	var out planDomain.Plan
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *PlanRepository) List(ctx context.Context) ([]planDomain.Plan, error) {
	var out []planDomain.Plan
	res := r.db.WithContext(ctx).Order("price ASC, id ASC").Find(&out)
	return out, res.Error
}
