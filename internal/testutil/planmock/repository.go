package planmock

import (
	"context"

	domain "creditly-backend/internal/domain/plan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying plan.Repository.
type Repo struct {
	CreateFn  func(ctx context.Context, p *domain.Plan) error
	GetByIDFn func(ctx context.Context, id uint64) (*domain.Plan, error)
	ListFn    func(ctx context.Context) ([]domain.Plan, error)
	SaveFn    func(ctx context.Context, p *domain.Plan) error
}

func (m *Repo) Create(ctx context.Context, p *domain.Plan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Plan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context) ([]domain.Plan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, p *domain.Plan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}
