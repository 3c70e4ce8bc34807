package plan

import "context"

type Repository interface {
	Create(ctx context.Context, p *Plan) error
	GetByID(ctx context.Context, id uint64) (*Plan, error)
	List(ctx context.Context) ([]Plan, error)
	Save(ctx context.Context, p *Plan) error
}
