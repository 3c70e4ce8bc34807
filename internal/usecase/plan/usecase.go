package plan

import (
	"context"
	"errors"

	domainPlan "creditly-backend/internal/domain/plan"

	"gorm.io/gorm"
)

var ErrInvalidPlan = errors.New("invalid plan definition")

type Usecase struct{ plans domainPlan.Repository }

func NewUsecase(plans domainPlan.Repository) *Usecase { return &Usecase{plans: plans} }

type UpsertPlanInput struct {
	Name               string  `json:"name"`
	Price              float64 `json:"price"`
	MaxLoanAmount      float64 `json:"max_loan_amount"`
	MaxLoansPerMonth   int     `json:"max_loans_per_month"`
	RepaymentDelayDays int     `json:"repayment_delay_days"`
	SubscriberQuota    int     `json:"subscriber_quota"`
}

func (in UpsertPlanInput) validate() error {
	if in.Name == "" || in.Price < 0 || in.MaxLoanAmount <= 0 ||
		in.MaxLoansPerMonth <= 0 || in.RepaymentDelayDays <= 0 || in.SubscriberQuota < 0 {
		return ErrInvalidPlan
	}
	return nil
}

func (u *Usecase) Create(ctx context.Context, in UpsertPlanInput) (*domainPlan.Plan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &domainPlan.Plan{
		Name:               in.Name,
		Price:              in.Price,
		MaxLoanAmount:      in.MaxLoanAmount,
		MaxLoansPerMonth:   in.MaxLoansPerMonth,
		RepaymentDelayDays: in.RepaymentDelayDays,
		SubscriberQuota:    in.SubscriberQuota,
	}
	if err := u.plans.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update edits the catalog row only. Loans issued under the old terms keep
// their snapshot.
func (u *Usecase) Update(ctx context.Context, planID uint64, in UpsertPlanInput) (*domainPlan.Plan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := u.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainPlan.ErrNotFound
		}
		return nil, err
	}
	p.Name = in.Name
	p.Price = in.Price
	p.MaxLoanAmount = in.MaxLoanAmount
	p.MaxLoansPerMonth = in.MaxLoansPerMonth
	p.RepaymentDelayDays = in.RepaymentDelayDays
	p.SubscriberQuota = in.SubscriberQuota
	if err := u.plans.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *Usecase) Get(ctx context.Context, planID uint64) (*domainPlan.Plan, error) {
	p, err := u.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainPlan.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (u *Usecase) List(ctx context.Context) ([]domainPlan.Plan, error) {
	return u.plans.List(ctx)
}
