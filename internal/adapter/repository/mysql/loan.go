package mysql

import (
	"context"
	"time"

	loanDomain "creditly-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListByUserID(ctx context.Context, userID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("request_date DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListByStatus(ctx context.Context, st loanDomain.Status) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("status = ?", st).
		Order("request_date ASC, id ASC").
		Find(&out)
	return out, res.Error
}

// SumOpenAmountByUserID is the ceiling aggregate: principal over the user's
// pending/active/overdue loans, optionally excluding the loan under decision.
func (r *LoanRepository) SumOpenAmountByUserID(ctx context.Context, userID string, excludeID uint64) (float64, error) {
	var sum float64
	q := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("user_id = ? AND status IN ?", userID, loanDomain.OpenStatuses())
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	res := q.Select("COALESCE(SUM(amount), 0)").Scan(&sum)
	return sum, res.Error
}

func (r *LoanRepository) CountOpenByUserID(ctx context.Context, userID string, excludeID uint64) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("user_id = ? AND status IN ?", userID, loanDomain.OpenStatuses())
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	res := q.Count(&n)
	return n, res.Error
}

func (r *LoanRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", loanDomain.StatusActive, now).
		Update("status", loanDomain.StatusOverdue)
	return res.RowsAffected, res.Error
}
