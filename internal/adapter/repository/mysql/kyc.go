package mysql

import (
	"context"
	"errors"

	kycDomain "creditly-backend/internal/domain/kyc"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KycRepository struct{ db *gorm.DB }

func NewKycRepository(db *gorm.DB) *KycRepository { return &KycRepository{db: db} }

// Upsert keeps the one-submission-per-user rule: an existing row is
// overwritten in place and keeps its numeric PK.
func (r *KycRepository) Upsert(ctx context.Context, s *kycDomain.Submission) error {
	var cur kycDomain.Submission
	res := r.db.WithContext(ctx).Where("user_id = ?", s.UserID).First(&cur)
	switch {
	case res.Error == nil:
		s.ID = cur.ID
		s.CreatedAt = cur.CreatedAt
		return r.db.WithContext(ctx).Save(s).Error
	case errors.Is(res.Error, gorm.ErrRecordNotFound):
		return r.db.WithContext(ctx).Create(s).Error
	default:
		return res.Error
	}
}

func (r *KycRepository) Save(ctx context.Context, s *kycDomain.Submission) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *KycRepository) GetByUserID(ctx context.Context, userID string) (*kycDomain.Submission, error) {
	var out kycDomain.Submission
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	return &out, res.Error
}

func (r *KycRepository) GetBySubmissionID(ctx context.Context, submissionID string) (*kycDomain.Submission, error) {
	var out kycDomain.Submission
	res := r.db.WithContext(ctx).Where("submission_id = ?", submissionID).First(&out)
	return &out, res.Error
}

func (r *KycRepository) GetBySubmissionIDForUpdate(ctx context.Context, submissionID string) (*kycDomain.Submission, error) {
	var out kycDomain.Submission
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("submission_id = ?", submissionID).
		First(&out)
	return &out, res.Error
}

func (r *KycRepository) ListByStatus(ctx context.Context, st kycDomain.Status) ([]kycDomain.Submission, error) {
	var out []kycDomain.Submission
	res := r.db.WithContext(ctx).
		Where("status = ?", st).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}
