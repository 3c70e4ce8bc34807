package kycmock

import (
	"context"

	domain "creditly-backend/internal/domain/kyc"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying kyc.Repository.
type Repo struct {
	UpsertFn                     func(ctx context.Context, s *domain.Submission) error
	GetByUserIDFn                func(ctx context.Context, userID string) (*domain.Submission, error)
	GetBySubmissionIDFn          func(ctx context.Context, submissionID string) (*domain.Submission, error)
	GetBySubmissionIDForUpdateFn func(ctx context.Context, submissionID string) (*domain.Submission, error)
	ListByStatusFn               func(ctx context.Context, st domain.Status) ([]domain.Submission, error)
	SaveFn                       func(ctx context.Context, s *domain.Submission) error
}

func (m *Repo) Upsert(ctx context.Context, s *domain.Submission) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, s)
	}
	return nil
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.Submission, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetBySubmissionID(ctx context.Context, submissionID string) (*domain.Submission, error) {
	if m.GetBySubmissionIDFn != nil {
		return m.GetBySubmissionIDFn(ctx, submissionID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetBySubmissionIDForUpdate(ctx context.Context, submissionID string) (*domain.Submission, error) {
	if m.GetBySubmissionIDForUpdateFn != nil {
		return m.GetBySubmissionIDForUpdateFn(ctx, submissionID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByStatus(ctx context.Context, st domain.Status) ([]domain.Submission, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, st)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, s *domain.Submission) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}
