package kyc

import "context"

type Repository interface {
	// Upsert keyed on user_id: insert, or overwrite the existing row.
	Upsert(ctx context.Context, s *Submission) error
	GetByUserID(ctx context.Context, userID string) (*Submission, error)
	GetBySubmissionID(ctx context.Context, submissionID string) (*Submission, error)
	GetBySubmissionIDForUpdate(ctx context.Context, submissionID string) (*Submission, error)
	ListByStatus(ctx context.Context, st Status) ([]Submission, error)
	Save(ctx context.Context, s *Submission) error
}
