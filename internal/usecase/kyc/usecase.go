package kyc

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainKyc "creditly-backend/internal/domain/kyc"
	"creditly-backend/internal/domain/uow"
	domainUser "creditly-backend/internal/domain/user"
	"creditly-backend/internal/notify"
	"creditly-backend/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	kycs     domainKyc.Repository
	users    domainUser.Repository
	uow      uow.UnitOfWork
	notifier notify.Dispatcher
}

func NewUsecase(kycs domainKyc.Repository, users domainUser.Repository, tx uow.UnitOfWork, n notify.Dispatcher) *Usecase {
	return &Usecase{kycs: kycs, users: users, uow: tx, notifier: n}
}

// Register provisions the user row the engines lock on. Identity itself is
// external; this only mirrors the id.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) error {
	_, err := u.users.GetByUserID(ctx, in.UserID)
	if err == nil {
		return nil // already provisioned
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return u.users.Create(ctx, &domainUser.User{
		UserID: in.UserID,
		Email:  in.Email,
		Name:   in.Name,
	})
}

// Submit creates or overwrites the user's single submission, resetting it to
// pending and clearing any earlier decision.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*SubmissionDTO, error) {
	sub := &domainKyc.Submission{
		SubmissionID: id.NewID32(),
		UserID:       in.UserID,
		IDCardRef:    in.IDCardRef,
		SelfieRef:    in.SelfieRef,
		ResidenceRef: in.ResidenceRef,
		Status:       domainKyc.StatusPending,
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Users.GetByUserID(ctx, in.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainUser.ErrNotFound
			}
			return err
		}
		return r.Kyc.Upsert(ctx, sub)
	})
	if err != nil {
		return nil, err
	}
	return toDTO(sub), nil
}

func (u *Usecase) Decide(ctx context.Context, in DecideInput) (*SubmissionDTO, error) {
	var decided *domainKyc.Submission
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Kyc.GetBySubmissionIDForUpdate(ctx, in.SubmissionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainKyc.ErrNotFound
			}
			return err
		}
		if s.Status != domainKyc.StatusPending {
			return domainKyc.ErrAlreadyDecided
		}

		now := time.Now().UTC()
		adminID := in.AdminID
		if in.Approve {
			s.Status = domainKyc.StatusApproved
		} else {
			s.Status = domainKyc.StatusRejected
		}
		if in.Notes != "" {
			notes := in.Notes
			s.AdminNotes = &notes
		}
		s.DecidedBy = &adminID
		s.DecidedAt = &now
		if err := r.Kyc.Save(ctx, s); err != nil {
			return err
		}
		decided = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.notifier.Dispatch(ctx, notify.EventKycDecided, map[string]any{
		"submission_id": decided.SubmissionID, "user_id": decided.UserID, "status": string(decided.Status),
	})
	return toDTO(decided), nil
}

// ActivateAccount flips the account switch everything client-facing checks.
// Deliberately separate from Decide; callers drive both steps.
func (u *Usecase) ActivateAccount(ctx context.Context, userID string) error {
	return u.uow.WithinUserTx(ctx, userID, func(r uow.Repos, usr *domainUser.User) error {
		if usr.IsAccountActive {
			return nil
		}
		usr.IsAccountActive = true
		return r.Users.Save(ctx, usr)
	})
}

// ApproveAndActivate runs the two-step approval workflow. The KYC decision
// commits first; if the activation step then fails, the caller gets
// ErrPartiallyApplied and retries ActivateAccount alone — the approval
// must not be rolled back or repeated.
func (u *Usecase) ApproveAndActivate(ctx context.Context, submissionID, adminID, notes string) (*SubmissionDTO, error) {
	dto, err := u.Decide(ctx, DecideInput{
		SubmissionID: submissionID,
		AdminID:      adminID,
		Approve:      true,
		Notes:        notes,
	})
	if err != nil {
		return nil, err
	}
	if err := u.ActivateAccount(ctx, dto.UserID); err != nil {
		return dto, fmt.Errorf("%w: %v", domainKyc.ErrPartiallyApplied, err)
	}
	return dto, nil
}

func (u *Usecase) GetForUser(ctx context.Context, userID string) (*SubmissionDTO, error) {
	s, err := u.kycs.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainKyc.ErrNotFound
		}
		return nil, err
	}
	return toDTO(s), nil
}

func (u *Usecase) ListPending(ctx context.Context) ([]SubmissionDTO, error) {
	ss, err := u.kycs.ListByStatus(ctx, domainKyc.StatusPending)
	if err != nil {
		return nil, err
	}
	out := make([]SubmissionDTO, 0, len(ss))
	for i := range ss {
		out = append(out, *toDTO(&ss[i]))
	}
	return out, nil
}

func toDTO(s *domainKyc.Submission) *SubmissionDTO {
	return &SubmissionDTO{
		SubmissionID: s.SubmissionID,
		UserID:       s.UserID,
		IDCardRef:    s.IDCardRef,
		SelfieRef:    s.SelfieRef,
		ResidenceRef: s.ResidenceRef,
		Status:       string(s.Status),
		AdminNotes:   s.AdminNotes,
		DecidedAt:    s.DecidedAt,
		CreatedAt:    s.CreatedAt,
	}
}
