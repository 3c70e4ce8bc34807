package repayment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domainLoan "creditly-backend/internal/domain/loan"
	domain "creditly-backend/internal/domain/repayment"
	"creditly-backend/internal/domain/uow"
	"creditly-backend/internal/testutil/loanmock"
	"creditly-backend/internal/testutil/notifymock"
	"creditly-backend/internal/testutil/repaymock"
	"creditly-backend/internal/testutil/uowmock"

	"gorm.io/gorm"
)

const (
	testUserID      = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	testAdminID     = "cccccccccccccccccccccccccccccccc"
	testLoanID      = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testRepaymentID = "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"
)

func activeLoan() *domainLoan.Loan {
	return &domainLoan.Loan{
		ID: 42, LoanID: testLoanID, UserID: testUserID, PlanID: 7,
		Amount: 50_000, AmountPaid: 10_000, Status: domainLoan.StatusActive,
	}
}

func declareFixture(l *domainLoan.Loan) (uow.Repos, *repaymock.Repo) {
	rr := &repaymock.Repo{}
	r := uow.Repos{
		Loans: &loanmock.Repo{GetByLoanIDForUpdateFn: func(ctx context.Context, loanID string) (*domainLoan.Loan, error) {
			return l, nil
		}},
		Repayments: rr,
	}
	return r, rr
}

func TestDeclare_Success(t *testing.T) {
	r, rr := declareFixture(activeLoan())
	rr.CreateFn = func(ctx context.Context, rp *domain.Repayment) error {
		if rp.LoanID != 42 {
			t.Fatalf("repayment keyed to loan pk %d", rp.LoanID)
		}
		return nil
	}
	uc := NewUsecase(rr, uowmock.Passthrough(r, nil), notifymock.New())

	dto, err := uc.Declare(context.Background(), DeclareInput{
		LoanID: testLoanID, UserID: testUserID, Amount: 20_000, ProofRef: "proofs/x/1.jpg",
	})
	if err != nil {
		t.Fatalf("Declare err: %v", err)
	}
	if len(dto.RepaymentID) != 32 {
		t.Fatalf("RepaymentID length: %d", len(dto.RepaymentID))
	}
	if dto.Status != string(domain.StatusPending) {
		t.Fatalf("status=%s", dto.Status)
	}
	if dto.LoanID != testLoanID {
		t.Fatalf("loan id=%s", dto.LoanID)
	}
}

func TestDeclare_OverdueLoanStillAccepted(t *testing.T) {
	l := activeLoan()
	l.Status = domainLoan.StatusOverdue
	r, rr := declareFixture(l)
	uc := NewUsecase(rr, uowmock.Passthrough(r, nil), notifymock.New())

	if _, err := uc.Declare(context.Background(), DeclareInput{
		LoanID: testLoanID, UserID: testUserID, Amount: 20_000,
	}); err != nil {
		t.Fatalf("Declare on overdue loan err: %v", err)
	}
}

func TestDeclare_InvalidAmount(t *testing.T) {
	uc := NewUsecase(&repaymock.Repo{}, uowmock.New(), notifymock.New())
	for _, amount := range []float64{0, -100} {
		_, err := uc.Declare(context.Background(), DeclareInput{
			LoanID: testLoanID, UserID: testUserID, Amount: amount,
		})
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("amount %v: want ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestDeclare_NotOwner(t *testing.T) {
	r, rr := declareFixture(activeLoan())
	uc := NewUsecase(rr, uowmock.Passthrough(r, nil), notifymock.New())

	_, err := uc.Declare(context.Background(), DeclareInput{
		LoanID: testLoanID, UserID: "ffffffffffffffffffffffffffffffff", Amount: 5000,
	})
	if !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("want ErrNotOwner, got %v", err)
	}
}

func TestDeclare_LoanNotActive(t *testing.T) {
	l := activeLoan()
	l.Status = domainLoan.StatusPending
	r, rr := declareFixture(l)
	uc := NewUsecase(rr, uowmock.Passthrough(r, nil), notifymock.New())

	_, err := uc.Declare(context.Background(), DeclareInput{
		LoanID: testLoanID, UserID: testUserID, Amount: 5000,
	})
	if !errors.Is(err, domain.ErrLoanNotActive) {
		t.Fatalf("want ErrLoanNotActive, got %v", err)
	}
}

func TestDeclare_ExceedsOutstanding(t *testing.T) {
	r, rr := declareFixture(activeLoan())
	uc := NewUsecase(rr, uowmock.Passthrough(r, nil), notifymock.New())

	// Outstanding is 40k; declaring 40,001 is refused up front.
	_, err := uc.Declare(context.Background(), DeclareInput{
		LoanID: testLoanID, UserID: testUserID, Amount: 40_001,
	})
	if !errors.Is(err, domain.ErrExceedsBalance) {
		t.Fatalf("want ErrExceedsBalance, got %v", err)
	}
}

func TestDeclare_LoanMissing(t *testing.T) {
	r := uow.Repos{
		Loans: &loanmock.Repo{GetByLoanIDForUpdateFn: func(ctx context.Context, loanID string) (*domainLoan.Loan, error) {
			return nil, gorm.ErrRecordNotFound
		}},
		Repayments: &repaymock.Repo{},
	}
	uc := NewUsecase(r.Repayments.(*repaymock.Repo), uowmock.Passthrough(r, nil), notifymock.New())

	_, err := uc.Declare(context.Background(), DeclareInput{
		LoanID: testLoanID, UserID: testUserID, Amount: 5000,
	})
	if !errors.Is(err, domainLoan.ErrNotFound) {
		t.Fatalf("want loan ErrNotFound, got %v", err)
	}
}

func pendingRepayment(amount float64) *domain.Repayment {
	return &domain.Repayment{
		ID: 9, RepaymentID: testRepaymentID, LoanID: 42, UserID: testUserID,
		AmountDeclared: amount, Status: domain.StatusPending,
	}
}

func verifyFixture(rp *domain.Repayment, l *domainLoan.Loan) (uow.Repos, *repaymock.Repo) {
	rr := &repaymock.Repo{
		GetByRepaymentIDForUpdateFn: func(ctx context.Context, repaymentID string) (*domain.Repayment, error) {
			return rp, nil
		},
	}
	r := uow.Repos{
		Loans: &loanmock.Repo{GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*domainLoan.Loan, error) {
			if id != rp.LoanID {
				return nil, gorm.ErrRecordNotFound
			}
			return l, nil
		}},
		Repayments: rr,
	}
	return r, rr
}

func TestVerify_AppliesBalance(t *testing.T) {
	l := activeLoan()
	rp := pendingRepayment(20_000)
	r, rr := verifyFixture(rp, l)
	rec := notifymock.New()
	uc := NewUsecase(rr, uowmock.Passthrough(r, nil), rec)

	out, err := uc.Verify(context.Background(), testRepaymentID, testAdminID)
	if err != nil {
		t.Fatalf("Verify err: %v", err)
	}
	if out.AmountPaid != 30_000 {
		t.Fatalf("amount_paid=%v", out.AmountPaid)
	}
	if out.LoanStatus != string(domainLoan.StatusActive) {
		t.Fatalf("loan status=%s", out.LoanStatus)
	}
	if rp.Status != domain.StatusVerified || rp.ValidatorID == nil || *rp.ValidatorID != testAdminID {
		t.Fatalf("repayment not stamped: %+v", rp)
	}
	if got := rec.Types(); len(got) != 1 || got[0] != "repayment.verified" {
		t.Fatalf("events=%v", got)
	}
}

func TestVerify_FinalPaymentClosesLoan(t *testing.T) {
	l := activeLoan()
	rp := pendingRepayment(40_000)
	r, rr := verifyFixture(rp, l)
	uc := NewUsecase(rr, uowmock.Passthrough(r, nil), notifymock.New())

	out, err := uc.Verify(context.Background(), testRepaymentID, testAdminID)
	if err != nil {
		t.Fatalf("Verify err: %v", err)
	}
	if out.LoanStatus != string(domainLoan.StatusPaid) {
		t.Fatalf("loan status=%s, want paid", out.LoanStatus)
	}
	if l.AmountPaid != l.Amount {
		t.Fatalf("amount_paid=%v amount=%v", l.AmountPaid, l.Amount)
	}
}

func TestVerify_ExceedsBalanceAtVerification(t *testing.T) {
	// Declared when the balance allowed it, but another verification landed
	// first and the loan now only has 5k outstanding.
	l := activeLoan()
	l.AmountPaid = 45_000
	rp := pendingRepayment(20_000)
	r, rr := verifyFixture(rp, l)
	rr.SaveFn = func(ctx context.Context, _ *domain.Repayment) error {
		t.Fatal("Save must not run when the balance check fails")
		return nil
	}
	uc := NewUsecase(rr, uowmock.Passthrough(r, nil), notifymock.New())

	_, err := uc.Verify(context.Background(), testRepaymentID, testAdminID)
	if !errors.Is(err, domain.ErrExceedsBalance) {
		t.Fatalf("want ErrExceedsBalance, got %v", err)
	}
	if rp.Status != domain.StatusPending {
		t.Fatalf("repayment must stay pending, got %s", rp.Status)
	}
}

func TestVerify_AlreadyDecided(t *testing.T) {
	rp := pendingRepayment(20_000)
	rp.Status = domain.StatusVerified
	r, rr := verifyFixture(rp, activeLoan())
	uc := NewUsecase(rr, uowmock.Passthrough(r, nil), notifymock.New())

	_, err := uc.Verify(context.Background(), testRepaymentID, testAdminID)
	if !errors.Is(err, domain.ErrAlreadyDecided) {
		t.Fatalf("want ErrAlreadyDecided, got %v", err)
	}
}

func TestVerify_NotFound(t *testing.T) {
	rr := &repaymock.Repo{GetByRepaymentIDForUpdateFn: func(ctx context.Context, repaymentID string) (*domain.Repayment, error) {
		return nil, gorm.ErrRecordNotFound
	}}
	uc := NewUsecase(rr, uowmock.Passthrough(uow.Repos{Repayments: rr}, nil), notifymock.New())

	_, err := uc.Verify(context.Background(), testRepaymentID, testAdminID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestReject_LeavesLoanAlone(t *testing.T) {
	rp := pendingRepayment(20_000)
	rr := &repaymock.Repo{
		GetByRepaymentIDForUpdateFn: func(ctx context.Context, repaymentID string) (*domain.Repayment, error) {
			return rp, nil
		},
	}
	r := uow.Repos{
		Repayments: rr,
		Loans: &loanmock.Repo{
			GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*domainLoan.Loan, error) {
				t.Fatal("Reject must not read the loan")
				return nil, nil
			},
			SaveFn: func(ctx context.Context, _ *domainLoan.Loan) error {
				t.Fatal("Reject must not write the loan")
				return nil
			},
		},
	}
	rec := notifymock.New()
	uc := NewUsecase(rr, uowmock.Passthrough(r, nil), rec)

	dto, err := uc.Reject(context.Background(), testRepaymentID, testAdminID)
	if err != nil {
		t.Fatalf("Reject err: %v", err)
	}
	if dto.Status != string(domain.StatusRejected) {
		t.Fatalf("status=%s", dto.Status)
	}
	if dto.ValidatedAt == nil || time.Since(*dto.ValidatedAt) > time.Minute {
		t.Fatalf("validated_at=%v", dto.ValidatedAt)
	}
	if got := rec.Types(); len(got) != 1 || got[0] != "repayment.rejected" {
		t.Fatalf("events=%v", got)
	}
}

func TestReject_AlreadyDecided(t *testing.T) {
	rp := pendingRepayment(20_000)
	rp.Status = domain.StatusRejected
	rr := &repaymock.Repo{GetByRepaymentIDForUpdateFn: func(ctx context.Context, repaymentID string) (*domain.Repayment, error) {
		return rp, nil
	}}
	uc := NewUsecase(rr, uowmock.Passthrough(uow.Repos{Repayments: rr}, nil), notifymock.New())

	_, err := uc.Reject(context.Background(), testRepaymentID, testAdminID)
	if !errors.Is(err, domain.ErrAlreadyDecided) {
		t.Fatalf("want ErrAlreadyDecided, got %v", err)
	}
}

// Two verifications race for the same outstanding balance. The loan lock
// serializes them; the loser re-reads the applied balance and fails
// ExceedsBalance instead of overpaying the ledger.
func TestVerify_ConcurrentDoubleVerify(t *testing.T) {
	l := activeLoan() // 50k principal, 10k paid: room for one 30k, not two
	rps := map[string]*domain.Repayment{
		"e1e1e1e1e1e1e1e1e1e1e1e1e1e1e1e1": {ID: 1, RepaymentID: "e1e1e1e1e1e1e1e1e1e1e1e1e1e1e1e1", LoanID: 42, UserID: testUserID, AmountDeclared: 30_000, Status: domain.StatusPending},
		"e2e2e2e2e2e2e2e2e2e2e2e2e2e2e2e2": {ID: 2, RepaymentID: "e2e2e2e2e2e2e2e2e2e2e2e2e2e2e2e2", LoanID: 42, UserID: testUserID, AmountDeclared: 30_000, Status: domain.StatusPending},
	}
	rr := &repaymock.Repo{
		GetByRepaymentIDForUpdateFn: func(ctx context.Context, repaymentID string) (*domain.Repayment, error) {
			rp, found := rps[repaymentID]
			if !found {
				return nil, gorm.ErrRecordNotFound
			}
			return rp, nil
		},
	}
	r := uow.Repos{
		Loans: &loanmock.Repo{GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*domainLoan.Loan, error) {
			return l, nil
		}},
		Repayments: rr,
	}
	uc := NewUsecase(rr, uowmock.Serialized(r, nil), notifymock.New())

	errs := make(chan error, len(rps))
	var wg sync.WaitGroup
	for rid := range rps {
		wg.Add(1)
		go func(rid string) {
			defer wg.Done()
			_, err := uc.Verify(context.Background(), rid, testAdminID)
			errs <- err
		}(rid)
	}
	wg.Wait()
	close(errs)

	var ok, exceeds int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrExceedsBalance):
			exceeds++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || exceeds != 1 {
		t.Fatalf("successes=%d exceedsBalance=%d, want exactly one of each", ok, exceeds)
	}
	if l.AmountPaid != 40_000 {
		t.Fatalf("amount_paid=%v, want 40000", l.AmountPaid)
	}
	if l.Status != domainLoan.StatusActive {
		t.Fatalf("loan status=%s, want active", l.Status)
	}
	verified, pending := 0, 0
	for _, rp := range rps {
		switch rp.Status {
		case domain.StatusVerified:
			verified++
		case domain.StatusPending:
			pending++
		}
	}
	if verified != 1 || pending != 1 {
		t.Fatalf("verified=%d pending=%d, want one applied and one left for re-decision", verified, pending)
	}
}
