package loan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domain "creditly-backend/internal/domain/loan"
	domainPlan "creditly-backend/internal/domain/plan"
	domainSub "creditly-backend/internal/domain/subscription"
	"creditly-backend/internal/domain/uow"
	domainUser "creditly-backend/internal/domain/user"
	"creditly-backend/internal/testutil/loanmock"
	"creditly-backend/internal/testutil/notifymock"
	"creditly-backend/internal/testutil/planmock"
	"creditly-backend/internal/testutil/submock"
	"creditly-backend/internal/testutil/uowmock"
	"creditly-backend/internal/testutil/usermock"

	"gorm.io/gorm"
)

const (
	testUserID  = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	testAdminID = "cccccccccccccccccccccccccccccccc"
	testLoanID  = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

func testPlan() *domainPlan.Plan {
	return &domainPlan.Plan{
		ID:                 7,
		Name:               "gold",
		Price:              5000,
		MaxLoanAmount:      100_000,
		MaxLoansPerMonth:   3,
		RepaymentDelayDays: 14,
		SubscriberQuota:    50,
	}
}

func activeSub(planID uint64) *domainSub.Subscription {
	end := time.Now().UTC().Add(10 * 24 * time.Hour)
	return &domainSub.Subscription{
		ID: 1, SubscriptionID: "dddddddddddddddddddddddddddddddd",
		UserID: testUserID, PlanID: planID,
		Status: domainSub.StatusActive, IsActive: true, EndDate: &end,
	}
}

// repos wired for a user with an active gold subscription, no open debt.
func requestFixture(t *testing.T) (uow.Repos, *loanmock.Repo) {
	t.Helper()
	lr := &loanmock.Repo{
		SumOpenAmountByUserIDFn: func(ctx context.Context, userID string, excludeID uint64) (float64, error) {
			return 0, nil
		},
		CountOpenByUserIDFn: func(ctx context.Context, userID string, excludeID uint64) (int64, error) {
			return 0, nil
		},
	}
	r := uow.Repos{
		Users: &usermock.Repo{},
		Plans: &planmock.Repo{GetByIDFn: func(ctx context.Context, id uint64) (*domainPlan.Plan, error) {
			return testPlan(), nil
		}},
		Subscriptions: &submock.Repo{GetActiveByUserIDFn: func(ctx context.Context, userID string) (*domainSub.Subscription, error) {
			return activeSub(7), nil
		}},
		Loans: lr,
	}
	return r, lr
}

func validRequest() RequestLoanInput {
	return RequestLoanInput{
		UserID:        testUserID,
		Amount:        50_000,
		PayoutPhone:   "0788123456",
		PayoutName:    "Jane Doe",
		PayoutNetwork: "mtn",
	}
}

func TestRequest_Success(t *testing.T) {
	r, lr := requestFixture(t)
	lr.CreateFn = func(ctx context.Context, l *domain.Loan) error {
		l.ID = 42
		return nil
	}
	usr := &domainUser.User{UserID: testUserID, IsAccountActive: true}
	rec := notifymock.New()
	uc := NewUsecase(lr, uowmock.Passthrough(r, usr), rec)

	dto, err := uc.Request(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Request err: %v", err)
	}
	if len(dto.LoanID) != 32 {
		t.Fatalf("LoanID length: %d", len(dto.LoanID))
	}
	if dto.Status != string(domain.StatusPending) {
		t.Fatalf("status=%s", dto.Status)
	}
	if dto.PlanID != 7 {
		t.Fatalf("plan id=%d", dto.PlanID)
	}
	if got := rec.Types(); len(got) != 1 || got[0] != "loan.requested" {
		t.Fatalf("events=%v", got)
	}
}

func TestRequest_InactiveAccount(t *testing.T) {
	r, lr := requestFixture(t)
	usr := &domainUser.User{UserID: testUserID, IsAccountActive: false}
	uc := NewUsecase(lr, uowmock.Passthrough(r, usr), notifymock.New())

	_, err := uc.Request(context.Background(), validRequest())
	if !errors.Is(err, domainUser.ErrAccountInactive) {
		t.Fatalf("want ErrAccountInactive, got %v", err)
	}
}

func TestRequest_NoActiveSubscription(t *testing.T) {
	r, lr := requestFixture(t)
	r.Subscriptions = &submock.Repo{GetActiveByUserIDFn: func(ctx context.Context, userID string) (*domainSub.Subscription, error) {
		return nil, gorm.ErrRecordNotFound
	}}
	usr := &domainUser.User{UserID: testUserID, IsAccountActive: true}
	uc := NewUsecase(lr, uowmock.Passthrough(r, usr), notifymock.New())

	_, err := uc.Request(context.Background(), validRequest())
	if !errors.Is(err, domain.ErrNoActiveSubscription) {
		t.Fatalf("want ErrNoActiveSubscription, got %v", err)
	}
}

func TestRequest_ExpiredSubscriptionRejected(t *testing.T) {
	r, lr := requestFixture(t)
	r.Subscriptions = &submock.Repo{GetActiveByUserIDFn: func(ctx context.Context, userID string) (*domainSub.Subscription, error) {
		s := activeSub(7)
		past := time.Now().UTC().Add(-time.Hour)
		s.EndDate = &past
		return s, nil
	}}
	usr := &domainUser.User{UserID: testUserID, IsAccountActive: true}
	uc := NewUsecase(lr, uowmock.Passthrough(r, usr), notifymock.New())

	_, err := uc.Request(context.Background(), validRequest())
	if !errors.Is(err, domain.ErrNoActiveSubscription) {
		t.Fatalf("want ErrNoActiveSubscription for lapsed end date, got %v", err)
	}
}

func TestRequest_AmountBounds(t *testing.T) {
	r, lr := requestFixture(t)
	usr := &domainUser.User{UserID: testUserID, IsAccountActive: true}
	uc := NewUsecase(lr, uowmock.Passthrough(r, usr), notifymock.New())

	for _, amount := range []float64{0, -5, 999, 100_001} {
		in := validRequest()
		in.Amount = amount
		if _, err := uc.Request(context.Background(), in); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("amount %v: want ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestRequest_MissingPayout(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{}, uowmock.New(), notifymock.New())
	in := validRequest()
	in.PayoutPhone = "  "
	if _, err := uc.Request(context.Background(), in); !errors.Is(err, domain.ErrInvalidPayout) {
		t.Fatalf("want ErrInvalidPayout, got %v", err)
	}
}

func TestRequest_OverCeiling(t *testing.T) {
	r, lr := requestFixture(t)
	lr.SumOpenAmountByUserIDFn = func(ctx context.Context, userID string, excludeID uint64) (float64, error) {
		return 70_000, nil
	}
	lr.CreateFn = func(ctx context.Context, l *domain.Loan) error {
		t.Fatal("Create must not run when the ceiling check fails")
		return nil
	}
	usr := &domainUser.User{UserID: testUserID, IsAccountActive: true}
	uc := NewUsecase(lr, uowmock.Passthrough(r, usr), notifymock.New())

	// 70k outstanding + 50k requested > 100k ceiling.
	_, err := uc.Request(context.Background(), validRequest())
	if !errors.Is(err, domain.ErrOverCeiling) {
		t.Fatalf("want ErrOverCeiling, got %v", err)
	}
}

func TestRequest_AtCeilingBoundaryAllowed(t *testing.T) {
	r, lr := requestFixture(t)
	lr.SumOpenAmountByUserIDFn = func(ctx context.Context, userID string, excludeID uint64) (float64, error) {
		return 50_000, nil
	}
	usr := &domainUser.User{UserID: testUserID, IsAccountActive: true}
	uc := NewUsecase(lr, uowmock.Passthrough(r, usr), notifymock.New())

	// 50k + 50k == 100k exactly: allowed.
	if _, err := uc.Request(context.Background(), validRequest()); err != nil {
		t.Fatalf("boundary request err: %v", err)
	}
}

func TestRequest_OverCapacity(t *testing.T) {
	r, lr := requestFixture(t)
	lr.CountOpenByUserIDFn = func(ctx context.Context, userID string, excludeID uint64) (int64, error) {
		return 3, nil
	}
	usr := &domainUser.User{UserID: testUserID, IsAccountActive: true}
	uc := NewUsecase(lr, uowmock.Passthrough(r, usr), notifymock.New())

	_, err := uc.Request(context.Background(), validRequest())
	if !errors.Is(err, domain.ErrOverCapacity) {
		t.Fatalf("want ErrOverCapacity, got %v", err)
	}
}

func pendingLoan() *domain.Loan {
	return &domain.Loan{
		ID: 42, LoanID: testLoanID, UserID: testUserID, PlanID: 7,
		Amount: 50_000, Status: domain.StatusPending,
		PayoutPhone: "0788123456", PayoutName: "Jane Doe", PayoutNetwork: "mtn",
		RequestDate: time.Now().UTC(),
	}
}

func decideFixture(t *testing.T, cur *domain.Loan) (uow.Repos, *loanmock.Repo) {
	t.Helper()
	lr := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
			return cur, nil
		},
		GetByLoanIDForUpdateFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
			return cur, nil
		},
		SumOpenAmountByUserIDFn: func(ctx context.Context, userID string, excludeID uint64) (float64, error) {
			if excludeID != cur.ID {
				t.Fatalf("recheck must exclude the decided loan, got excludeID=%d", excludeID)
			}
			return 0, nil
		},
	}
	r := uow.Repos{
		Plans: &planmock.Repo{GetByIDFn: func(ctx context.Context, id uint64) (*domainPlan.Plan, error) {
			return testPlan(), nil
		}},
		Loans: lr,
	}
	return r, lr
}

func TestDecide_Approve(t *testing.T) {
	cur := pendingLoan()
	r, lr := decideFixture(t, cur)
	rec := notifymock.New()
	uc := NewUsecase(lr, uowmock.Passthrough(r, nil), rec)

	dto, err := uc.Decide(context.Background(), DecideLoanInput{
		LoanID: testLoanID, AdminID: testAdminID, Decision: DecisionApprove,
	})
	if err != nil {
		t.Fatalf("Decide err: %v", err)
	}
	if dto.Status != string(domain.StatusActive) {
		t.Fatalf("status=%s", dto.Status)
	}
	if dto.DueDate == nil {
		t.Fatal("due date not set")
	}
	wantDue := time.Now().UTC().AddDate(0, 0, 14)
	if dto.DueDate.Before(wantDue.Add(-time.Minute)) || dto.DueDate.After(wantDue.Add(time.Minute)) {
		t.Fatalf("due date %v not ~14 days out", dto.DueDate)
	}
	if cur.Terms.RepaymentDelayDays != 14 || cur.Terms.MaxLoanAmount != 100_000 {
		t.Fatalf("terms not snapshotted: %+v", cur.Terms)
	}
	if got := rec.Types(); len(got) != 1 || got[0] != "loan.approved" {
		t.Fatalf("events=%v", got)
	}
}

func TestDecide_Reject(t *testing.T) {
	cur := pendingLoan()
	r, lr := decideFixture(t, cur)
	uc := NewUsecase(lr, uowmock.Passthrough(r, nil), notifymock.New())

	dto, err := uc.Decide(context.Background(), DecideLoanInput{
		LoanID: testLoanID, AdminID: testAdminID, Decision: DecisionReject, Reason: "incomplete documents",
	})
	if err != nil {
		t.Fatalf("Decide err: %v", err)
	}
	if dto.Status != string(domain.StatusRejected) {
		t.Fatalf("status=%s", dto.Status)
	}
	if dto.RejectionReason == nil || *dto.RejectionReason != "incomplete documents" {
		t.Fatalf("reason=%v", dto.RejectionReason)
	}
}

func TestDecide_AlreadyDecided(t *testing.T) {
	cur := pendingLoan()
	cur.Status = domain.StatusActive
	r, lr := decideFixture(t, cur)
	uc := NewUsecase(lr, uowmock.Passthrough(r, nil), notifymock.New())

	_, err := uc.Decide(context.Background(), DecideLoanInput{
		LoanID: testLoanID, AdminID: testAdminID, Decision: DecisionApprove,
	})
	if !errors.Is(err, domain.ErrAlreadyDecided) {
		t.Fatalf("want ErrAlreadyDecided, got %v", err)
	}
}

func TestDecide_ApproveRecheckFails(t *testing.T) {
	cur := pendingLoan()
	r, lr := decideFixture(t, cur)
	// Other loans issued since the request put the user at 80k open debt.
	lr.SumOpenAmountByUserIDFn = func(ctx context.Context, userID string, excludeID uint64) (float64, error) {
		return 80_000, nil
	}
	lr.SaveFn = func(ctx context.Context, l *domain.Loan) error {
		t.Fatal("Save must not run when the approval recheck fails")
		return nil
	}
	uc := NewUsecase(lr, uowmock.Passthrough(r, nil), notifymock.New())

	_, err := uc.Decide(context.Background(), DecideLoanInput{
		LoanID: testLoanID, AdminID: testAdminID, Decision: DecisionApprove,
	})
	if !errors.Is(err, domain.ErrOverCeiling) {
		t.Fatalf("want ErrOverCeiling, got %v", err)
	}
	if cur.Status != domain.StatusPending {
		t.Fatalf("loan must stay pending after failed recheck, got %s", cur.Status)
	}
}

func TestDecide_InvalidDecision(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{}, uowmock.New(), notifymock.New())
	_, err := uc.Decide(context.Background(), DecideLoanInput{
		LoanID: testLoanID, AdminID: testAdminID, Decision: "maybe",
	})
	if !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("want ErrInvalidDecision, got %v", err)
	}
}

func TestDecide_NotFound(t *testing.T) {
	lr := &loanmock.Repo{GetByLoanIDFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
		return nil, gorm.ErrRecordNotFound
	}}
	uc := NewUsecase(lr, uowmock.New(), notifymock.New())
	_, err := uc.Decide(context.Background(), DecideLoanInput{
		LoanID: testLoanID, AdminID: testAdminID, Decision: DecisionApprove,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGet_TranslatesRecordNotFound(t *testing.T) {
	lr := &loanmock.Repo{GetByLoanIDFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
		return nil, gorm.ErrRecordNotFound
	}}
	uc := NewUsecase(lr, uowmock.New(), notifymock.New())
	if _, err := uc.Get(context.Background(), testLoanID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDecide_LockedReadErrorPropagates(t *testing.T) {
	cur := pendingLoan()
	dbErr := errors.New("connection reset")
	lr := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
			return cur, nil
		},
		GetByLoanIDForUpdateFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
			return nil, dbErr
		},
	}
	uc := NewUsecase(lr, uowmock.Passthrough(uow.Repos{Loans: lr}, nil), notifymock.New())

	_, err := uc.Decide(context.Background(), DecideLoanInput{
		LoanID: testLoanID, AdminID: testAdminID, Decision: DecisionApprove,
	})
	if !errors.Is(err, dbErr) {
		t.Fatalf("want the db error back, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("transient failure must not read as not-found")
	}
}

func TestMarkOverdue(t *testing.T) {
	lr := &loanmock.Repo{MarkOverdueFn: func(ctx context.Context, now time.Time) (int64, error) {
		return 2, nil
	}}
	uc := NewUsecase(lr, uowmock.New(), notifymock.New())
	n, err := uc.MarkOverdue(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("MarkOverdue=%d err=%v", n, err)
	}
}

// Eight goroutines race 30k requests at a 100k ceiling. The per-user lock
// serializes them, so exactly three fit and everyone else sees OverCeiling,
// never a fourth row.
func TestRequest_ConcurrentNearCeiling(t *testing.T) {
	var created []*domain.Loan // guarded by the serialized tx
	lr := &loanmock.Repo{
		SumOpenAmountByUserIDFn: func(ctx context.Context, userID string, excludeID uint64) (float64, error) {
			var sum float64
			for _, l := range created {
				sum += l.Amount
			}
			return sum, nil
		},
		CountOpenByUserIDFn: func(ctx context.Context, userID string, excludeID uint64) (int64, error) {
			return int64(len(created)), nil
		},
		CreateFn: func(ctx context.Context, l *domain.Loan) error {
			created = append(created, l)
			return nil
		},
	}
	pl := testPlan()
	pl.MaxLoansPerMonth = 10
	r := uow.Repos{
		Plans: &planmock.Repo{GetByIDFn: func(ctx context.Context, id uint64) (*domainPlan.Plan, error) {
			return pl, nil
		}},
		Subscriptions: &submock.Repo{GetActiveByUserIDFn: func(ctx context.Context, userID string) (*domainSub.Subscription, error) {
			return activeSub(7), nil
		}},
		Loans: lr,
	}
	usr := &domainUser.User{UserID: testUserID, IsAccountActive: true}
	uc := NewUsecase(lr, uowmock.Serialized(r, usr), notifymock.New())

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in := validRequest()
			in.Amount = 30_000
			_, err := uc.Request(context.Background(), in)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, overCeiling int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrOverCeiling):
			overCeiling++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 3 || overCeiling != workers-3 {
		t.Fatalf("successes=%d overCeiling=%d, want 3/%d", ok, overCeiling, workers-3)
	}
	if len(created) != 3 {
		t.Fatalf("rows created=%d, want 3", len(created))
	}
}
