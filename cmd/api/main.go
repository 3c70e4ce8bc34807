package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "creditly-backend/internal/adapter/http"
	mw "creditly-backend/internal/adapter/middleware"
	"creditly-backend/internal/adapter/repository/mysql"
	"creditly-backend/internal/config"
	"creditly-backend/internal/cron"
	"creditly-backend/internal/infrastructure/cache"
	"creditly-backend/internal/infrastructure/db"
	"creditly-backend/internal/infrastructure/objstore"
	"creditly-backend/internal/notify"
	kycUC "creditly-backend/internal/usecase/kyc"
	loanUC "creditly-backend/internal/usecase/loan"
	planUC "creditly-backend/internal/usecase/plan"
	repayUC "creditly-backend/internal/usecase/repayment"
	subUC "creditly-backend/internal/usecase/subscription"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	store, err := objstore.NewS3Store(context.Background(), cfg.S3Region, cfg.S3Bucket)
	if err != nil {
		log.Fatal(err)
	}

	// repositories + unit of work
	loanRepo := mysql.NewLoanRepository(gdb)
	repayRepo := mysql.NewRepaymentRepository(gdb)
	subRepo := mysql.NewSubscriptionRepository(gdb)
	kycRepo := mysql.NewKycRepository(gdb)
	userRepo := mysql.NewUserRepository(gdb)
	planRepo := mysql.NewPlanRepository(gdb)
	guow := mysql.NewGormUoW(gdb)

	notifier := notify.NewLogDispatcher()

	// usecases
	loans := loanUC.NewUsecase(loanRepo, guow, notifier)
	repayments := repayUC.NewUsecase(repayRepo, guow, notifier)
	subscriptions := subUC.NewUsecase(subRepo, guow, notifier)
	kycs := kycUC.NewUsecase(kycRepo, userRepo, guow, notifier)
	plans := planUC.NewUsecase(planRepo)

	sweeps := cron.NewSweeps(subscriptions, loans)
	if err := sweeps.Start(cfg.SubscriptionExpirySpec, cfg.LoanOverdueSpec); err != nil {
		log.Fatal(err)
	}
	defer sweeps.Stop()

	// handlers
	h := httpadp.NewHandler()
	loanH := httpadp.NewLoanHandler(loans)
	repayH := httpadp.NewRepaymentHandler(repayments)
	subH := httpadp.NewSubscriptionHandler(subscriptions)
	kycH := httpadp.NewKycHandler(kycs)
	uploadH := httpadp.NewUploadHandler(store)
	adminH := httpadp.NewAdminHandler(loans, repayments, subscriptions, kycs, plans)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())
	e.Use(mw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	e.GET("/health", h.Health)
	e.GET("/plans", adminH.ListPlans)

	// client surface
	e.POST("/uploads", uploadH.Upload)
	e.POST("/loans", loanH.RequestLoan)
	e.GET("/loans", loanH.ListMyLoans)
	e.GET("/loans/:loan_id", loanH.GetLoan)
	e.POST("/loans/:loan_id/repayments", repayH.DeclareRepayment)
	e.GET("/repayments", repayH.ListMyRepayments)
	e.POST("/subscriptions", subH.Subscribe)
	e.GET("/subscriptions", subH.ListMySubscriptions)
	e.GET("/subscriptions/current", subH.CurrentSubscription)
	e.POST("/kyc", kycH.SubmitKyc)
	e.GET("/kyc", kycH.GetMyKyc)

	// staff surface
	e.POST("/admin/users", adminH.RegisterUser)
	e.POST("/admin/plans", adminH.CreatePlan)
	e.PUT("/admin/plans/:plan_id", adminH.UpdatePlan)
	e.GET("/admin/loans/pending", adminH.ListPendingLoans)
	e.POST("/admin/loans/:loan_id/decision", adminH.DecideLoan)
	e.GET("/admin/repayments/pending", adminH.ListPendingRepayments)
	e.POST("/admin/repayments/:repayment_id/verify", adminH.VerifyRepayment)
	e.POST("/admin/repayments/:repayment_id/reject", adminH.RejectRepayment)
	e.GET("/admin/subscriptions/pending", adminH.ListPendingSubscriptions)
	e.POST("/admin/subscriptions/:subscription_id/activate", adminH.ActivateSubscription)
	e.POST("/admin/subscriptions/:subscription_id/reject", adminH.RejectSubscription)
	e.GET("/admin/kyc/pending", adminH.ListPendingKyc)
	e.POST("/admin/kyc/:submission_id/decision", adminH.DecideKyc)
	e.POST("/admin/users/:user_id/activate", adminH.ActivateAccount)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
