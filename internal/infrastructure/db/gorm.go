package db

import (
	"log"
	"time"

	"creditly-backend/internal/domain/kyc"
	"creditly-backend/internal/domain/loan"
	"creditly-backend/internal/domain/plan"
	"creditly-backend/internal/domain/repayment"
	"creditly-backend/internal/domain/subscription"
	"creditly-backend/internal/domain/user"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func OpenGorm(dsn string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn))
}

// OpenGormWithDialector lets tests inject a mocked connection.
func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.Println("gorm: connected")
	return db, nil
}

// Migrate brings the schema up for every engine table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&plan.Plan{},
		&subscription.Subscription{},
		&loan.Loan{},
		&repayment.Repayment{},
		&kyc.Submission{},
	)
}
