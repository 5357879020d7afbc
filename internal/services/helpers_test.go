package services

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"prfaq-backend/internal/models"
)

const testSecret = "test-secret"

func setupTestDB() *gorm.DB {
	// Use in-memory SQLite for testing
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	// A single writer keeps the concurrency tests free of SQLITE_BUSY noise.
	// It also serializes the goroutines in those tests, so they exercise the
	// statement-level conditional-update guards, not lock interleavings; the
	// latter would need a real Postgres behind the suite.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	// Drop tables if exist to ensure clean state and schema update
	db.Migrator().DropTable(&models.User{}, &models.PointTransaction{}, &models.Bill{}, &models.SchedulerState{})

	if err := db.AutoMigrate(&models.User{}, &models.PointTransaction{}, &models.Bill{}, &models.SchedulerState{}); err != nil {
		panic("failed to migrate database")
	}

	return db
}

func newTestLedger(db *gorm.DB) *LedgerService {
	return NewLedgerService(db, nil, testSecret, time.Local, 100, zap.NewNop())
}

func newTestBilling(db *gorm.DB, unitPrice float64) *BillingService {
	return NewBillingService(db, newTestLedger(db), unitPrice, zap.NewNop())
}

func createTestUser(db *gorm.DB, username string, points, dailyLimit, usedToday int64) *models.User {
	user := models.User{
		Username:        username,
		Password:        "hashed",
		Role:            "user",
		Points:          points,
		DailyCharsLimit: dailyLimit,
		UsedCharsToday:  usedToday,
		IsActive:        true,
		Version:         1,
	}
	if err := db.Create(&user).Error; err != nil {
		panic(err)
	}
	return &user
}
