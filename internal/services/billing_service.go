package services

import (
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"prfaq-backend/internal/models"
)

var ErrQuotaExceeded = errors.New("daily character quota exceeded")

// BillingService turns completed-generation events into money: it meters the
// character counts, gates on the daily quota, debits the ledger, writes the
// Bill and advances the cumulative counters — the last three as one atomic
// unit. A Bill is never observable without its consume transaction, and vice
// versa.
type BillingService struct {
	db        *gorm.DB
	ledger    *LedgerService
	unitPrice float64
	log       *zap.Logger
}

func NewBillingService(db *gorm.DB, ledger *LedgerService, unitPrice float64, log *zap.Logger) *BillingService {
	return &BillingService{
		db:        db,
		ledger:    ledger,
		unitPrice: unitPrice,
		log:       log,
	}
}

// RecordUsage records one billable generation event for the user. Expected
// business failures (ErrQuotaExceeded, ErrInsufficientBalance,
// ErrInvalidInput) leave every row untouched; so does any storage failure
// mid-sequence, via rollback.
func (s *BillingService) RecordUsage(userID uint, apiName, operation string, inputChars, outputChars int64, metadata map[string]interface{}) (*models.Bill, error) {
	cost, pointsCost, err := Meter(inputChars, outputChars, s.unitPrice)
	if err != nil {
		return nil, err
	}
	totalChars := inputChars + outputChars

	var metaJSON datatypes.JSON
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, err
		}
		metaJSON = datatypes.JSON(raw)
	}

	var bill *models.Bill
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Quota gate and counter advance are one conditional UPDATE with a
		// rows-affected check, like the debit; two concurrent events cannot
		// both pass a near-full quota. The row lock it takes also covers the
		// rest of the unit.
		result := tx.Model(&models.User{}).
			Where("id = ? AND used_chars_today + ? <= daily_chars_limit", userID, totalChars).
			Updates(map[string]interface{}{
				"used_chars_today": gorm.Expr("used_chars_today + ?", totalChars),
				"total_chars":      gorm.Expr("total_chars + ?", totalChars),
				"total_cost":       gorm.Expr("total_cost + ?", cost),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrUserNotFound
			}
			return ErrQuotaExceeded
		}

		b := models.Bill{
			CreatedAt:   time.Now(),
			UserID:      userID,
			APIName:     apiName,
			Operation:   operation,
			InputChars:  inputChars,
			OutputChars: outputChars,
			Cost:        cost,
			PointsCost:  pointsCost,
			Metadata:    metaJSON,
		}
		if err := tx.Create(&b).Error; err != nil {
			return err
		}

		if _, err := s.ledger.debitTx(tx, userID, pointsCost, models.TransactionTypeConsume, operation, "system", &b.ID); err != nil {
			return err
		}

		bill = &b
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrQuotaExceeded) && !errors.Is(err, ErrInsufficientBalance) && !errors.Is(err, ErrUserNotFound) {
			s.log.Error("billing failed, generation left unbilled",
				zap.Uint("user_id", userID),
				zap.String("operation", operation),
				zap.Int64("points_cost", pointsCost),
				zap.Error(err))
		}
		return nil, err
	}

	invalidateUserCache(s.ledger.rdb, userID)
	return bill, nil
}
