package services

import (
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"prfaq-backend/internal/models"
)

var (
	ErrInvalidAmount            = errors.New("amount must be positive")
	ErrInsufficientBalance      = errors.New("insufficient balance")
	ErrUserNotFound             = errors.New("user not found")
	ErrDailyBonusAlreadyClaimed = errors.New("daily login bonus already claimed today")
)

// LedgerService owns the point balance and the append-only transaction log.
// All balance mutations in the system go through Credit/Debit (or their
// in-transaction variants used by BillingService); nothing else writes
// User.Points or appends a PointTransaction.
type LedgerService struct {
	db     *gorm.DB
	rdb    *redis.Client
	secret string
	loc    *time.Location
	bonus  int64
	log    *zap.Logger
}

func NewLedgerService(db *gorm.DB, rdb *redis.Client, secret string, loc *time.Location, bonusPoints int64, log *zap.Logger) *LedgerService {
	if loc == nil {
		loc = time.Local
	}
	return &LedgerService{
		db:     db,
		rdb:    rdb,
		secret: secret,
		loc:    loc,
		bonus:  bonusPoints,
		log:    log,
	}
}

// Balance returns the user's current point balance.
func (s *LedgerService) Balance(userID uint) (int64, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return user.Points, nil
}

// Credit adds amount points to the user and appends the matching ledger
// entry, as one atomic unit.
func (s *LedgerService) Credit(userID uint, amount int64, txType models.TransactionType, description, operator string) (*models.PointTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var entry *models.PointTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = s.creditTx(tx, userID, amount, txType, description, operator)
		return err
	})
	if err != nil {
		return nil, err
	}

	invalidateUserCache(s.rdb, userID)
	return entry, nil
}

// Debit removes amount points from the user, failing with
// ErrInsufficientBalance and no mutation at all when the balance does not
// cover it. The read-check-write is a single conditional UPDATE so two
// concurrent debits can never both observe the same starting balance.
func (s *LedgerService) Debit(userID uint, amount int64, txType models.TransactionType, description, operator string) (*models.PointTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var entry *models.PointTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = s.debitTx(tx, userID, amount, txType, description, operator, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	invalidateUserCache(s.rdb, userID)
	return entry, nil
}

// DailyLoginBonus credits the configured login reward, at most once per
// calendar day per user. Claiming the day is a conditional UPDATE on
// User.LastBonusDay with a rows-affected check, the same shape as the debit,
// so two concurrent claims can never both pass.
func (s *LedgerService) DailyLoginBonus(userID uint) (*models.PointTransaction, error) {
	if s.bonus <= 0 {
		return nil, ErrInvalidAmount
	}

	var entry *models.PointTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		day := time.Now().In(s.loc).Format("2006-01-02")
		result := tx.Model(&models.User{}).
			Where("id = ? AND last_bonus_day < ?", userID, day).
			Update("last_bonus_day", day)
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
			return ErrDailyBonusAlreadyClaimed
		}

		var err error
		entry, err = s.creditTx(tx, userID, s.bonus, models.TransactionTypeDailyLogin, "daily login bonus", "system")
		return err
	})
	if err != nil {
		return nil, err
	}

	invalidateUserCache(s.rdb, userID)
	return entry, nil
}

// creditTx applies a credit inside an already-open transaction.
func (s *LedgerService) creditTx(tx *gorm.DB, userID uint, amount int64, txType models.TransactionType, description, operator string) (*models.PointTransaction, error) {
	result := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("points", gorm.Expr("points + ?", amount))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	return s.appendEntry(tx, userID, amount, txType, description, operator, nil)
}

// debitTx applies a debit inside an already-open transaction. The conditional
// UPDATE with a rows-affected check is what keeps the balance from ever
// going negative under concurrent callers.
func (s *LedgerService) debitTx(tx *gorm.DB, userID uint, amount int64, txType models.TransactionType, description, operator string, billID *uint) (*models.PointTransaction, error) {
	result := tx.Model(&models.User{}).
		Where("id = ? AND points >= ?", userID, amount).
		Update("points", gorm.Expr("points - ?", amount))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing user from an uncovered debit.
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrUserNotFound
		}
		return nil, ErrInsufficientBalance
	}

	return s.appendEntry(tx, userID, -amount, txType, description, operator, billID)
}

// appendEntry writes the ledger row carrying the post-apply balance snapshot.
// The reread sees this transaction's own update while the row lock taken by
// that update keeps concurrent writers out until commit.
func (s *LedgerService) appendEntry(tx *gorm.DB, userID uint, amount int64, txType models.TransactionType, description, operator string, billID *uint) (*models.PointTransaction, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		return nil, err
	}

	entry := models.PointTransaction{
		CreatedAt:   time.Now(),
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Balance:     user.Points,
		Description: description,
		Operator:    operator,
		BillID:      billID,
	}
	entry.Hash = entry.GenerateHash(s.secret)

	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
