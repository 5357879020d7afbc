package services

import (
	"errors"

	"gorm.io/gorm"

	"prfaq-backend/internal/models"
)

// QuotaService answers whether a user still has daily character capacity.
// It only ever reads the counters; zeroing UsedCharsToday is exclusively the
// reset scheduler's job.
type QuotaService struct {
	db *gorm.DB
}

func NewQuotaService(db *gorm.DB) *QuotaService {
	return &QuotaService{db: db}
}

// HasCapacity reports whether requestedChars more characters fit into the
// user's daily window.
func (s *QuotaService) HasCapacity(userID uint, requestedChars int64) (bool, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return user.UsedCharsToday+requestedChars <= user.DailyCharsLimit, nil
}

// UsageSummary aggregates the per-user counters exposed to the UI.
type UsageSummary struct {
	Points          int64   `json:"points"`
	TotalChars      int64   `json:"total_chars"`
	TotalCost       float64 `json:"total_cost"`
	UsedCharsToday  int64   `json:"used_chars_today"`
	DailyCharsLimit int64   `json:"daily_chars_limit"`
}

// GetUserTotalUsage returns the cumulative usage stats for one user.
func (s *QuotaService) GetUserTotalUsage(userID uint) (*UsageSummary, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &UsageSummary{
		Points:          user.Points,
		TotalChars:      user.TotalChars,
		TotalCost:       user.TotalCost,
		UsedCharsToday:  user.UsedCharsToday,
		DailyCharsLimit: user.DailyCharsLimit,
	}, nil
}
