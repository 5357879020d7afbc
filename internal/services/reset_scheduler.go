package services

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prfaq-backend/internal/models"
)

const (
	defaultResetCheckInterval = 60 * time.Second
	dailyResetStateName       = "daily_usage_reset"
)

// ResetScheduler zeroes every user's daily character counter once per
// calendar day. It wakes on a short fixed interval and fires when the local
// day has rolled over since the last successful reset; a failed reset is
// retried on the next wake-up instead of killing the loop. The day of the
// last successful reset is persisted, so a restart that spans midnight
// resets stale counters immediately instead of waiting out the day.
type ResetScheduler struct {
	db       *gorm.DB
	log      *zap.Logger
	loc      *time.Location
	interval time.Duration
	stopChan chan struct{}
	lastDay  string // last day, 2006-01-02 in loc, for which a reset succeeded
}

func NewResetScheduler(db *gorm.DB, loc *time.Location, log *zap.Logger) *ResetScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &ResetScheduler{
		db:       db,
		log:      log,
		loc:      loc,
		interval: defaultResetCheckInterval,
		stopChan: make(chan struct{}),
	}
}

// Start runs the scheduler loop until Stop is called. Call it in a goroutine.
func (s *ResetScheduler) Start() {
	s.lastDay = s.loadLastDay()
	s.log.Info("daily reset scheduler started",
		zap.String("timezone", s.loc.String()),
		zap.Duration("check_interval", s.interval),
		zap.String("last_reset_day", s.lastDay))

	// The process may have been down across midnight.
	s.tick()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stopChan:
			s.log.Info("daily reset scheduler stopped")
			return
		}
	}
}

// Stop exits the wait loop. Safe to call once.
func (s *ResetScheduler) Stop() {
	close(s.stopChan)
}

func (s *ResetScheduler) tick() {
	today := s.today()
	if today == s.lastDay {
		return
	}

	affected, err := s.ResetDailyUsage()
	if err != nil {
		// Leave lastDay alone; the next tick retries.
		s.log.Error("daily usage reset failed", zap.Error(err))
		return
	}

	s.lastDay = today
	s.log.Info("daily usage counters reset",
		zap.String("day", today),
		zap.Int64("users_reset", affected))
}

// ResetDailyUsage sets used_chars_today to zero for every user with a nonzero
// counter and records today as the last reset day, in one transaction.
// Idempotent: a second run with no intervening usage touches no user rows.
func (s *ResetScheduler) ResetDailyUsage() (int64, error) {
	var affected int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("used_chars_today > 0").
			Update("used_chars_today", 0)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"last_run": s.today()}),
		}).Create(&models.SchedulerState{
			Name:    dailyResetStateName,
			LastRun: s.today(),
		}).Error
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func (s *ResetScheduler) loadLastDay() string {
	var state models.SchedulerState
	if err := s.db.Where("name = ?", dailyResetStateName).First(&state).Error; err != nil {
		return ""
	}
	return state.LastRun
}

func (s *ResetScheduler) today() string {
	return time.Now().In(s.loc).Format("2006-01-02")
}
