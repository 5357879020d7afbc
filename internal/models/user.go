package models

import "time"

type User struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null" json:"-"`
	Role      string `gorm:"not null;default:'user'"`

	// Points is the current balance. It must always equal the Balance
	// snapshot of the user's most recent PointTransaction and must never go
	// negative; only the ledger and billing services may write it.
	Points int64 `gorm:"not null;default:0"`

	// Daily character quota. UsedCharsToday is zeroed by the reset scheduler
	// once per calendar day.
	DailyCharsLimit int64 `gorm:"not null;default:100000"`
	UsedCharsToday  int64 `gorm:"not null;default:0"`

	// LastBonusDay is the calendar day (2006-01-02) of the most recent
	// daily login credit. Claiming is a conditional update on this column,
	// so a day can never produce two credits.
	LastBonusDay string `gorm:"type:varchar(10);not null;default:''"`

	// Lifetime counters, advanced by the billing service.
	TotalChars int64   `gorm:"not null;default:0"`
	TotalCost  float64 `gorm:"type:decimal(20,8);not null;default:0"`

	IsActive bool `gorm:"not null;default:true"`
	Version  int  `gorm:"default:1"`
}
