package models

import (
	"time"

	"gorm.io/datatypes"
)

// Bill is the immutable record of one billable generation event. Every Bill
// has exactly one consume PointTransaction with Amount = -PointsCost; neither
// row may exist without the other.
type Bill struct {
	ID          uint      `gorm:"primarykey"`
	CreatedAt   time.Time `gorm:"precision:3"`
	UserID      uint      `gorm:"index;not null"`
	APIName     string    `gorm:"type:varchar(100);not null"`
	Operation   string    `gorm:"type:varchar(100);not null"`
	InputChars  int64     `gorm:"not null"`
	OutputChars int64     `gorm:"not null"`
	Cost        float64   `gorm:"type:decimal(20,8);not null"`
	PointsCost  int64     `gorm:"not null"` // input + output chars, 1 char = 1 point

	// Extra fields reported by the content pipeline (model name, doc id...)
	Metadata datatypes.JSON
}
