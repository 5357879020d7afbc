package models

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

type TransactionType string

const (
	TransactionTypeReward     TransactionType = "reward"
	TransactionTypeConsume    TransactionType = "consume"
	TransactionTypeAdmin      TransactionType = "admin"
	TransactionTypeDailyLogin TransactionType = "daily_login"
)

// PointTransaction is one entry in the append-only points ledger. Entries are
// immutable once written: for a user ordered by time, each Balance equals the
// previous Balance plus Amount, and the last Balance equals User.Points.
type PointTransaction struct {
	ID          uint            `gorm:"primarykey"`
	CreatedAt   time.Time       `gorm:"precision:3"` // Millisecond precision
	UserID      uint            `gorm:"index;not null"`
	Type        TransactionType `gorm:"type:varchar(20);index;not null"`
	Amount      int64           `gorm:"not null"` // signed; negative for debits
	Balance     int64           `gorm:"not null"` // User.Points right after applying this entry
	Description string          `gorm:"type:text"`
	Operator    string          `gorm:"type:varchar(100)"` // username or 'system'
	BillID      *uint           `gorm:"index"`             // set for consume entries created by billing
	Hash        string          `gorm:"type:varchar(64);default:''"` // HMAC SHA256
}

// GenerateHash generates a tamper-proof hash for the transaction
func (t *PointTransaction) GenerateHash(secret string) string {
	var billID uint
	if t.BillID != nil {
		billID = *t.BillID
	}
	data := fmt.Sprintf("%d|%d|%d|%d|%s|%s|%s|%d",
		t.UserID, t.CreatedAt.UnixNano(), t.Amount, t.Balance,
		t.Type, t.Description, t.Operator, billID)

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
