package points

import (
	"time"

	"prfaq-backend/internal/models"
)

type BalanceResponse struct {
	Points int64 `json:"points"`
}

type HistoryItem struct {
	ID          uint                   `json:"id"`
	CreatedAt   time.Time              `json:"created_at"`
	Type        models.TransactionType `json:"type"`
	Amount      int64                  `json:"amount"`
	Balance     int64                  `json:"balance"`
	Description string                 `json:"description"`
	BillID      *uint                  `json:"bill_id,omitempty"`
}

type HistoryResponse struct {
	Transactions []HistoryItem `json:"transactions"`
	Total        int64         `json:"total"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
}

type DailyBonusResponse struct {
	Amount  int64 `json:"amount"`
	Balance int64 `json:"balance"`
}
