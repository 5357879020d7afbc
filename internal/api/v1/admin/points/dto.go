package points

import (
	"time"

	"prfaq-backend/internal/models"
)

type AdjustInput struct {
	UserID uint   `json:"user_id" binding:"required"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Reason string `json:"reason" binding:"required"`
}

type AdjustResponse struct {
	TransactionID uint  `json:"transaction_id"`
	Amount        int64 `json:"amount"`
	Balance       int64 `json:"balance"`
}

type TransactionListItem struct {
	ID          uint                   `json:"id"`
	CreatedAt   time.Time              `json:"created_at"`
	UserID      uint                   `json:"user_id"`
	Type        models.TransactionType `json:"type"`
	Amount      int64                  `json:"amount"`
	Balance     int64                  `json:"balance"`
	Description string                 `json:"description"`
	Operator    string                 `json:"operator"`
	BillID      *uint                  `json:"bill_id,omitempty"`
	Hash        string                 `json:"hash"`
}

type TransactionListResponse struct {
	Transactions []TransactionListItem `json:"transactions"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
}
