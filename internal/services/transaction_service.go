package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"gorm.io/gorm"

	"prfaq-backend/internal/models"
)

// TransactionFilter defines criteria for filtering ledger entries
type TransactionFilter struct {
	UserID    *uint
	Type      *models.TransactionType
	StartTime *time.Time
	EndTime   *time.Time
	MinAmount *int64
	MaxAmount *int64
	Page      int
	Limit     int
}

// TransactionService is the read side of the ledger: filtered history for the
// admin console and per-user point history for the UI.
type TransactionService struct {
	db *gorm.DB
}

func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{db: db}
}

// FindTransactions retrieves a paginated list of ledger entries with filtering
func (s *TransactionService) FindTransactions(filter TransactionFilter) ([]models.PointTransaction, int64, error) {
	var transactions []models.PointTransaction
	var total int64

	query := s.db.Model(&models.PointTransaction{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.StartTime != nil {
		query = query.Where("created_at >= ?", *filter.StartTime)
	}
	if filter.EndTime != nil {
		query = query.Where("created_at <= ?", *filter.EndTime)
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("created_at desc").Limit(filter.Limit).Offset(offset).Find(&transactions).Error; err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

// GetPointsHistory returns one user's ledger entries, newest first.
func (s *TransactionService) GetPointsHistory(userID uint, page, limit int) ([]models.PointTransaction, int64, error) {
	return s.FindTransactions(TransactionFilter{
		UserID: &userID,
		Page:   page,
		Limit:  limit,
	})
}

// GenerateTransactionCSV generates a CSV file content for ledger entries
func (s *TransactionService) GenerateTransactionCSV(transactions []models.PointTransaction) ([]byte, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	// Write header
	header := []string{
		"ID", "Time", "User ID", "Type", "Amount",
		"Balance", "Description", "Operator", "Bill ID", "Hash",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	// Write data
	for _, t := range transactions {
		billID := ""
		if t.BillID != nil {
			billID = fmt.Sprintf("%d", *t.BillID)
		}
		record := []string{
			fmt.Sprintf("%d", t.ID),
			t.CreatedAt.Format(time.RFC3339Nano),
			fmt.Sprintf("%d", t.UserID),
			string(t.Type),
			fmt.Sprintf("%d", t.Amount),
			fmt.Sprintf("%d", t.Balance),
			t.Description,
			t.Operator,
			billID,
			t.Hash,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}
