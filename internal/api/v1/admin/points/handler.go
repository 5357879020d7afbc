package points

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"prfaq-backend/internal/models"
	"prfaq-backend/internal/services"
	"prfaq-backend/internal/utils"
)

type Handler struct {
	ledger *services.LedgerService
	txs    *services.TransactionService
}

func NewHandler(ledger *services.LedgerService, txs *services.TransactionService) *Handler {
	return &Handler{ledger: ledger, txs: txs}
}

func operatorName(c *gin.Context) string {
	if op := c.GetString("operator"); op != "" {
		return op
	}
	return "admin"
}

// Credit godoc
// @Summary Credit points to a user
// @Description Add points to a user's balance with a mandatory reason. Always recorded as type 'admin'.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body AdjustInput true "Credit Input"
// @Success 200 {object} utils.Response{data=AdjustResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/points/credit [post]
func (h *Handler) Credit(c *gin.Context) {
	var input AdjustInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	entry, err := h.ledger.Credit(input.UserID, input.Amount, models.TransactionTypeAdmin, input.Reason, operatorName(c))
	if err != nil {
		h.writeAdjustError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Points credited successfully", AdjustResponse{
		TransactionID: entry.ID,
		Amount:        entry.Amount,
		Balance:       entry.Balance,
	}))
}

// Debit godoc
// @Summary Debit points from a user
// @Description Remove points from a user's balance with a mandatory reason. Fails without mutation when the balance does not cover the amount.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body AdjustInput true "Debit Input"
// @Success 200 {object} utils.Response{data=AdjustResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response "Insufficient balance"
// @Failure 500 {object} utils.Response
// @Router /admin/points/debit [post]
func (h *Handler) Debit(c *gin.Context) {
	var input AdjustInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	entry, err := h.ledger.Debit(input.UserID, input.Amount, models.TransactionTypeAdmin, input.Reason, operatorName(c))
	if err != nil {
		h.writeAdjustError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Points debited successfully", AdjustResponse{
		TransactionID: entry.ID,
		Amount:        entry.Amount,
		Balance:       entry.Balance,
	}))
}

func (h *Handler) writeAdjustError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
	case errors.Is(err, services.ErrInsufficientBalance):
		c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to adjust points"))
	}
}

// ListTransactions godoc
// @Summary List ledger entries
// @Description Get a paginated list of ledger entries with filtering. Admin only.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param user_id query int false "Filter by user ID"
// @Param type query string false "Filter by transaction type"
// @Param start_time query string false "Filter by start time (RFC3339)"
// @Param end_time query string false "Filter by end time (RFC3339)"
// @Param min_amount query int false "Filter by minimum amount"
// @Param max_amount query int false "Filter by maximum amount"
// @Success 200 {object} utils.Response{data=TransactionListResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid page number"))
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid limit number"))
		return
	}

	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	filter.Page = page
	filter.Limit = limit

	transactions, total, err := h.txs.FindTransactions(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch transactions"))
		return
	}

	items := make([]TransactionListItem, 0, len(transactions))
	for _, t := range transactions {
		items = append(items, TransactionListItem{
			ID:          t.ID,
			CreatedAt:   t.CreatedAt,
			UserID:      t.UserID,
			Type:        t.Type,
			Amount:      t.Amount,
			Balance:     t.Balance,
			Description: t.Description,
			Operator:    t.Operator,
			BillID:      t.BillID,
			Hash:        t.Hash,
		})
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Transactions retrieved successfully", TransactionListResponse{
		Transactions: items,
		Total:        total,
		Page:         page,
		Limit:        limit,
	}))
}

// ExportTransactions godoc
// @Summary Export ledger entries
// @Description Export ledger entries to CSV. Admin only.
// @Tags admin
// @Produce text/csv
// @Security ApiKeyAuth
// @Param user_id query int false "Filter by user ID"
// @Param type query string false "Filter by transaction type"
// @Param start_time query string false "Filter by start time (RFC3339)"
// @Param end_time query string false "Filter by end time (RFC3339)"
// @Success 200 {string} string "CSV content"
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/transactions/export [get]
func (h *Handler) ExportTransactions(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	filter.Page = 1
	filter.Limit = 10000 // Hard limit for safety

	transactions, _, err := h.txs.FindTransactions(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch transactions"))
		return
	}

	csvContent, err := h.txs.GenerateTransactionCSV(transactions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to generate CSV"))
		return
	}

	filename := fmt.Sprintf("transactions_%s.csv", time.Now().Format("20060102150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", csvContent)
}

func parseFilter(c *gin.Context) (services.TransactionFilter, bool) {
	var filter services.TransactionFilter

	if userIDStr, exists := c.GetQuery("user_id"); exists {
		userID, err := strconv.Atoi(userIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid user_id"))
			return filter, false
		}
		uid := uint(userID)
		filter.UserID = &uid
	}

	if typeStr, exists := c.GetQuery("type"); exists {
		t := models.TransactionType(typeStr)
		filter.Type = &t
	}

	if startTimeStr, exists := c.GetQuery("start_time"); exists {
		startTime, err := time.Parse(time.RFC3339, startTimeStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid start_time format"))
			return filter, false
		}
		filter.StartTime = &startTime
	}

	if endTimeStr, exists := c.GetQuery("end_time"); exists {
		endTime, err := time.Parse(time.RFC3339, endTimeStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid end_time format"))
			return filter, false
		}
		filter.EndTime = &endTime
	}

	if minAmountStr, exists := c.GetQuery("min_amount"); exists {
		minAmount, err := strconv.ParseInt(minAmountStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid min_amount"))
			return filter, false
		}
		filter.MinAmount = &minAmount
	}

	if maxAmountStr, exists := c.GetQuery("max_amount"); exists {
		maxAmount, err := strconv.ParseInt(maxAmountStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid max_amount"))
			return filter, false
		}
		filter.MaxAmount = &maxAmount
	}

	return filter, true
}
