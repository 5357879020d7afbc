package points

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"prfaq-backend/internal/services"
	"prfaq-backend/internal/utils"
)

type Handler struct {
	ledger *services.LedgerService
	quota  *services.QuotaService
	txs    *services.TransactionService
}

func NewHandler(ledger *services.LedgerService, quota *services.QuotaService, txs *services.TransactionService) *Handler {
	return &Handler{ledger: ledger, quota: quota, txs: txs}
}

// GetBalance godoc
// @Summary Get point balance
// @Description Get the authenticated user's current point balance
// @Tags points
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=BalanceResponse}
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /points/balance [get]
func (h *Handler) GetBalance(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	balance, err := h.ledger.Balance(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch balance"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Balance retrieved successfully", BalanceResponse{Points: balance}))
}

// GetHistory godoc
// @Summary Get points history
// @Description Get the authenticated user's ledger entries, newest first
// @Tags points
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} utils.Response{data=HistoryResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /points/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

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

	transactions, total, err := h.txs.GetPointsHistory(userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch history"))
		return
	}

	items := make([]HistoryItem, 0, len(transactions))
	for _, t := range transactions {
		items = append(items, HistoryItem{
			ID:          t.ID,
			CreatedAt:   t.CreatedAt,
			Type:        t.Type,
			Amount:      t.Amount,
			Balance:     t.Balance,
			Description: t.Description,
			BillID:      t.BillID,
		})
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("History retrieved successfully", HistoryResponse{
		Transactions: items,
		Total:        total,
		Page:         page,
		Limit:        limit,
	}))
}

// GetUsage godoc
// @Summary Get usage summary
// @Description Get the authenticated user's cumulative usage and today's quota consumption
// @Tags points
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=services.UsageSummary}
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /points/usage [get]
func (h *Handler) GetUsage(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	summary, err := h.quota.GetUserTotalUsage(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch usage"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Usage retrieved successfully", summary))
}

// ClaimDailyBonus godoc
// @Summary Claim the daily login bonus
// @Description Credit the daily login reward. Succeeds at most once per calendar day.
// @Tags points
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=DailyBonusResponse}
// @Failure 401 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /points/daily-bonus [post]
func (h *Handler) ClaimDailyBonus(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	entry, err := h.ledger.DailyLoginBonus(userID)
	if err != nil {
		if errors.Is(err, services.ErrDailyBonusAlreadyClaimed) {
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to claim daily bonus"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Daily bonus claimed", DailyBonusResponse{
		Amount:  entry.Amount,
		Balance: entry.Balance,
	}))
}
