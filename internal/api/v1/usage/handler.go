package usage

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"prfaq-backend/internal/services"
	"prfaq-backend/internal/utils"
)

type Handler struct {
	billing *services.BillingService
}

func NewHandler(billing *services.BillingService) *Handler {
	return &Handler{billing: billing}
}

// ReportUsage godoc
// @Summary Report a completed generation
// @Description Record one billable generation event: debit points, write the bill and advance the usage counters. Called by the content pipeline after generation completes.
// @Tags usage
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body ReportInput true "Completed generation event"
// @Success 201 {object} utils.Response{data=BillResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 402 {object} utils.Response "Insufficient points"
// @Failure 429 {object} utils.Response "Daily quota exceeded"
// @Failure 500 {object} utils.Response
// @Router /usage/report [post]
func (h *Handler) ReportUsage(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input ReportInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	bill, err := h.billing.RecordUsage(userID, input.APIName, input.Operation, input.InputChars, input.OutputChars, input.Metadata)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		case errors.Is(err, services.ErrQuotaExceeded):
			c.JSON(http.StatusTooManyRequests, utils.NewErrorResponse(http.StatusTooManyRequests, err.Error()))
		case errors.Is(err, services.ErrInsufficientBalance):
			c.JSON(http.StatusPaymentRequired, utils.NewErrorResponse(http.StatusPaymentRequired, err.Error()))
		default:
			// The generated content stays unbilled; the caller must not treat
			// the generation as complete.
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Billing failed"))
		}
		return
	}

	c.JSON(http.StatusCreated, utils.NewSuccessResponse("Usage recorded successfully", BillResponse{
		ID:          bill.ID,
		CreatedAt:   bill.CreatedAt,
		APIName:     bill.APIName,
		Operation:   bill.Operation,
		InputChars:  bill.InputChars,
		OutputChars: bill.OutputChars,
		Cost:        bill.Cost,
		PointsCost:  bill.PointsCost,
	}))
}
