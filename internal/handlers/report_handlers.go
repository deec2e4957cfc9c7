package handlers

import (
	"net/http"

	"fitclub_backend/internal/models"
	"fitclub_backend/internal/services"
	"fitclub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves aggregated reporting endpoints.
type ReportHandler struct {
	paymentService services.PaymentService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(ps services.PaymentService) *ReportHandler {
	return &ReportHandler{paymentService: ps}
}

// GetSubscriptionReport returns per-customer monthly payment totals, optionally
// restricted to a date range.
func (h *ReportHandler) GetSubscriptionReport(c *gin.Context) {
	dateFrom, ok := queryDate(c, "dateFrom")
	if !ok {
		return
	}
	dateTo, ok := queryDate(c, "dateTo")
	if !ok {
		return
	}

	rows, err := h.paymentService.GetSubscriptionReport(dateFrom, dateTo)
	if err != nil {
		utils.LogError(err, "GetSubscriptionReport: Error from paymentService.GetSubscriptionReport")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build subscription report.", "Internal error"))
		return
	}

	if rows == nil {
		rows = []models.SubscriptionReportRow{}
	}
	listResponse(c, rows, len(rows))
}
