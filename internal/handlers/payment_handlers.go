package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fitclub_backend/internal/models"
	"fitclub_backend/internal/repositories"
	"fitclub_backend/internal/services"
	"fitclub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PaymentHandler holds the payment service.
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ps services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: ps}
}

// CreatePayment records a payment for a customer. A repeated submission for
// the same customer and calendar month updates the existing row.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req services.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreatePayment: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	payment, err := h.paymentService.CreateOrUpdatePayment(req)
	if err != nil {
		utils.LogError(err, "CreatePayment: Error from paymentService.CreateOrUpdatePayment")
		if errors.Is(err, services.ErrCustomerNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Customer not found.", err.Error()))
		} else if errors.Is(err, services.ErrPaymentValidation) || errors.Is(err, services.ErrInvalidPaymentStatus) || errors.Is(err, services.ErrDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to record payment.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// GetPayments handles fetching payments with pagination and filters.
func (h *PaymentHandler) GetPayments(c *gin.Context) {
	page, limit, ok := parsePagination(c)
	if !ok {
		return
	}

	dateFrom, ok := queryDate(c, "dateFrom")
	if !ok {
		return
	}
	dateTo, ok := queryDate(c, "dateTo")
	if !ok {
		return
	}

	var customerID *int64
	if v := c.Query("customerId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid customerId parameter.", err.Error()))
			return
		}
		customerID = &id
	}

	var unpaidInMonth *time.Time
	if v := c.Query("unpaidInMonth"); v != "" {
		month, err := time.Parse("2006-01", v)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid unpaidInMonth, expected YYYY-MM.", err.Error()))
			return
		}
		unpaidInMonth = &month
	}

	filter := repositories.PaymentFilter{
		Status:        queryString(c, "status"),
		DateFrom:      dateFrom,
		DateTo:        dateTo,
		CustomerID:    customerID,
		UnpaidInMonth: unpaidInMonth,
	}

	payments, totalItems, err := h.paymentService.GetPayments(page, limit, filter)
	if err != nil {
		utils.LogError(err, "GetPayments: Error from paymentService.GetPayments")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch payments.", "Internal error"))
		return
	}

	if payments == nil {
		payments = []models.Payment{}
	}
	listResponse(c, payments, totalItems)
}

// UpdatePayment handles updating a payment row by ID.
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdatePayment: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	payment, err := h.paymentService.UpdatePayment(paymentID, req)
	if err != nil {
		utils.LogError(err, "UpdatePayment: Error from paymentService.UpdatePayment")
		if errors.Is(err, services.ErrPaymentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Payment not found.", err.Error()))
		} else if errors.Is(err, services.ErrPaymentValidation) || errors.Is(err, services.ErrInvalidPaymentStatus) || errors.Is(err, services.ErrDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update payment.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, payment)
}

// DeletePayment handles deleting a payment row by ID.
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.paymentService.DeletePayment(paymentID); err != nil {
		utils.LogError(err, "DeletePayment: Error deleting payment "+utils.Int64ToStr(paymentID))
		if errors.Is(err, services.ErrPaymentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Payment not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete payment.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted successfully"})
}
