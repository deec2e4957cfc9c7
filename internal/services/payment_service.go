package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitclub_backend/internal/models"
	"fitclub_backend/internal/repositories"
)

// --- Custom Service Errors for Payment ---
var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentValidation    = errors.New("payment data validation error")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// --- Payment DTOs ---
type CreatePaymentRequest struct {
	CustomerID           int64    `json:"customerId" binding:"required"`
	Amount               float64  `json:"amount" binding:"required"`
	PaymentDate          *string  `json:"paymentDate"` // RFC3339 or YYYY-MM-DD; defaults to now
	PaymentMethod        *string  `json:"paymentMethod"`
	PaymentType          *string  `json:"paymentType"`
	Status               *string  `json:"status"`
	InvoiceNumber        *string  `json:"invoiceNumber"`
	ReceiptNumber        *string  `json:"receiptNumber"`
	TransactionReference *string  `json:"transactionReference"`
	Notes                *string  `json:"notes"`
}

type UpdatePaymentRequest struct {
	Amount               *float64 `json:"amount"`
	PaymentMethod        *string  `json:"paymentMethod"`
	PaymentType          *string  `json:"paymentType"`
	Status               *string  `json:"status"`
	InvoiceNumber        *string  `json:"invoiceNumber"`
	ReceiptNumber        *string  `json:"receiptNumber"`
	TransactionReference *string  `json:"transactionReference"`
	Notes                *string  `json:"notes"`
}

// --- PaymentService Interface ---
type PaymentService interface {
	// CreateOrUpdatePayment records a payment; a second submission for the same
	// customer in the same calendar month updates the existing row instead of
	// inserting a duplicate.
	CreateOrUpdatePayment(req CreatePaymentRequest) (*models.Payment, error)
	GetPaymentByID(paymentID int64) (*models.Payment, error)
	GetPayments(page, pageSize int, filter repositories.PaymentFilter) ([]models.Payment, int, error)
	UpdatePayment(paymentID int64, req UpdatePaymentRequest) (*models.Payment, error)
	DeletePayment(paymentID int64) error
	GetSubscriptionReport(dateFrom, dateTo *time.Time) ([]models.SubscriptionReportRow, error)
}

// --- paymentService Implementation ---
type paymentService struct {
	paymentRepo  repositories.PaymentRepository
	customerRepo repositories.CustomerRepository
	db           *sql.DB
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(pr repositories.PaymentRepository, cr repositories.CustomerRepository, db *sql.DB) PaymentService {
	return &paymentService{
		paymentRepo:  pr,
		customerRepo: cr,
		db:           db,
	}
}

var paymentStatuses = map[string]bool{
	models.PaymentCompleted: true,
	models.PaymentPending:   true,
	models.PaymentFailed:    true,
	models.PaymentRefunded:  true,
}

// parsePaymentDate normalizes the submitted date to UTC; payment_date is a
// timestamp without time zone holding UTC wall-clock values.
func parsePaymentDate(dateStr *string) (time.Time, error) {
	if dateStr == nil || *dateStr == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, *dateStr); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", *dateStr)
	if err != nil {
		return time.Time{}, ErrDateFormat
	}
	return t, nil
}

func (s *paymentService) CreateOrUpdatePayment(req CreatePaymentRequest) (*models.Payment, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrPaymentValidation)
	}

	status := models.PaymentCompleted
	if req.Status != nil && *req.Status != "" {
		if !paymentStatuses[*req.Status] {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPaymentStatus, *req.Status)
		}
		status = *req.Status
	}

	paymentDate, err := parsePaymentDate(req.PaymentDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.customerRepo.GetCustomerByID(req.CustomerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to validate customer for payment: %w", err)
	}

	payment := &models.Payment{
		CustomerID:  req.CustomerID,
		Amount:      req.Amount,
		PaymentDate: paymentDate,
		Status:      status,
	}

	fields := (&repositories.Fields{}).
		Set("customerId", req.CustomerID).
		Set("amount", req.Amount).
		Set("paymentDate", paymentDate).
		Set("status", status)
	fields.SetIf(req.PaymentMethod != nil, "paymentMethod", req.PaymentMethod).
		SetIf(req.PaymentType != nil, "paymentType", req.PaymentType).
		SetIf(req.InvoiceNumber != nil, "invoiceNumber", req.InvoiceNumber).
		SetIf(req.ReceiptNumber != nil, "receiptNumber", req.ReceiptNumber).
		SetIf(req.TransactionReference != nil, "transactionReference", req.TransactionReference).
		SetIf(req.Notes != nil, "notes", req.Notes)

	upserted, err := s.paymentRepo.UpsertMonthlyPayment(s.db, payment, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	return upserted, nil
}

func (s *paymentService) GetPaymentByID(paymentID int64) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetPaymentByID(paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment by ID: %w", err)
	}
	return payment, nil
}

func (s *paymentService) GetPayments(page, pageSize int, filter repositories.PaymentFilter) ([]models.Payment, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	payments, totalItems, err := s.paymentRepo.GetPayments(page, pageSize, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get payments: %w", err)
	}
	return payments, totalItems, nil
}

func (s *paymentService) UpdatePayment(paymentID int64, req UpdatePaymentRequest) (*models.Payment, error) {
	if _, err := s.GetPaymentByID(paymentID); err != nil {
		return nil, err
	}

	fields := &repositories.Fields{}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, fmt.Errorf("%w: amount must be positive", ErrPaymentValidation)
		}
		fields.Set("amount", *req.Amount)
	}
	if req.Status != nil {
		if !paymentStatuses[*req.Status] {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPaymentStatus, *req.Status)
		}
		fields.Set("status", *req.Status)
	}
	fields.SetIf(req.PaymentMethod != nil, "paymentMethod", req.PaymentMethod).
		SetIf(req.PaymentType != nil, "paymentType", req.PaymentType).
		SetIf(req.InvoiceNumber != nil, "invoiceNumber", req.InvoiceNumber).
		SetIf(req.ReceiptNumber != nil, "receiptNumber", req.ReceiptNumber).
		SetIf(req.TransactionReference != nil, "transactionReference", req.TransactionReference).
		SetIf(req.Notes != nil, "notes", req.Notes)

	if fields.Len() == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrPaymentValidation)
	}

	updated, err := s.paymentRepo.UpdatePayment(s.db, paymentID, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	return updated, nil
}

func (s *paymentService) DeletePayment(paymentID int64) error {
	err := s.paymentRepo.DeletePayment(s.db, paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPaymentNotFound
		}
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return nil
}

func (s *paymentService) GetSubscriptionReport(dateFrom, dateTo *time.Time) ([]models.SubscriptionReportRow, error) {
	report, err := s.paymentRepo.GetSubscriptionReport(dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("failed to build subscription report: %w", err)
	}
	return report, nil
}
