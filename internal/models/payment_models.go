package models

import "time"

// Payment status values stored on payments.status.
const (
	PaymentCompleted = "COMPLETED"
	PaymentPending   = "PENDING"
	PaymentFailed    = "FAILED"
	PaymentRefunded  = "REFUNDED"
)

// Payment belongs to exactly one customer. At most one row exists per customer
// per calendar month, enforced by a unique index on
// (customer_id, date_trunc('month', payment_date)).
type Payment struct {
	PaymentID            int64     `json:"paymentId"`
	CustomerID           int64     `json:"customerId" binding:"required"`
	Amount               float64   `json:"amount"`
	PaymentDate          time.Time `json:"paymentDate"`
	PaymentMethod        *string   `json:"paymentMethod,omitempty"`
	PaymentType          *string   `json:"paymentType,omitempty"`
	Status               string    `json:"status"`
	InvoiceNumber        *string   `json:"invoiceNumber,omitempty"`
	ReceiptNumber        *string   `json:"receiptNumber,omitempty"`
	TransactionReference *string   `json:"transactionReference,omitempty"`
	Notes                *string   `json:"notes,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`

	// CustomerName is populated by list queries that join customers.
	CustomerName *string `json:"customerName,omitempty"`
}

// SubscriptionReportRow is one line of the monthly subscription report:
// per customer and month, the paid total and payment count.
type SubscriptionReportRow struct {
	CustomerID   int64   `json:"customerId"`
	CustomerName string  `json:"customerName"`
	Month        string  `json:"month"` // YYYY-MM
	TotalAmount  float64 `json:"totalAmount"`
	PaymentCount int     `json:"paymentCount"`
}
