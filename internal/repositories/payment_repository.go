package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitclub_backend/internal/models"

	"github.com/lib/pq"
)

// PaymentRepository defines the interface for payment-related database operations.
type PaymentRepository interface {
	UpsertMonthlyPayment(executor SQLExecutor, payment *models.Payment, fields *Fields) (*models.Payment, error)
	GetPaymentByID(id int64) (*models.Payment, error)
	GetPayments(page, pageSize int, filter PaymentFilter) ([]models.Payment, int, error)
	UpdatePayment(executor SQLExecutor, id int64, fields *Fields) (*models.Payment, error)
	DeletePayment(executor SQLExecutor, id int64) error
	GetSubscriptionReport(dateFrom, dateTo *time.Time) ([]models.SubscriptionReportRow, error)
}

type paymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `payment_id, customer_id, amount, payment_date, payment_method, payment_type,
	status, invoice_number, receipt_number, transaction_reference, notes, created_at, updated_at`

func scanPayment(row scanner) (*models.Payment, error) {
	var p models.Payment
	var method, ptype, invoice, receipt, txRef, notes sql.NullString

	err := row.Scan(
		&p.PaymentID, &p.CustomerID, &p.Amount, &p.PaymentDate, &method, &ptype,
		&p.Status, &invoice, &receipt, &txRef, &notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if method.Valid {
		p.PaymentMethod = &method.String
	}
	if ptype.Valid {
		p.PaymentType = &ptype.String
	}
	if invoice.Valid {
		p.InvoiceNumber = &invoice.String
	}
	if receipt.Valid {
		p.ReceiptNumber = &receipt.String
	}
	if txRef.Valid {
		p.TransactionReference = &txRef.String
	}
	if notes.Valid {
		p.Notes = &notes.String
	}
	return &p, nil
}

// paymentMonthConflict is the ON CONFLICT target of the monthly upsert. It
// must be byte-for-byte the expression of the payments_customer_month_key
// index in schema.sql, or PostgreSQL will not match the arbiter index.
// payment_date is a timestamp without time zone, which keeps date_trunc
// immutable and therefore indexable.
const paymentMonthConflict = "(customer_id, date_trunc('month', payment_date))"

// buildMonthlyUpsertQuery assembles the INSERT ... ON CONFLICT statement for
// the given fields. Every supplied field except customer_id is overwritten on
// conflict; payment_date included — the conflict only fires when both rows
// fall in the same calendar month, so the overwrite cannot move the row.
func buildMonthlyUpsertQuery(fields *Fields) (string, error) {
	if fields == nil || fields.Len() == 0 {
		return "", fmt.Errorf("%w: upsert of payments", ErrNoFields)
	}

	columns := make([]string, 0, fields.Len())
	placeholders := make([]string, 0, fields.Len())
	assignments := make([]string, 0, fields.Len())
	for i, name := range fields.names {
		col := ToSnakeCase(name)
		columns = append(columns, col)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		if col != "customer_id" {
			assignments = append(assignments, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}
	assignments = append(assignments, "updated_at = CURRENT_TIMESTAMP")

	return fmt.Sprintf(`INSERT INTO "public"."payments" (%s) VALUES (%s)
	ON CONFLICT %s DO UPDATE SET %s
	RETURNING %s`,
		strings.Join(columns, ", "), strings.Join(placeholders, ", "),
		paymentMonthConflict, strings.Join(assignments, ", "), paymentColumns), nil
}

// UpsertMonthlyPayment inserts a payment or, when a row already exists for the
// same customer in the calendar month of payment_date, updates that row in
// place. Concurrent submissions for the same customer and month converge on a
// single row with no check-then-act window.
func (r *paymentRepository) UpsertMonthlyPayment(executor SQLExecutor, payment *models.Payment, fields *Fields) (*models.Payment, error) {
	query, err := buildMonthlyUpsertQuery(fields)
	if err != nil {
		return nil, err
	}

	upserted, err := scanPayment(executor.QueryRow(query, fields.Values()...))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: customer ID %d not found for payment", ErrNotFound, payment.CustomerID)
		}
		return nil, fmt.Errorf("%w: upserting payment for customer %d: %v", ErrDatabaseError, payment.CustomerID, err)
	}
	return upserted, nil
}

// GetPaymentByID retrieves a payment by its ID.
func (r *paymentRepository) GetPaymentByID(id int64) (*models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE payment_id = $1`, paymentColumns)
	payment, err := scanPayment(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting payment by ID %d: %v", ErrDatabaseError, id, err)
	}
	return payment, nil
}

// GetPayments retrieves one page of payments with the given filters, joined to
// the owning customer's name, plus the total matching count. The data and count
// queries run concurrently on the shared pool.
func (r *paymentRepository) GetPayments(page, pageSize int, filter PaymentFilter) ([]models.Payment, int, error) {
	conditions, args, argIdx := filter.Compose(1)

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM payments p" + whereClause
	countCh := runCount(r.db, countQuery, args)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT p.payment_id, p.customer_id, p.amount, p.payment_date, p.payment_method, p.payment_type,
	p.status, p.invoice_number, p.receipt_number, p.transaction_reference, p.notes, p.created_at, p.updated_at,
	c.full_name AS customer_name
	FROM payments p
	JOIN customers c ON p.customer_id = c.customer_id`)
	queryBuilder.WriteString(whereClause)
	queryBuilder.WriteString(" ORDER BY p.payment_date DESC, p.created_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1))
	pagedArgs := append(append([]interface{}{}, args...), pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), pagedArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying payments: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		var method, ptype, invoice, receipt, txRef, notes, customerName sql.NullString

		if err := rows.Scan(
			&p.PaymentID, &p.CustomerID, &p.Amount, &p.PaymentDate, &method, &ptype,
			&p.Status, &invoice, &receipt, &txRef, &notes, &p.CreatedAt, &p.UpdatedAt,
			&customerName,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning payment: %v", ErrDatabaseError, err)
		}

		if method.Valid {
			p.PaymentMethod = &method.String
		}
		if ptype.Valid {
			p.PaymentType = &ptype.String
		}
		if invoice.Valid {
			p.InvoiceNumber = &invoice.String
		}
		if receipt.Valid {
			p.ReceiptNumber = &receipt.String
		}
		if txRef.Valid {
			p.TransactionReference = &txRef.String
		}
		if notes.Valid {
			p.Notes = &notes.String
		}
		if customerName.Valid {
			p.CustomerName = &customerName.String
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating payment rows: %v", ErrDatabaseError, err)
	}

	count := <-countCh
	if count.err != nil {
		return nil, 0, fmt.Errorf("%w: counting payments: %v", ErrDatabaseError, count.err)
	}

	return payments, count.total, nil
}

// UpdatePayment applies a partial update built from the supplied fields.
func (r *paymentRepository) UpdatePayment(executor SQLExecutor, id int64, fields *Fields) (*models.Payment, error) {
	query, args, err := BuildUpdateQuery("payments", fields, "", id)
	if err != nil {
		return nil, err
	}
	query = strings.Replace(query, "RETURNING *", "RETURNING "+paymentColumns, 1)

	updated, err := scanPayment(executor.QueryRow(query, args...))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: updating payment ID %d: %v", ErrDatabaseError, id, err)
	}
	return updated, nil
}

// DeletePayment removes a payment from the database.
func (r *paymentRepository) DeletePayment(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM payments WHERE payment_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting payment ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting payment ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSubscriptionReport aggregates completed payments per customer per month,
// optionally bounded by payment_date. This feeds the subscription report the
// front end renders.
func (r *paymentRepository) GetSubscriptionReport(dateFrom, dateTo *time.Time) ([]models.SubscriptionReportRow, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT p.customer_id, c.full_name, to_char(date_trunc('month', p.payment_date), 'YYYY-MM') AS month,
	COALESCE(SUM(p.amount), 0) AS total_amount, COUNT(*) AS payment_count
	FROM payments p
	JOIN customers c ON p.customer_id = c.customer_id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	conditions = append(conditions, fmt.Sprintf("p.status = '%s'", models.PaymentCompleted))
	if dateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("p.payment_date >= $%d", argCount))
		args = append(args, *dateFrom)
		argCount++
	}
	if dateTo != nil {
		conditions = append(conditions, fmt.Sprintf("p.payment_date <= $%d", argCount))
		args = append(args, *dateTo)
		argCount++
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" GROUP BY p.customer_id, c.full_name, date_trunc('month', p.payment_date)")
	queryBuilder.WriteString(" ORDER BY month DESC, c.full_name ASC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying subscription report: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	report := []models.SubscriptionReportRow{}
	for rows.Next() {
		var row models.SubscriptionReportRow
		if err := rows.Scan(&row.CustomerID, &row.CustomerName, &row.Month, &row.TotalAmount, &row.PaymentCount); err != nil {
			return nil, fmt.Errorf("%w: scanning subscription report row: %v", ErrDatabaseError, err)
		}
		report = append(report, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating subscription report rows: %v", ErrDatabaseError, err)
	}
	return report, nil
}
