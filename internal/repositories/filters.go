package repositories

import (
	"fmt"
	"time"

	"fitclub_backend/internal/models"
)

// PaymentFilter holds the optional criteria of a payments listing.
// UnpaidInMonth is the start of a calendar month; when set it expands to a
// compound predicate (status PENDING and payment_date within that month).
type PaymentFilter struct {
	Status        *string
	DateFrom      *time.Time
	DateTo        *time.Time
	CustomerID    *int64
	UnpaidInMonth *time.Time
}

// Compose translates the present filters into WHERE conditions and positional
// parameters, continuing the placeholder numbering at argIdx. The payments
// table is aliased p. It returns the conditions, the args and the next free
// placeholder index.
//
// Note: combining UnpaidInMonth with an explicit Status yields the conjunction
// of both status predicates. status=COMPLETED together with unpaidInMonth can
// therefore never match; callers get an empty result rather than an error.
func (f PaymentFilter) Compose(argIdx int) ([]string, []interface{}, int) {
	var conditions []string
	var args []interface{}

	if f.Status != nil && *f.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}
	if f.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("p.payment_date >= $%d", argIdx))
		args = append(args, *f.DateFrom)
		argIdx++
	}
	if f.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("p.payment_date <= $%d", argIdx))
		args = append(args, *f.DateTo)
		argIdx++
	}
	if f.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("p.customer_id = $%d", argIdx))
		args = append(args, *f.CustomerID)
		argIdx++
	}
	if f.UnpaidInMonth != nil {
		monthStart, monthEnd := monthBounds(*f.UnpaidInMonth)
		conditions = append(conditions, fmt.Sprintf(
			"(p.status = '%s' AND p.payment_date >= $%d AND p.payment_date < $%d)",
			models.PaymentPending, argIdx, argIdx+1))
		args = append(args, monthStart, monthEnd)
		argIdx += 2
	}

	return conditions, args, argIdx
}

// CustomerFilter holds the optional criteria of a customers listing.
// UnpaidThisMonth selects customers without a COMPLETED payment in the current
// calendar month, computed from the server clock at compose time.
type CustomerFilter struct {
	MembershipType  *string
	Status          *string
	UnpaidThisMonth bool
	DateFrom        *time.Time
	DateTo          *time.Time
}

// Compose translates the present filters into WHERE conditions and positional
// parameters, continuing the placeholder numbering at argIdx. The customers
// table is aliased c.
func (f CustomerFilter) Compose(argIdx int) ([]string, []interface{}, int) {
	var conditions []string
	var args []interface{}

	if f.MembershipType != nil && *f.MembershipType != "" {
		conditions = append(conditions, fmt.Sprintf("c.membership_type = $%d", argIdx))
		args = append(args, *f.MembershipType)
		argIdx++
	}
	if f.Status != nil && *f.Status != "" {
		conditions = append(conditions, fmt.Sprintf("c.membership_status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}
	if f.UnpaidThisMonth {
		monthStart, monthEnd := monthBounds(time.Now())
		conditions = append(conditions, fmt.Sprintf(
			"c.customer_id NOT IN (SELECT p.customer_id FROM payments p WHERE p.status = '%s' AND p.payment_date >= $%d AND p.payment_date < $%d)",
			models.PaymentCompleted, argIdx, argIdx+1))
		args = append(args, monthStart, monthEnd)
		argIdx += 2
	}
	if f.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("c.created_at >= $%d", argIdx))
		args = append(args, *f.DateFrom)
		argIdx++
	}
	if f.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("c.created_at <= $%d", argIdx))
		args = append(args, *f.DateTo)
		argIdx++
	}

	return conditions, args, argIdx
}

// AttendanceFilter holds the optional criteria shared by the customer and
// staff attendance listings. OwnerColumn is the qualified owner FK column
// (a.customer_id or a.user_id).
type AttendanceFilter struct {
	OwnerColumn string
	OwnerID     *int64
	Status      *string
	DateFrom    *time.Time
	DateTo      *time.Time
}

// Compose translates the present filters into WHERE conditions and positional
// parameters, continuing the placeholder numbering at argIdx. The attendance
// table is aliased a.
func (f AttendanceFilter) Compose(argIdx int) ([]string, []interface{}, int) {
	var conditions []string
	var args []interface{}

	if f.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("%s = $%d", f.OwnerColumn, argIdx))
		args = append(args, *f.OwnerID)
		argIdx++
	}
	if f.Status != nil && *f.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}
	if f.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("a.attendance_date >= $%d", argIdx))
		args = append(args, *f.DateFrom)
		argIdx++
	}
	if f.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("a.attendance_date <= $%d", argIdx))
		args = append(args, *f.DateTo)
		argIdx++
	}

	return conditions, args, argIdx
}

// monthBounds returns the first instant of the month containing t and the
// first instant of the following month, in t's location.
func monthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}
