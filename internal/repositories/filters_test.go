package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string        { return &s }
func int64Ptr(i int64) *int64        { return &i }
func timePtr(t time.Time) *time.Time { return &t }

func TestPaymentFilterCompose(t *testing.T) {
	t.Run("empty filter yields no conditions", func(t *testing.T) {
		conditions, args, next := PaymentFilter{}.Compose(1)

		assert.Empty(t, conditions)
		assert.Empty(t, args)
		assert.Equal(t, 1, next)
	})

	t.Run("status only, with pagination appended by the caller", func(t *testing.T) {
		conditions, args, next := PaymentFilter{Status: strPtr("PENDING")}.Compose(1)

		assert.Equal(t, []string{"p.status = $1"}, conditions)
		assert.Equal(t, []interface{}{"PENDING"}, args)
		assert.Equal(t, 2, next)

		// page=2, limit=10 the way the paginated repositories consume the
		// composer output: LIMIT/OFFSET continue the shared numbering and
		// their args are [10, 10].
		page, limit := 2, 10
		pagination := fmt.Sprintf("LIMIT $%d OFFSET $%d", next, next+1)
		args = append(args, limit, (page-1)*limit)

		assert.Equal(t, "LIMIT $2 OFFSET $3", pagination)
		assert.Equal(t, []interface{}{"PENDING", 10, 10}, args)
	})

	t.Run("all filters share one monotonic placeholder index", func(t *testing.T) {
		from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
		month := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

		filter := PaymentFilter{
			Status:        strPtr("PENDING"),
			DateFrom:      timePtr(from),
			DateTo:        timePtr(to),
			CustomerID:    int64Ptr(5),
			UnpaidInMonth: timePtr(month),
		}
		conditions, args, next := filter.Compose(1)

		assert.Equal(t, []string{
			"p.status = $1",
			"p.payment_date >= $2",
			"p.payment_date <= $3",
			"p.customer_id = $4",
			"(p.status = 'PENDING' AND p.payment_date >= $5 AND p.payment_date < $6)",
		}, conditions)
		assert.Len(t, args, 6)
		assert.Equal(t, 7, next)
	})

	t.Run("unpaidInMonth expands to month bounds", func(t *testing.T) {
		month := time.Date(2026, 2, 15, 13, 0, 0, 0, time.UTC) // mid-month input

		conditions, args, _ := PaymentFilter{UnpaidInMonth: timePtr(month)}.Compose(1)

		assert.Equal(t, []string{"(p.status = 'PENDING' AND p.payment_date >= $1 AND p.payment_date < $2)"}, conditions)
		assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), args[0])
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), args[1])
	})

	t.Run("unpaidInMonth ANDs with an explicit status", func(t *testing.T) {
		// Documented edge case: status=COMPLETED plus unpaidInMonth composes
		// both predicates, so the conjunction can never match.
		month := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

		conditions, _, _ := PaymentFilter{
			Status:        strPtr("COMPLETED"),
			UnpaidInMonth: timePtr(month),
		}.Compose(1)

		assert.Contains(t, conditions, "p.status = $1")
		assert.Contains(t, conditions, "(p.status = 'PENDING' AND p.payment_date >= $2 AND p.payment_date < $3)")
	})
}

func TestCustomerFilterCompose(t *testing.T) {
	t.Run("unpaidThisMonth builds a NOT IN subquery over COMPLETED payments", func(t *testing.T) {
		conditions, args, next := CustomerFilter{UnpaidThisMonth: true}.Compose(1)

		assert.Len(t, conditions, 1)
		assert.Equal(t,
			"c.customer_id NOT IN (SELECT p.customer_id FROM payments p WHERE p.status = 'COMPLETED' AND p.payment_date >= $1 AND p.payment_date < $2)",
			conditions[0])
		assert.Equal(t, 3, next)

		// Bounds come from the server clock at compose time.
		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		assert.Equal(t, monthStart, args[0])
		assert.Equal(t, monthStart.AddDate(0, 1, 0), args[1])
	})

	t.Run("membership filters precede date filters", func(t *testing.T) {
		from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

		conditions, args, next := CustomerFilter{
			MembershipType: strPtr("GOLD"),
			Status:         strPtr("ACTIVE"),
			DateFrom:       timePtr(from),
		}.Compose(1)

		assert.Equal(t, []string{
			"c.membership_type = $1",
			"c.membership_status = $2",
			"c.created_at >= $3",
		}, conditions)
		assert.Equal(t, []interface{}{"GOLD", "ACTIVE", from}, args)
		assert.Equal(t, 4, next)
	})

	t.Run("blank strings are treated as absent", func(t *testing.T) {
		conditions, args, next := CustomerFilter{
			MembershipType: strPtr(""),
			Status:         strPtr(""),
		}.Compose(1)

		assert.Empty(t, conditions)
		assert.Empty(t, args)
		assert.Equal(t, 1, next)
	})
}

func TestAttendanceFilterCompose(t *testing.T) {
	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)

	filter := AttendanceFilter{
		OwnerColumn: "a.customer_id",
		OwnerID:     int64Ptr(9),
		Status:      strPtr("PRESENT"),
		DateFrom:    timePtr(from),
		DateTo:      timePtr(to),
	}
	conditions, args, next := filter.Compose(1)

	assert.Equal(t, []string{
		"a.customer_id = $1",
		"a.status = $2",
		"a.attendance_date >= $3",
		"a.attendance_date <= $4",
	}, conditions)
	assert.Equal(t, []interface{}{int64(9), "PRESENT", from, to}, args)
	assert.Equal(t, 5, next)
}

func TestMonthBounds(t *testing.T) {
	t.Run("december rolls into january", func(t *testing.T) {
		start, end := monthBounds(time.Date(2025, 12, 20, 10, 30, 0, 0, time.UTC))

		assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), end)
	})
}
