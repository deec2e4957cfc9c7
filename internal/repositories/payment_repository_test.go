package repositories

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMonthlyUpsertQuery(t *testing.T) {
	t.Run("merges every supplied field except customer_id on conflict", func(t *testing.T) {
		fields := (&Fields{}).
			Set("customerId", int64(7)).
			Set("amount", 150.0).
			Set("paymentDate", "2026-09-01").
			Set("status", "COMPLETED")

		query, err := buildMonthlyUpsertQuery(fields)
		require.NoError(t, err)

		assert.Contains(t, query, `INSERT INTO "public"."payments" (customer_id, amount, payment_date, status) VALUES ($1, $2, $3, $4)`)
		assert.Contains(t, query, "ON CONFLICT (customer_id, date_trunc('month', payment_date)) DO UPDATE SET")
		assert.Contains(t, query, "amount = EXCLUDED.amount")
		assert.Contains(t, query, "payment_date = EXCLUDED.payment_date")
		assert.Contains(t, query, "status = EXCLUDED.status")
		assert.Contains(t, query, "updated_at = CURRENT_TIMESTAMP")
		assert.NotContains(t, query, "customer_id = EXCLUDED.customer_id")
	})

	t.Run("returns ErrNoFields for an empty field set", func(t *testing.T) {
		_, err := buildMonthlyUpsertQuery(&Fields{})
		assert.ErrorIs(t, err, ErrNoFields)

		_, err = buildMonthlyUpsertQuery(nil)
		assert.ErrorIs(t, err, ErrNoFields)
	})
}

// The ON CONFLICT arbiter only matches when its expression is byte-for-byte
// the index expression, and the index is only creatable when date_trunc is
// immutable, which requires payment_date to be a timestamp without time zone.
func TestMonthConflictTargetMatchesSchema(t *testing.T) {
	schema, err := os.ReadFile("../database/schema.sql")
	require.NoError(t, err)
	ddl := string(schema)

	assert.Contains(t, ddl, "ON payments "+paymentMonthConflict,
		"payments_customer_month_key must use the repository's conflict expression")
	assert.Contains(t, ddl, "payment_date TIMESTAMP NOT NULL",
		"payment_date must be a timestamp without time zone")
	assert.False(t, strings.Contains(ddl, "payment_date TIMESTAMPTZ"),
		"a timestamptz payment_date would make the month index expression non-immutable")
}
