package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple field", "fullName", "full_name"},
		{"three words", "membershipStartDate", "membership_start_date"},
		{"already lowercase", "notes", "notes"},
		{"acronym gets one underscore per letter", "profilePictureURL", "profile_picture_u_r_l"},
		{"single letter suffix", "planB", "plan_b"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToSnakeCase(tt.input))
		})
	}
}

func TestFieldsOrdering(t *testing.T) {
	fields := (&Fields{}).
		Set("fullName", "Aigerim").
		SetIf(false, "email", "skipped@example.com").
		SetIf(true, "phoneNumber", "+77010000000").
		Set("notes", nil)

	assert.Equal(t, 3, fields.Len())
	assert.Equal(t, []interface{}{"Aigerim", "+77010000000", nil}, fields.Values())
}

func TestBuildInsertQuery(t *testing.T) {
	t.Run("columns and placeholders follow insertion order", func(t *testing.T) {
		fields := (&Fields{}).
			Set("fullName", "Aigerim").
			Set("phoneNumber", "+77010000000").
			Set("membershipType", "GOLD")

		query, args, err := BuildInsertQuery("customers", fields)

		assert.NoError(t, err)
		assert.Equal(t,
			`INSERT INTO "public"."customers" (full_name, phone_number, membership_type) VALUES ($1, $2, $3) RETURNING *`,
			query)
		assert.Equal(t, []interface{}{"Aigerim", "+77010000000", "GOLD"}, args)
	})

	t.Run("zero fields is an error, never invalid SQL", func(t *testing.T) {
		query, args, err := BuildInsertQuery("customers", &Fields{})

		assert.ErrorIs(t, err, ErrNoFields)
		assert.Empty(t, query)
		assert.Nil(t, args)
	})

	t.Run("nil fields is an error", func(t *testing.T) {
		_, _, err := BuildInsertQuery("customers", nil)
		assert.ErrorIs(t, err, ErrNoFields)
	})
}

func TestBuildUpdateQuery(t *testing.T) {
	t.Run("key value takes the final placeholder", func(t *testing.T) {
		fields := (&Fields{}).
			Set("membershipStatus", "FROZEN").
			Set("notes", "paused for summer")

		query, args, err := BuildUpdateQuery("customers", fields, "", int64(42))

		assert.NoError(t, err)
		assert.Equal(t,
			`UPDATE "public"."customers" SET membership_status = $1, notes = $2, updated_at = CURRENT_TIMESTAMP WHERE customer_id = $3 RETURNING *`,
			query)
		assert.Equal(t, []interface{}{"FROZEN", "paused for summer", int64(42)}, args)
	})

	t.Run("explicit findBy column overrides the primary key", func(t *testing.T) {
		fields := (&Fields{}).Set("salary", 250000.0)

		query, args, err := BuildUpdateQuery("user_profiles", fields, "user_id", int64(7))

		assert.NoError(t, err)
		assert.Contains(t, query, "WHERE user_id = $2")
		assert.Equal(t, []interface{}{250000.0, int64(7)}, args)
	})

	t.Run("zero fields is an error", func(t *testing.T) {
		_, _, err := BuildUpdateQuery("customers", &Fields{}, "", int64(1))
		assert.ErrorIs(t, err, ErrNoFields)
	})

	t.Run("unknown table without findBy is an error", func(t *testing.T) {
		fields := (&Fields{}).Set("name", "x")
		_, _, err := BuildUpdateQuery("unknown_table", fields, "", int64(1))
		assert.Error(t, err)
	})
}
