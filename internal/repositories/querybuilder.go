package repositories

import (
	"fmt"
	"strings"
	"unicode"
)

// ToSnakeCase converts a lowerCamelCase field name to its lower_snake_case
// column name: one underscore is inserted before each uppercase letter, which
// is then lowercased. Acronym fields are not special-cased.
func ToSnakeCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Fields is an ordered list of field name/value pairs for dynamic INSERT and
// UPDATE statements. Callers add only the fields that were actually supplied;
// column names are derived from the declared field names via ToSnakeCase, never
// from client-provided strings.
type Fields struct {
	names  []string
	values []interface{}
}

// Set appends a field in declaration order and returns the receiver for chaining.
func (f *Fields) Set(name string, value interface{}) *Fields {
	f.names = append(f.names, name)
	f.values = append(f.values, value)
	return f
}

// SetIf appends the field only when present is true.
func (f *Fields) SetIf(present bool, name string, value interface{}) *Fields {
	if present {
		f.Set(name, value)
	}
	return f
}

// Len reports the number of fields added so far.
func (f *Fields) Len() int {
	return len(f.names)
}

// Values returns the field values in the same order the columns are emitted.
func (f *Fields) Values() []interface{} {
	return f.values
}

// primaryKeys maps table names to the column BuildUpdateQuery keys on when no
// explicit findBy column is given.
var primaryKeys = map[string]string{
	"customers":           "customer_id",
	"users":               "user_id",
	"user_profiles":       "profile_id",
	"payments":            "payment_id",
	"customer_attendance": "attendance_id",
	"staff_attendance":    "attendance_id",
	"products":            "product_id",
	"sessions":            "session_id",
}

// BuildInsertQuery produces a parameterized INSERT statement for the given
// table and the argument list matching its placeholders. The statement returns
// the inserted row.
func BuildInsertQuery(table string, fields *Fields) (string, []interface{}, error) {
	if fields == nil || fields.Len() == 0 {
		return "", nil, fmt.Errorf("%w: insert into %s", ErrNoFields, table)
	}

	columns := make([]string, 0, fields.Len())
	placeholders := make([]string, 0, fields.Len())
	for i, name := range fields.names {
		columns = append(columns, ToSnakeCase(name))
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
	}

	query := fmt.Sprintf(`INSERT INTO "public"."%s" (%s) VALUES (%s) RETURNING *`,
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	return query, fields.Values(), nil
}

// BuildUpdateQuery produces a parameterized UPDATE statement keyed on findBy
// (the table's primary key when findBy is empty). updated_at is always set to
// CURRENT_TIMESTAMP without consuming a parameter slot; the key value is the
// final parameter.
func BuildUpdateQuery(table string, fields *Fields, findBy string, keyValue interface{}) (string, []interface{}, error) {
	if fields == nil || fields.Len() == 0 {
		return "", nil, fmt.Errorf("%w: update of %s", ErrNoFields, table)
	}
	if findBy == "" {
		pk, ok := primaryKeys[table]
		if !ok {
			return "", nil, fmt.Errorf("no primary key registered for table %s", table)
		}
		findBy = pk
	}

	assignments := make([]string, 0, fields.Len()+1)
	for i, name := range fields.names {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", ToSnakeCase(name), i+1))
	}
	assignments = append(assignments, "updated_at = CURRENT_TIMESTAMP")

	query := fmt.Sprintf(`UPDATE "public"."%s" SET %s WHERE %s = $%d RETURNING *`,
		table, strings.Join(assignments, ", "), findBy, fields.Len()+1)

	args := append(append([]interface{}{}, fields.Values()...), keyValue)
	return query, args, nil
}
