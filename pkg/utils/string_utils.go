package utils

// NewNullString maps an empty string to nil so optional text fields land as
// NULL in the database instead of empty strings.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
