package utils

import "os"

// Getenv reads a configuration value from the environment. An unset or empty
// variable yields the fallback, so every setting has a usable default.
func Getenv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}
