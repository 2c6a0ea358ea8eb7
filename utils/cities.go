// utils/cities.go
package utils

import "strings"

// NormalizeCityKey lowercases a city name, trims it and collapses runs of
// whitespace (e.g. "  New  York City " -> "new york city") so user input
// matches the configured city keys.
func NormalizeCityKey(city string) string {
	return strings.ToLower(strings.Join(strings.Fields(city), " "))
}
