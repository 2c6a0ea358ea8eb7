// models/errors.go
package models

import "fmt"

// ConfigurationError signals a city identifier with no configured data
// source. Fatal to the request; the caller re-prompts or aborts.
type ConfigurationError struct {
	City string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unknown city %q: no data source configured", e.City)
}

// DataFormatError signals a malformed record encountered during load.
// Record is the 1-based data-record number (header line excluded).
// No partial table is returned alongside this error.
type DataFormatError struct {
	Record int
	Field  string
	Value  string
	Err    error
}

func (e *DataFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("record %d: bad %s value %q: %v", e.Record, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("record %d: bad %s value %q", e.Record, e.Field, e.Value)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

// InvalidFilterError signals a filter value outside the recognized set.
// Kind is "month" or "day". The core never falls back to "all".
type InvalidFilterError struct {
	Kind  string
	Value string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid %s filter %q", e.Kind, e.Value)
}

// NoDataError signals that a statistic has no defined value because the
// table is empty after filtering. Recoverable: other statistic groups
// that remain well-defined still produce results.
type NoDataError struct {
	Stat string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no data to compute %s", e.Stat)
}
