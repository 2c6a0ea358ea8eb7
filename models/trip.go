// models/trip.go
package models

import (
	"strings"
	"time"
)

// TripRecord represents one normalized bikeshare trip. The loader and the
// trip store parse their raw rows field by field, so no mapping tags live
// here.
type TripRecord struct {
	StartTime    time.Time
	Duration     float64 // seconds
	StartStation string
	EndStation   string
	UserType     string

	// Optional columns. Present for all rows of a dataset or for none;
	// a blank cell in a present column leaves the zero value here.
	Gender    string
	BirthYear int

	// Calendar fields derived from StartTime once at load time.
	Month     string // lowercase full month name, e.g. "january"
	DayOfWeek string // lowercase full weekday name, e.g. "monday"
	Hour      int    // 0-23
}

// DeriveCalendarFields fills the month, day-of-week and hour fields from
// the record's start time. The names are full, lowercase and
// locale-independent so callers can use them directly as filter values.
// A pure function of StartTime; recomputing is idempotent.
func (r *TripRecord) DeriveCalendarFields() {
	r.Month = strings.ToLower(r.StartTime.Month().String())
	r.DayOfWeek = strings.ToLower(r.StartTime.Weekday().String())
	r.Hour = r.StartTime.Hour()
}

// Table is an ordered sequence of trip records in input-file order.
// HasGender and HasBirthYear are dataset-level properties, decided once
// from the source header and never re-derived per row.
type Table struct {
	City         string
	Records      []TripRecord
	HasGender    bool
	HasBirthYear bool
}

// Len returns the number of records in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}
