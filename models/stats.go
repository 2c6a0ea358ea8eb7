// models/stats.go
package models

import "time"

// CountedValue is one entry of a frequency count. Entries are kept in
// first-seen table order so the ordering is part of the contract.
type CountedValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TimeStats holds the most frequent travel times of a table.
type TimeStats struct {
	MostCommonMonth     string        `json:"most_common_month"`
	MostCommonDayOfWeek string        `json:"most_common_day_of_week"`
	MostCommonStartHour int           `json:"most_common_start_hour"`
	Elapsed             time.Duration `json:"-"`
}

// StationStats holds the most popular stations and trip of a table.
type StationStats struct {
	MostCommonStartStation string        `json:"most_common_start_station"`
	MostCommonEndStation   string        `json:"most_common_end_station"`
	MostCommonTrip         string        `json:"most_common_trip"` // "start to end"
	Elapsed                time.Duration `json:"-"`
}

// DurationStats holds total and mean trip duration in seconds.
// TotalSeconds is defined for every table (0 when empty); Mean is nil
// when the table is empty, since a zero mean would be indistinguishable
// from a real zero-duration dataset.
type DurationStats struct {
	TotalSeconds float64       `json:"total_seconds"`
	Mean         *float64      `json:"mean_seconds,omitempty"`
	Elapsed      time.Duration `json:"-"`
}

// BirthYearStats holds the rider birth-year aggregates, as integer years.
type BirthYearStats struct {
	Earliest   int `json:"earliest"`
	MostRecent int `json:"most_recent"`
	MostCommon int `json:"most_common"`
}

// UserStats holds the rider demographics of a table. GenderCounts and
// BirthYears are omitted entirely when the dataset lacks those columns.
type UserStats struct {
	UserTypeCounts []CountedValue  `json:"user_type_counts"`
	GenderCounts   []CountedValue  `json:"gender_counts,omitempty"`
	BirthYears     *BirthYearStats `json:"birth_years,omitempty"`
	Elapsed        time.Duration   `json:"-"`
}
