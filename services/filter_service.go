// services/filter_service.go
package services

import (
	"github.com/gewnthar/bikeshare/models"
)

// FilterAll is the sentinel value applying no filter.
const FilterAll = "all"

// ValidMonths lists the accepted month filter values, in calendar order.
var ValidMonths = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// ValidDays lists the accepted day-of-week filter values.
var ValidDays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

var (
	validMonthSet = toSet(ValidMonths)
	validDaySet   = toSet(ValidDays)
)

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// FilterTable keeps the rows matching the given month and day-of-week
// filters. Either filter may be "all" to apply no constraint; both are
// independent and conjunctive. The result is a new table holding a
// subsequence of the input in original order; the input is not mutated.
//
// A value outside the recognized set is a *models.InvalidFilterError.
// A combination matching zero rows is not an error: it yields an empty
// table and downstream statistics report NoDataError where appropriate.
func FilterTable(table *models.Table, month, day string) (*models.Table, error) {
	if month != FilterAll {
		if _, ok := validMonthSet[month]; !ok {
			return nil, &models.InvalidFilterError{Kind: "month", Value: month}
		}
	}
	if day != FilterAll {
		if _, ok := validDaySet[day]; !ok {
			return nil, &models.InvalidFilterError{Kind: "day", Value: day}
		}
	}

	filtered := &models.Table{
		City:         table.City,
		HasGender:    table.HasGender,
		HasBirthYear: table.HasBirthYear,
		Records:      make([]models.TripRecord, 0, len(table.Records)),
	}
	for _, record := range table.Records {
		if month != FilterAll && record.Month != month {
			continue
		}
		if day != FilterAll && record.DayOfWeek != day {
			continue
		}
		filtered.Records = append(filtered.Records, record)
	}
	return filtered, nil
}

// Page returns the ordered slice of records [offset, offset+size), clipped
// to the table bounds. An out-of-range offset or non-positive size yields
// an empty slice, never an error. The accessor itself is stateless;
// tracking the advancing offset belongs to the caller.
func Page(table *models.Table, offset, size int) []models.TripRecord {
	if table == nil || offset < 0 || size <= 0 || offset >= len(table.Records) {
		return []models.TripRecord{}
	}
	end := offset + size
	if end > len(table.Records) {
		end = len(table.Records)
	}
	return table.Records[offset:end]
}
