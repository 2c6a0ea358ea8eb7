// services/stats_service.go
package services

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gewnthar/bikeshare/models"
)

// TripSeparator joins start and end station into the combination value
// used for the most-common-trip statistic.
const TripSeparator = " to "

// Mode/tie-break rule used by every statistic in this package: the value
// with the highest count wins, and a tie between counts goes to the value
// seen first in table order. One rule everywhere keeps results
// reproducible across runs and across statistics.

// valueCounter accumulates frequency counts preserving first-seen order.
type valueCounter struct {
	counts map[string]int
	order  []string
}

func newValueCounter() *valueCounter {
	return &valueCounter{counts: make(map[string]int)}
}

func (c *valueCounter) add(value string) {
	if _, seen := c.counts[value]; !seen {
		c.order = append(c.order, value)
	}
	c.counts[value]++
}

// mode returns the most frequent value; first-seen wins a tie.
func (c *valueCounter) mode() (string, bool) {
	best := ""
	bestCount := 0
	for _, value := range c.order {
		if c.counts[value] > bestCount {
			best = value
			bestCount = c.counts[value]
		}
	}
	return best, bestCount > 0
}

// counted returns the frequency list in first-seen order.
func (c *valueCounter) counted() []models.CountedValue {
	result := make([]models.CountedValue, 0, len(c.order))
	for _, value := range c.order {
		result = append(result, models.CountedValue{Value: value, Count: c.counts[value]})
	}
	return result
}

// ComputeTimeStats calculates the most frequent month, day of week and
// start hour of the table. An empty table is a *models.NoDataError.
func ComputeTimeStats(table *models.Table) (*models.TimeStats, error) {
	started := time.Now()

	if table.Len() == 0 {
		return nil, &models.NoDataError{Stat: "most frequent times of travel"}
	}

	months := newValueCounter()
	days := newValueCounter()
	hours := newValueCounter()
	for _, record := range table.Records {
		months.add(record.Month)
		days.add(record.DayOfWeek)
		hours.add(strconv.Itoa(record.Hour))
	}

	month, _ := months.mode()
	day, _ := days.mode()
	hourValue, _ := hours.mode()
	hour, err := strconv.Atoi(hourValue)
	if err != nil {
		return nil, fmt.Errorf("failed to read back hour mode %q: %w", hourValue, err)
	}

	stats := &models.TimeStats{
		MostCommonMonth:     month,
		MostCommonDayOfWeek: day,
		MostCommonStartHour: hour,
		Elapsed:             time.Since(started),
	}
	log.Printf("Service: Computed time stats for %d records in %s\n", table.Len(), stats.Elapsed)
	return stats, nil
}

// ComputeStationStats calculates the most popular start station, end
// station and trip combination. An empty table is a *models.NoDataError.
func ComputeStationStats(table *models.Table) (*models.StationStats, error) {
	started := time.Now()

	if table.Len() == 0 {
		return nil, &models.NoDataError{Stat: "most popular stations and trip"}
	}

	starts := newValueCounter()
	ends := newValueCounter()
	trips := newValueCounter()
	for _, record := range table.Records {
		starts.add(record.StartStation)
		ends.add(record.EndStation)
		trips.add(record.StartStation + TripSeparator + record.EndStation)
	}

	start, _ := starts.mode()
	end, _ := ends.mode()
	trip, _ := trips.mode()

	stats := &models.StationStats{
		MostCommonStartStation: start,
		MostCommonEndStation:   end,
		MostCommonTrip:         trip,
		Elapsed:                time.Since(started),
	}
	log.Printf("Service: Computed station stats for %d records in %s\n", table.Len(), stats.Elapsed)
	return stats, nil
}

// ComputeDurationStats calculates total and mean trip duration in seconds.
// The total is defined for every table and is 0 when the table is empty.
// The mean is undefined on an empty table: the stats are still returned
// with Mean nil, together with a *models.NoDataError for the mean, so the
// caller never mistakes a missing mean for a real zero.
func ComputeDurationStats(table *models.Table) (*models.DurationStats, error) {
	started := time.Now()

	stats := &models.DurationStats{}
	for _, record := range table.Records {
		stats.TotalSeconds += record.Duration
	}

	if table.Len() == 0 {
		stats.Elapsed = time.Since(started)
		return stats, &models.NoDataError{Stat: "mean trip duration"}
	}

	mean := stats.TotalSeconds / float64(table.Len())
	stats.Mean = &mean
	stats.Elapsed = time.Since(started)
	log.Printf("Service: Computed duration stats for %d records in %s\n", table.Len(), stats.Elapsed)
	return stats, nil
}

// ComputeUserStats calculates rider demographics: user-type counts always,
// gender counts when the dataset has the Gender column, and birth-year
// aggregates when it has the Birth Year column. Counts are reported in
// first-seen order. An empty table is not an error here: the counts are
// simply empty, and the birth-year block is omitted because earliest,
// most recent and most common are undefined over zero values.
//
// Blank cells in the optional columns are skipped, matching the source
// dumps where a present column still has missing values.
func ComputeUserStats(table *models.Table) (*models.UserStats, error) {
	started := time.Now()

	userTypes := newValueCounter()
	genders := newValueCounter()
	birthYears := newValueCounter()
	earliest, mostRecent := 0, 0

	for _, record := range table.Records {
		if record.UserType != "" {
			userTypes.add(record.UserType)
		}
		if table.HasGender && record.Gender != "" {
			genders.add(record.Gender)
		}
		if table.HasBirthYear && record.BirthYear != 0 {
			birthYears.add(strconv.Itoa(record.BirthYear))
			if earliest == 0 || record.BirthYear < earliest {
				earliest = record.BirthYear
			}
			if record.BirthYear > mostRecent {
				mostRecent = record.BirthYear
			}
		}
	}

	stats := &models.UserStats{
		UserTypeCounts: userTypes.counted(),
	}
	if table.HasGender {
		stats.GenderCounts = genders.counted()
	}
	if mostCommon, ok := birthYears.mode(); ok {
		year, err := strconv.Atoi(mostCommon)
		if err != nil {
			return nil, fmt.Errorf("failed to read back birth year mode %q: %w", mostCommon, err)
		}
		stats.BirthYears = &models.BirthYearStats{
			Earliest:   earliest,
			MostRecent: mostRecent,
			MostCommon: year,
		}
	}

	stats.Elapsed = time.Since(started)
	log.Printf("Service: Computed user stats for %d records in %s\n", table.Len(), stats.Elapsed)
	return stats, nil
}
