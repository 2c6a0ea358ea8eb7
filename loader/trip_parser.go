// loader/trip_parser.go
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gewnthar/bikeshare/models"
	"github.com/jszwec/csvutil"
)

// startTimeLayout matches the "YYYY-MM-DD HH:MM:SS" timestamps in the city
// data dumps. Timestamps are kept in their original calendar locale.
const startTimeLayout = "2006-01-02 15:04:05"

const (
	fieldStartTime    = "Start Time"
	fieldTripDuration = "Trip Duration"
	fieldStartStation = "Start Station"
	fieldEndStation   = "End Station"
	fieldUserType     = "User Type"
	fieldGender       = "Gender"
	fieldBirthYear    = "Birth Year"
)

// tripRow mirrors one raw CSV record. Everything is decoded as a string
// first so that each field can be parsed explicitly and a bad value can be
// reported with its record number and field name. CSV tags EXACTLY match
// the headers of the city dumps; the leading unnamed index column of those
// dumps has no matching field and is ignored by csvutil.
type tripRow struct {
	StartTime    string `csv:"Start Time"`
	TripDuration string `csv:"Trip Duration"`
	StartStation string `csv:"Start Station"`
	EndStation   string `csv:"End Station"`
	UserType     string `csv:"User Type"`
	Gender       string `csv:"Gender"`
	BirthYear    string `csv:"Birth Year"`
}

// ParseTrips takes an io.Reader containing CSV data for one city and
// returns the normalized table. The first line must be a header; csvutil
// maps columns to tripRow fields based on the `csv:"..."` tags.
//
// Column presence for Gender and Birth Year is decided once from the
// header, never per row. Any malformed value aborts the parse with a
// *models.DataFormatError; bad rows are never coerced or dropped.
func ParseTrips(reader io.Reader) (*models.Table, error) {
	decoder, err := csvutil.NewDecoder(csv.NewReader(reader))
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder for trips: %w", err)
	}

	table := &models.Table{}
	for _, h := range decoder.Header() {
		switch h {
		case fieldGender:
			table.HasGender = true
		case fieldBirthYear:
			table.HasBirthYear = true
		}
	}

	recordNum := 0
	for {
		var row tripRow
		err := decoder.Decode(&row)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode trip CSV record %d: %w", recordNum+1, err)
		}
		recordNum++

		record, err := normalizeRow(row, recordNum, table.HasGender, table.HasBirthYear)
		if err != nil {
			return nil, err
		}
		table.Records = append(table.Records, record)
	}

	log.Printf("Loader: Successfully parsed %d trip records from CSV.\n", len(table.Records))
	return table, nil
}

// normalizeRow parses the raw string fields of one record into a typed
// TripRecord and derives its calendar fields.
func normalizeRow(row tripRow, recordNum int, hasGender, hasBirthYear bool) (models.TripRecord, error) {
	var record models.TripRecord

	startTime, err := time.Parse(startTimeLayout, strings.TrimSpace(row.StartTime))
	if err != nil {
		return record, &models.DataFormatError{Record: recordNum, Field: fieldStartTime, Value: row.StartTime, Err: err}
	}
	record.StartTime = startTime

	duration, err := strconv.ParseFloat(strings.TrimSpace(row.TripDuration), 64)
	if err != nil {
		return record, &models.DataFormatError{Record: recordNum, Field: fieldTripDuration, Value: row.TripDuration, Err: err}
	}
	if duration < 0 {
		return record, &models.DataFormatError{Record: recordNum, Field: fieldTripDuration, Value: row.TripDuration,
			Err: fmt.Errorf("trip duration must be non-negative")}
	}
	record.Duration = duration

	record.StartStation = strings.TrimSpace(row.StartStation)
	if record.StartStation == "" {
		return record, &models.DataFormatError{Record: recordNum, Field: fieldStartStation, Value: row.StartStation,
			Err: fmt.Errorf("station name must not be empty")}
	}
	record.EndStation = strings.TrimSpace(row.EndStation)
	if record.EndStation == "" {
		return record, &models.DataFormatError{Record: recordNum, Field: fieldEndStation, Value: row.EndStation,
			Err: fmt.Errorf("station name must not be empty")}
	}

	record.UserType = strings.TrimSpace(row.UserType)

	if hasGender {
		record.Gender = strings.TrimSpace(row.Gender)
	}
	if hasBirthYear {
		rawYear := strings.TrimSpace(row.BirthYear)
		if rawYear != "" {
			// Some dumps carry birth years as floats ("1987.0");
			// truncate the artifact to an integer year.
			year, err := strconv.ParseFloat(rawYear, 64)
			if err != nil {
				return record, &models.DataFormatError{Record: recordNum, Field: fieldBirthYear, Value: row.BirthYear, Err: err}
			}
			record.BirthYear = int(year)
		}
	}

	record.DeriveCalendarFields()
	return record, nil
}
