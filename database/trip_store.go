// database/trip_store.go
package database

import (
	"database/sql"
	"fmt"
	"log"
	"regexp"

	"github.com/gewnthar/bikeshare/models"
)

// TripStore reads a city's trip records out of a relational table. It is
// strictly read-only: the analysis pipeline never writes back.
type TripStore struct {
	db *sql.DB
}

// NewTripStore returns a store backed by the given connection pool.
func NewTripStore(db *sql.DB) *TripStore {
	return &TripStore{db: db}
}

// Trip table names come from config; they still must look like plain
// identifiers before being spliced into the query.
var tableNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// LoadTrips selects every trip row of tableName in primary-key order and
// returns the normalized table. Column presence of gender and birth_year
// is decided once from the result-set columns, mirroring how the CSV
// loader reads its header.
func (s *TripStore) LoadTrips(tableName string) (*models.Table, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	if !tableNameRegex.MatchString(tableName) {
		return nil, fmt.Errorf("invalid trip table name %q", tableName)
	}

	// Input order for a relational source is insertion order, i.e. the
	// primary key. SELECT * keeps optional columns optional.
	rows, err := s.db.Query(fmt.Sprintf("SELECT * FROM %s ORDER BY id", tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to query trip table %s: %w", tableName, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of trip table %s: %w", tableName, err)
	}

	table := &models.Table{}
	for _, col := range columns {
		switch col {
		case "gender":
			table.HasGender = true
		case "birth_year":
			table.HasBirthYear = true
		}
	}

	recordNum := 0
	for rows.Next() {
		recordNum++

		var (
			startTime    sql.NullTime
			duration     sql.NullFloat64
			startStation sql.NullString
			endStation   sql.NullString
			userType     sql.NullString
			gender       sql.NullString
			birthYear    sql.NullFloat64
		)
		holders := make([]interface{}, len(columns))
		for i, col := range columns {
			switch col {
			case "start_time":
				holders[i] = &startTime
			case "trip_duration":
				holders[i] = &duration
			case "start_station":
				holders[i] = &startStation
			case "end_station":
				holders[i] = &endStation
			case "user_type":
				holders[i] = &userType
			case "gender":
				holders[i] = &gender
			case "birth_year":
				holders[i] = &birthYear
			default:
				holders[i] = new(sql.RawBytes)
			}
		}
		if err := rows.Scan(holders...); err != nil {
			return nil, fmt.Errorf("failed to scan trip row %d from %s: %w", recordNum, tableName, err)
		}

		if !startTime.Valid {
			return nil, &models.DataFormatError{Record: recordNum, Field: "start_time", Value: "NULL",
				Err: fmt.Errorf("start time must not be NULL")}
		}
		if !duration.Valid || duration.Float64 < 0 {
			return nil, &models.DataFormatError{Record: recordNum, Field: "trip_duration", Value: fmt.Sprintf("%v", duration.Float64),
				Err: fmt.Errorf("trip duration must be a non-negative number")}
		}
		if startStation.String == "" {
			return nil, &models.DataFormatError{Record: recordNum, Field: "start_station", Value: "",
				Err: fmt.Errorf("station name must not be empty")}
		}
		if endStation.String == "" {
			return nil, &models.DataFormatError{Record: recordNum, Field: "end_station", Value: "",
				Err: fmt.Errorf("station name must not be empty")}
		}

		record := models.TripRecord{
			StartTime:    startTime.Time,
			Duration:     duration.Float64,
			StartStation: startStation.String,
			EndStation:   endStation.String,
			UserType:     userType.String,
			Gender:       gender.String,
			BirthYear:    int(birthYear.Float64),
		}
		record.DeriveCalendarFields()
		table.Records = append(table.Records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating trip table %s: %w", tableName, err)
	}

	log.Printf("Successfully loaded %d trip records from table %s.\n", len(table.Records), tableName)
	return table, nil
}
