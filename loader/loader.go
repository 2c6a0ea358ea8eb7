// loader/loader.go
package loader

import (
	"fmt"
	"log"
	"os"

	"github.com/gewnthar/bikeshare/config"
	"github.com/gewnthar/bikeshare/models"
	"github.com/gewnthar/bikeshare/utils"
)

// TripSource loads a city's trip table from a non-file backend. Satisfied
// by the database package for "mysql" sources; kept as an interface so
// the loader does not depend on a live connection.
type TripSource interface {
	LoadTrips(table string) (*models.Table, error)
}

// ResolveCity maps a city identifier to its configured data source.
// Unknown identifiers fail with a *models.ConfigurationError.
func ResolveCity(cities map[string]config.CitySource, city string) (config.CitySource, error) {
	key := utils.NormalizeCityKey(city)
	source, ok := cities[key]
	if !ok {
		return config.CitySource{}, &models.ConfigurationError{City: city}
	}
	return source, nil
}

// LoadCity resolves a city to its data source, parses all records and
// returns the normalized table. The source file handle is scoped to this
// call and released on every exit path, including parse failure.
//
// dbSource may be nil when no "mysql" city is configured.
func LoadCity(cities map[string]config.CitySource, city string, dbSource TripSource) (*models.Table, error) {
	source, err := ResolveCity(cities, city)
	if err != nil {
		return nil, err
	}

	key := utils.NormalizeCityKey(city)
	log.Printf("Loader: Loading trip data for %s (kind: %s)\n", key, source.Kind)

	switch source.Kind {
	case "csv", "url":
		if source.Kind == "url" {
			if _, statErr := os.Stat(source.Path); os.IsNotExist(statErr) {
				if err := DownloadCityCsv(source.URL, source.Path); err != nil {
					return nil, fmt.Errorf("failed to fetch dataset for %s: %w", key, err)
				}
			}
		}
		return loadCsvFile(key, source.Path)
	case "mysql":
		if dbSource == nil {
			return nil, fmt.Errorf("city %s uses a mysql source but no database is configured", key)
		}
		table, err := dbSource.LoadTrips(source.Table)
		if err != nil {
			return nil, fmt.Errorf("failed to load trips for %s from database: %w", key, err)
		}
		table.City = key
		return table, nil
	default:
		return nil, fmt.Errorf("unsupported source kind %q for city %s", source.Kind, key)
	}
}

func loadCsvFile(city, path string) (*models.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file for %s: %w", city, err)
	}
	defer file.Close()

	table, err := ParseTrips(file)
	if err != nil {
		return nil, err
	}
	table.City = city
	return table, nil
}
