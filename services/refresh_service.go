// services/refresh_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gewnthar/bikeshare/config"
	"github.com/gewnthar/bikeshare/loader"
	"github.com/gewnthar/bikeshare/models"
	"github.com/gewnthar/bikeshare/utils"
)

// lastKnownUpdatedDates remembers, per city, the newest "Updated" stamp
// seen on the data portal, so repeated checks in one session don't
// re-download an unchanged dataset.
var lastKnownUpdatedDates = make(map[string]time.Time)

// RefreshCityDataIfNeeded checks the data portal for a newer publication
// of a url-backed city dataset and downloads it when the local copy is
// missing or stale. Cities without a catalog page only download when the
// local file is absent.
func RefreshCityDataIfNeeded(cities map[string]config.CitySource, city string) error {
	source, err := loader.ResolveCity(cities, city)
	if err != nil {
		return err
	}
	key := utils.NormalizeCityKey(city)

	if source.Kind != "url" {
		log.Printf("Service: City %s has a %s source; nothing to refresh.\n", key, source.Kind)
		return nil
	}

	_, statErr := os.Stat(source.Path)
	localMissing := os.IsNotExist(statErr)

	if source.CatalogPage == "" {
		if !localMissing {
			log.Printf("Service: No catalog page configured for %s and local copy exists; skipping refresh.\n", key)
			return nil
		}
		return ForceRefreshCityData(cities, city, nil)
	}

	info, err := loader.GetCatalogInfoForCity(key, source.CatalogPage, source.CatalogSelector)
	if err != nil {
		return fmt.Errorf("failed to check dataset publication date for %s: %w", key, err)
	}

	updateNeeded := localMissing
	lastKnown, found := lastKnownUpdatedDates[key]
	if !found || info.UpdatedOn.After(lastKnown) {
		updateNeeded = true
	}

	if !updateNeeded {
		log.Printf("Service: Dataset for %s is up to date (portal: %s).\n", key, info.UpdatedOn.Format("2006-01-02"))
		return nil
	}

	log.Printf("Service: Newer dataset detected for %s (portal: %s); downloading.\n", key, info.UpdatedOn.Format("2006-01-02"))
	if err := loader.DownloadCityCsv(source.URL, source.Path); err != nil {
		return fmt.Errorf("failed to refresh dataset for %s: %w", key, err)
	}
	lastKnownUpdatedDates[key] = info.UpdatedOn
	return nil
}

// ForceRefreshCityData unconditionally re-downloads a url-backed city
// dataset and validates that the result parses cleanly. catalogInfo may
// carry an already-scraped portal date; when nil and the city has a
// catalog page configured, the date is scraped here so the session's
// last-known map stays current and the next RefreshCityDataIfNeeded does
// not re-download an unchanged dataset.
func ForceRefreshCityData(cities map[string]config.CitySource, city string, catalogInfo *loader.DatasetCatalogInfo) error {
	source, err := loader.ResolveCity(cities, city)
	if err != nil {
		return err
	}
	key := utils.NormalizeCityKey(city)

	if source.Kind != "url" {
		return fmt.Errorf("city %s has a %s source; only url sources can be refreshed", key, source.Kind)
	}

	if catalogInfo == nil && source.CatalogPage != "" {
		info, err := loader.GetCatalogInfoForCity(key, source.CatalogPage, source.CatalogSelector)
		if err != nil {
			log.Printf("WARN Service: Could not check portal date for %s: %v. Proceeding with forced download.\n", key, err)
		} else {
			catalogInfo = info
		}
	}

	log.Printf("Service: Forcing dataset refresh for %s from %s\n", key, source.URL)
	if err := loader.DownloadCityCsv(source.URL, source.Path); err != nil {
		return fmt.Errorf("failed to download dataset for %s: %w", key, err)
	}

	// A refresh that delivers a malformed file should fail loudly now,
	// not on the next analysis request.
	file, err := os.Open(source.Path)
	if err != nil {
		return fmt.Errorf("failed to open refreshed dataset for %s: %w", key, err)
	}
	defer file.Close()

	table, err := loader.ParseTrips(file)
	if err != nil {
		var formatErr *models.DataFormatError
		if errors.As(err, &formatErr) {
			return fmt.Errorf("refreshed dataset for %s is malformed: %w", key, formatErr)
		}
		return fmt.Errorf("refreshed dataset for %s failed to parse: %w", key, err)
	}

	if catalogInfo != nil {
		lastKnownUpdatedDates[key] = catalogInfo.UpdatedOn
		log.Printf("Service: Recorded portal date %s for %s after forced refresh.\n",
			catalogInfo.UpdatedOn.Format("2006-01-02"), key)
	}

	log.Printf("Service: Refreshed dataset for %s (%d records).\n", key, table.Len())
	return nil
}
