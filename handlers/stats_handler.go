// handlers/stats_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gewnthar/bikeshare/config"
	"github.com/gewnthar/bikeshare/loader"
	"github.com/gewnthar/bikeshare/models"
	"github.com/gewnthar/bikeshare/services"
)

// tripSource is the non-file backend handed to the loader; wired up in
// main when a database is configured.
var tripSource loader.TripSource

// SetTripSource wires the database-backed city source for server mode.
func SetTripSource(source loader.TripSource) {
	tripSource = source
}

// loadFiltered loads a city's table and applies the month/day filters,
// translating core errors into HTTP responses. Returns nil when a
// response has already been written.
func loadFiltered(w http.ResponseWriter, city, month, day string) *models.Table {
	table, err := loader.LoadCity(config.AppConfig.Cities, city, tripSource)
	if err != nil {
		var confErr *models.ConfigurationError
		var formatErr *models.DataFormatError
		switch {
		case errors.As(err, &confErr):
			respondWithError(w, http.StatusNotFound, confErr.Error())
		case errors.As(err, &formatErr):
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Dataset for %s is malformed: %v", city, formatErr))
		default:
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load data for %s: %v", city, err))
		}
		return nil
	}

	filtered, err := services.FilterTable(table, month, day)
	if err != nil {
		var filterErr *models.InvalidFilterError
		if errors.As(err, &filterErr) {
			respondWithError(w, http.StatusBadRequest, filterErr.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to filter data: %v", err))
		}
		return nil
	}
	return filtered
}

// AnalyzeHandler runs all four statistic groups over a filtered city table.
// Expects POST to /api/analyze
// with JSON body: {"city": "chicago", "month": "january", "day": "all"}
func AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	if req.City == "" {
		respondWithError(w, http.StatusBadRequest, "Missing 'city' in request body")
		return
	}
	if req.Month == "" {
		req.Month = services.FilterAll
	}
	if req.Day == "" {
		req.Day = services.FilterAll
	}

	log.Printf("Handler: Received analyze request for %s (month: %s, day: %s)\n", req.City, req.Month, req.Day)

	filtered := loadFiltered(w, req.City, req.Month, req.Day)
	if filtered == nil {
		return
	}

	resp := models.AnalyzeResponse{
		City:        filtered.City,
		Month:       req.Month,
		Day:         req.Day,
		RecordCount: filtered.Len(),
	}

	var noData *models.NoDataError

	timeStats, err := services.ComputeTimeStats(filtered)
	if err == nil {
		resp.TimeStats = timeStats
	} else if errors.As(err, &noData) {
		resp.Notes = append(resp.Notes, noData.Error())
	} else {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to compute time stats: %v", err))
		return
	}

	stationStats, err := services.ComputeStationStats(filtered)
	if err == nil {
		resp.StationStats = stationStats
	} else if errors.As(err, &noData) {
		resp.Notes = append(resp.Notes, noData.Error())
	} else {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to compute station stats: %v", err))
		return
	}

	// The duration total is defined even on an empty table; only the
	// mean goes missing.
	durationStats, err := services.ComputeDurationStats(filtered)
	if err != nil && errors.As(err, &noData) {
		resp.Notes = append(resp.Notes, noData.Error())
	} else if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to compute duration stats: %v", err))
		return
	}
	resp.DurationStats = durationStats

	userStats, err := services.ComputeUserStats(filtered)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to compute user stats: %v", err))
		return
	}
	resp.UserStats = userStats

	respondWithJSON(w, http.StatusOK, resp)
}

// RawDataHandler pages through the filtered records of a city in input
// order. Offsets past the end return an empty array, not an error.
// Expects GET to /api/raw?city=chicago&month=all&day=all&offset=0&size=5
func RawDataHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	city := r.URL.Query().Get("city")
	if city == "" {
		respondWithError(w, http.StatusBadRequest, "Missing 'city' query parameter")
		return
	}
	month := r.URL.Query().Get("month")
	if month == "" {
		month = services.FilterAll
	}
	day := r.URL.Query().Get("day")
	if day == "" {
		day = services.FilterAll
	}

	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid 'offset' query parameter")
			return
		}
		offset = parsed
	}
	size := 5
	if v := r.URL.Query().Get("size"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid 'size' query parameter")
			return
		}
		size = parsed
	}

	log.Printf("Handler: Received raw data request for %s (offset: %d, size: %d)\n", city, offset, size)

	filtered := loadFiltered(w, city, month, day)
	if filtered == nil {
		return
	}

	records := services.Page(filtered, offset, size)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"city":    filtered.City,
		"offset":  offset,
		"size":    size,
		"total":   filtered.Len(),
		"records": records,
	})
}
