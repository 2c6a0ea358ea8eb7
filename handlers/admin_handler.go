// handlers/admin_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gewnthar/bikeshare/config"
	"github.com/gewnthar/bikeshare/models"
	"github.com/gewnthar/bikeshare/services"
)

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling JSON response: %v", err)
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	log.Printf("API Error %d: %s", code, message)
	respondWithJSON(w, code, map[string]string{"error": message})
}

// ForceRefreshCityDataHandler handles requests to manually re-download a
// city's dataset.
// Expects POST requests to /api/admin/refresh-data/{city}
func ForceRefreshCityDataHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// Expected path: api/admin/refresh-data/{city}
	if len(pathParts) < 4 {
		respondWithError(w, http.StatusBadRequest, "Invalid path. Expected /api/admin/refresh-data/{city}")
		return
	}
	city := pathParts[3]

	err := services.ForceRefreshCityData(config.AppConfig.Cities, city, nil) // nil triggers a live portal date check
	if err != nil {
		var confErr *models.ConfigurationError
		if errors.As(err, &confErr) {
			respondWithError(w, http.StatusNotFound, confErr.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to force refresh data for %s: %v", city, err))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Dataset refresh for %s completed successfully.", city)})
}

// CheckAndRefreshCityDataHandler handles requests to re-download a city's
// dataset only when the data portal shows a newer publication.
// Expects POST requests to /api/admin/check-refresh-data/{city}
func CheckAndRefreshCityDataHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// Expected path: api/admin/check-refresh-data/{city}
	if len(pathParts) < 4 {
		respondWithError(w, http.StatusBadRequest, "Invalid path. Expected /api/admin/check-refresh-data/{city}")
		return
	}
	city := pathParts[3]

	err := services.RefreshCityDataIfNeeded(config.AppConfig.Cities, city)
	if err != nil {
		var confErr *models.ConfigurationError
		if errors.As(err, &confErr) {
			respondWithError(w, http.StatusNotFound, confErr.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to check/refresh data for %s: %v", city, err))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Check/refresh process for %s completed.", city)})
}
