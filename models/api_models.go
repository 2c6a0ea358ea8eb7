// models/api_models.go
package models

// AnalyzeRequest is the expected JSON body for the /api/analyze endpoint.
type AnalyzeRequest struct {
	City  string `json:"city"`
	Month string `json:"month"` // "all" or a lowercase month name
	Day   string `json:"day"`   // "all" or a lowercase weekday name
}

// AnalyzeResponse bundles the four statistic groups for one filtered
// table. Groups undefined on an empty table are null, with the reason
// listed in Notes.
type AnalyzeResponse struct {
	City        string `json:"city"`
	Month       string `json:"month"`
	Day         string `json:"day"`
	RecordCount int    `json:"record_count"`

	TimeStats     *TimeStats     `json:"time_stats,omitempty"`
	StationStats  *StationStats  `json:"station_stats,omitempty"`
	DurationStats *DurationStats `json:"duration_stats,omitempty"`
	UserStats     *UserStats     `json:"user_stats,omitempty"`

	Notes []string `json:"notes,omitempty"`
}
