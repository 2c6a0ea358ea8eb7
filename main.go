// main.go
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/gewnthar/bikeshare/config"
	"github.com/gewnthar/bikeshare/database"
	"github.com/gewnthar/bikeshare/handlers"
	"github.com/gewnthar/bikeshare/loader"
	"github.com/gewnthar/bikeshare/models"
	"github.com/gewnthar/bikeshare/services"
)

func main() {
	log.Println("Starting Bikeshare Analytics Application...")

	configPath := flag.String("config", "", "path to config.yaml (default: probe standard locations)")
	serve := flag.Bool("serve", false, "run the HTTP API instead of the interactive prompt")
	flag.Parse()

	// .env carries the database credentials out of the YAML file; its
	// absence is fine for CSV-only setups.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment overrides from .env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	config.AppConfig = cfg
	log.Printf("Configuration loaded. %d cities configured.", len(cfg.Cities))

	// The database is only needed when a city reads from MySQL.
	var tripSource loader.TripSource
	if anyMysqlSource(cfg.Cities) {
		if err := database.InitDB(cfg.Database); err != nil {
			log.Fatalf("Error initializing database: %v", err)
		}
		defer database.CloseDB()
		tripSource = database.NewTripStore(database.DB)
	}

	if *serve {
		runServer(cfg, tripSource)
		return
	}
	runInteractive(cfg, tripSource)
}

func anyMysqlSource(cities map[string]config.CitySource) bool {
	for _, source := range cities {
		if source.Kind == "mysql" {
			return true
		}
	}
	return false
}

// --- HTTP server mode ---

func runServer(cfg *config.Config, tripSource loader.TripSource) {
	handlers.SetTripSource(tripSource)

	http.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"status": "ok", "message": "bikeshare analytics backend is healthy"}`)
	})

	http.HandleFunc("/api/analyze", handlers.AnalyzeHandler)
	http.HandleFunc("/api/raw", handlers.RawDataHandler)
	http.HandleFunc("/api/admin/refresh-data/", handlers.ForceRefreshCityDataHandler)          // Path ends with / to catch sub-paths
	http.HandleFunc("/api/admin/check-refresh-data/", handlers.CheckAndRefreshCityDataHandler) // Path ends with /

	serverAddr := ":" + cfg.Server.Port
	log.Printf("Server starting on http://localhost%s\n", serverAddr)
	if err := http.ListenAndServe(serverAddr, nil); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}

// --- Interactive mode ---

const rawPageSize = 5

func runInteractive(cfg *config.Config, tripSource loader.TripSource) {
	reader := bufio.NewReader(os.Stdin)

	cities := make([]string, 0, len(cfg.Cities))
	for city := range cfg.Cities {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	months := append([]string{}, services.ValidMonths...)
	months = append(months, services.FilterAll)
	days := append([]string{}, services.ValidDays...)
	days = append(days, services.FilterAll)

	fmt.Println("Hello! Let's explore some US bikeshare data!")
	for {
		city := promptChoice(reader,
			fmt.Sprintf("Which city? %s: ", strings.Join(cities, ", ")), cities)
		month := promptChoice(reader,
			"Which month? January through December, or \"all\": ", months)
		day := promptChoice(reader,
			"Which day? Monday through Sunday, or \"all\": ", days)

		table, err := loader.LoadCity(cfg.Cities, city, tripSource)
		if err != nil {
			fmt.Printf("Could not load data for %s: %v\n", city, err)
		} else {
			filtered, err := services.FilterTable(table, month, day)
			if err != nil {
				// promptChoice only offers valid values, so this is defensive.
				fmt.Printf("Could not filter data: %v\n", err)
			} else {
				displayTimeStats(filtered)
				displayStationStats(filtered)
				displayDurationStats(filtered)
				displayUserStats(filtered)
				displayRawData(reader, filtered)
			}
		}

		restart := promptChoice(reader, "\nWould you like to restart? Enter yes or no: ", []string{"yes", "no"})
		if restart == "no" {
			break
		}
	}
}

// promptChoice asks until the (lowercased, trimmed) answer is one of the
// valid inputs.
func promptChoice(reader *bufio.Reader, prompt string, validInputs []string) string {
	for {
		fmt.Print(prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Fatalf("Error reading input: %v", err)
		}
		response := strings.ToLower(strings.TrimSpace(line))
		for _, valid := range validInputs {
			if response == valid {
				return response
			}
		}
		fmt.Println("Invalid input. Please try again.")
	}
}

const statsSeparator = "----------------------------------------"

func displayTimeStats(table *models.Table) {
	fmt.Println("\nCalculating The Most Frequent Times of Travel...")
	stats, err := services.ComputeTimeStats(table)
	if err != nil {
		printStatsError(err)
		return
	}
	fmt.Printf("Most Common Month: %s\n", stats.MostCommonMonth)
	fmt.Printf("Most Common Day of Week: %s\n", stats.MostCommonDayOfWeek)
	fmt.Printf("Most Common Start Hour: %d\n", stats.MostCommonStartHour)
	fmt.Printf("\nThis took %s.\n", stats.Elapsed)
	fmt.Println(statsSeparator)
}

func displayStationStats(table *models.Table) {
	fmt.Println("\nCalculating The Most Popular Stations and Trip...")
	stats, err := services.ComputeStationStats(table)
	if err != nil {
		printStatsError(err)
		return
	}
	fmt.Printf("Most Common Start Station: %s\n", stats.MostCommonStartStation)
	fmt.Printf("Most Common End Station: %s\n", stats.MostCommonEndStation)
	fmt.Printf("Most Common Trip: %s\n", stats.MostCommonTrip)
	fmt.Printf("\nThis took %s.\n", stats.Elapsed)
	fmt.Println(statsSeparator)
}

func displayDurationStats(table *models.Table) {
	fmt.Println("\nCalculating Trip Duration...")
	stats, err := services.ComputeDurationStats(table)
	fmt.Printf("Total Travel Time: %.0f seconds\n", stats.TotalSeconds)
	if err != nil {
		printStatsError(err)
		return
	}
	fmt.Printf("Mean Travel Time: %.2f seconds\n", *stats.Mean)
	fmt.Printf("\nThis took %s.\n", stats.Elapsed)
	fmt.Println(statsSeparator)
}

func displayUserStats(table *models.Table) {
	fmt.Println("\nCalculating User Stats...")
	stats, err := services.ComputeUserStats(table)
	if err != nil {
		printStatsError(err)
		return
	}

	fmt.Println("User Types:")
	for _, count := range stats.UserTypeCounts {
		fmt.Printf("  %s: %d\n", count.Value, count.Count)
	}
	if stats.GenderCounts != nil {
		fmt.Println("\nGender Distribution:")
		for _, count := range stats.GenderCounts {
			fmt.Printf("  %s: %d\n", count.Value, count.Count)
		}
	}
	if stats.BirthYears != nil {
		fmt.Printf("\nEarliest Year of Birth: %d\n", stats.BirthYears.Earliest)
		fmt.Printf("Most Recent Year of Birth: %d\n", stats.BirthYears.MostRecent)
		fmt.Printf("Most Common Year of Birth: %d\n", stats.BirthYears.MostCommon)
	}
	fmt.Printf("\nThis took %s.\n", stats.Elapsed)
	fmt.Println(statsSeparator)
}

func printStatsError(err error) {
	var noData *models.NoDataError
	if errors.As(err, &noData) {
		fmt.Printf("No data for the chosen filters: %v\n", noData)
	} else {
		fmt.Printf("Failed to compute statistics: %v\n", err)
	}
	fmt.Println(statsSeparator)
}

// displayRawData pages through the records five at a time on request.
// The advancing offset lives here, not in the accessor.
func displayRawData(reader *bufio.Reader, table *models.Table) {
	offset := 0
	for {
		answer := promptChoice(reader,
			fmt.Sprintf("Would you like to see %d lines of raw data? Enter yes or no: ", rawPageSize),
			[]string{"yes", "no"})
		if answer == "no" {
			return
		}

		page := services.Page(table, offset, rawPageSize)
		if len(page) == 0 {
			fmt.Println("No more raw data to display.")
			return
		}
		for i, record := range page {
			fmt.Printf("[%d] %s | %s -> %s | %.0fs | %s\n",
				offset+i+1,
				record.StartTime.Format("2006-01-02 15:04:05"),
				record.StartStation,
				record.EndStation,
				record.Duration,
				record.UserType)
		}
		offset += rawPageSize
	}
}
