// loader/catalog_checker.go
package loader

import (
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Regex to find dates in format "Updated MM/DD/YYYY" on the data portal pages
var updatedDateRegex = regexp.MustCompile(`Updated\s+(\d{2}/\d{2}/\d{4})`)

const catalogDateLayout = "01/02/2006" // For parsing MM/DD/YYYY

// DatasetCatalogInfo holds the publication date scraped from a city's
// data-portal page.
type DatasetCatalogInfo struct {
	City          string
	UpdatedOn     time.Time
	RawDateString string    // The full "Updated ..." string scraped
	LastChecked   time.Time // When this information was scraped
}

// parseUpdatedDateString extracts the publication date using the regex.
func parseUpdatedDateString(textToSearch string) (updated time.Time, rawMatch string, err error) {
	matches := updatedDateRegex.FindStringSubmatch(textToSearch)
	if len(matches) < 2 {
		err = fmt.Errorf("could not find 'Updated MM/DD/YYYY' pattern in provided text block. Text searched: %s", textToSearch)
		return
	}

	rawMatch = matches[0]
	updated, err = time.Parse(catalogDateLayout, matches[1])
	if err != nil {
		err = fmt.Errorf("failed to parse updated date %q: %w", matches[1], err)
		return
	}
	return
}

// GetCatalogInfoForCity scrapes the given portal URL, looks inside the
// container selector for the dataset's "Updated ..." stamp, and returns it.
func GetCatalogInfoForCity(city, pageURL, containerSelector string) (*DatasetCatalogInfo, error) {
	log.Printf("Loader: Checking dataset publication date for %s from %s (container: '%s')\n", city, pageURL, containerSelector)

	if containerSelector == "" {
		log.Println("WARN Loader: No CSS selector provided for the catalog date container, using 'body'.")
		containerSelector = "body"
	}

	client := http.Client{Timeout: 20 * time.Second}
	res, err := client.Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get URL %s: %w", pageURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get URL %s: status code %d", pageURL, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}

	var foundDateText string
	doc.Find(containerSelector).EachWithBreak(func(i int, selection *goquery.Selection) bool {
		text := strings.TrimSpace(selection.Text())
		if strings.Contains(text, "Updated") {
			foundDateText = text
			return false
		}
		return true
	})

	if foundDateText == "" {
		return nil, fmt.Errorf("no 'Updated' stamp found on %s within container '%s'", pageURL, containerSelector)
	}

	updated, rawStr, err := parseUpdatedDateString(foundDateText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse publication date for %s: %w", city, err)
	}

	log.Printf("Loader: Dataset for %s last updated %s (Raw: '%s')\n", city, updated.Format(catalogDateLayout), rawStr)

	return &DatasetCatalogInfo{
		City:          city,
		UpdatedOn:     updated,
		RawDateString: rawStr,
		LastChecked:   time.Now().UTC(),
	}, nil
}
