// loader/csv_downloader.go
package loader

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DownloadCityCsv downloads a city's trip CSV from a URL and saves it to
// localSavePath. It returns an error if any step fails.
func DownloadCityCsv(url string, localSavePath string) error {
	log.Printf("Loader: Attempting to download dataset from URL: %s to local path: %s\n", url, localSavePath)

	client := http.Client{
		Timeout: 60 * time.Second, // the city dumps run to hundreds of megabytes
	}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make GET request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download dataset from %s: received status code %d", url, resp.StatusCode)
	}

	// Ensure the directory for the local save path exists
	dir := filepath.Dir(localSavePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	outFile, err := os.Create(localSavePath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localSavePath, err)
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to copy downloaded content to %s: %w", localSavePath, err)
	}

	log.Printf("Loader: Successfully downloaded %s to %s\n", url, localSavePath)
	return nil
}
