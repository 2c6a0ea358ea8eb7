// loader/loader_test.go
package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gewnthar/bikeshare/config"
	"github.com/gewnthar/bikeshare/models"
)

func writeTempCsv(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trips.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestResolveCity(t *testing.T) {
	cities := map[string]config.CitySource{
		"chicago":       {Kind: "csv", Path: "chicago.csv"},
		"new york city": {Kind: "csv", Path: "nyc.csv"},
	}

	tests := []struct {
		name     string
		city     string
		wantPath string
		wantErr  bool
	}{
		{name: "exact key", city: "chicago", wantPath: "chicago.csv"},
		{name: "mixed case and padding", city: "  ChIcAgO ", wantPath: "chicago.csv"},
		{name: "multi word city", city: "New  York   City", wantPath: "nyc.csv"},
		{name: "unknown city", city: "springfield", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, err := ResolveCity(cities, tt.city)
			if tt.wantErr {
				var confErr *models.ConfigurationError
				require.True(t, errors.As(err, &confErr))
				assert.Equal(t, tt.city, confErr.City)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, source.Path)
		})
	}
}

func TestLoadCityFromCsvFile(t *testing.T) {
	path := writeTempCsv(t, chicagoStyleCsv)
	cities := map[string]config.CitySource{
		"chicago": {Kind: "csv", Path: path},
	}

	table, err := LoadCity(cities, "Chicago", nil)
	require.NoError(t, err)
	assert.Equal(t, "chicago", table.City)
	assert.Equal(t, 3, table.Len())
	assert.True(t, table.HasGender)
}

func TestLoadCityUnknown(t *testing.T) {
	table, err := LoadCity(map[string]config.CitySource{}, "atlantis", nil)
	assert.Nil(t, table)

	var confErr *models.ConfigurationError
	require.True(t, errors.As(err, &confErr))
}

func TestLoadCityMissingFile(t *testing.T) {
	cities := map[string]config.CitySource{
		"chicago": {Kind: "csv", Path: filepath.Join(t.TempDir(), "missing.csv")},
	}

	table, err := LoadCity(cities, "chicago", nil)
	assert.Nil(t, table)
	require.Error(t, err)
}

func TestLoadCityMysqlWithoutDatabase(t *testing.T) {
	cities := map[string]config.CitySource{
		"chicago": {Kind: "mysql", Table: "chicago_trips"},
	}

	_, err := LoadCity(cities, "chicago", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database is configured")
}

func TestParseUpdatedDateString(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    time.Time
		wantErr bool
	}{
		{
			name: "plain stamp",
			text: "Divvy Trips Updated 03/15/2017",
			want: time.Date(2017, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "stamp inside surrounding text",
			text: "Dataset description. Updated 12/01/2019. Contact the portal team.",
			want: time.Date(2019, 12, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "no stamp",
			text:    "Dataset description without a date.",
			wantErr: true,
		},
		{
			name:    "partial date",
			text:    "Updated 3/2017",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, raw, err := parseUpdatedDateString(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(updated))
			assert.Contains(t, raw, "Updated")
		})
	}
}
