// config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "8080"
cities:
  chicago:
    kind: csv
    path: "./data/chicago.csv"
  new york city:
    kind: url
    url: "https://example.org/nyc.csv"
    path: "./temp_data/nyc.csv"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	require.Len(t, cfg.Cities, 2)
	assert.Equal(t, "csv", cfg.Cities["chicago"].Kind)
	assert.Equal(t, "https://example.org/nyc.csv", cfg.Cities["new york city"].URL)
}

func TestLoadRejectsUnknownSourceKind(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "8080"
cities:
  chicago:
    kind: carrier-pigeon
    path: "./data/chicago.csv"
`)

	cfg, err := Load(path)
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chicago")
}

func TestLoadRejectsEmptyCityMap(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "8080"
cities: {}
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadDatabaseEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "8080"
database:
  user: "from-yaml"
  password: "from-yaml"
cities:
  chicago:
    kind: csv
    path: "./data/chicago.csv"
`)

	t.Setenv("BIKESHARE_DB_USER", "from-env")
	t.Setenv("BIKESHARE_DB_PASSWORD", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.User)
	assert.Equal(t, "secret", cfg.Database.Password)
}
