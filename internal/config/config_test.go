package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// chdirTemp moves the test into an empty directory so no config.yaml is found.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Temperature Table.pdf", cfg.Sources.Temperature)
	assert.Equal(t, "Wind Table.pdf", cfg.Sources.Wind)
	assert.Equal(t, "Seismic Table.pdf", cfg.Sources.Seismic)
	assert.Equal(t, "data/site_data.json", cfg.Output.Path)
	assert.Equal(t, "pdftotext", cfg.Extract.PdfToTextPath)
	assert.True(t, cfg.Extract.Layout)
	assert.Equal(t, 0, cfg.Extract.XLSXSheet)
	assert.Equal(t, 5, cfg.Hierarchy.HeaderSlack)
	assert.Empty(t, cfg.Hierarchy.RegionsFile)
	assert.Equal(t, 90, cfg.Reconcile.Threshold)
	assert.Equal(t, 3, cfg.Reconcile.MinFuzzyLen)
	assert.True(t, cfg.Pipeline.Parallel)
	assert.Empty(t, cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
sources:
  temperature: docs/temp.txt
  wind: docs/wind.xlsx
output:
  path: out/db.json
reconcile:
  threshold: 85
pipeline:
  parallel: false
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "docs/temp.txt", cfg.Sources.Temperature)
	assert.Equal(t, "docs/wind.xlsx", cfg.Sources.Wind)
	assert.Equal(t, "out/db.json", cfg.Output.Path)
	assert.Equal(t, 85, cfg.Reconcile.Threshold)
	assert.False(t, cfg.Pipeline.Parallel)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, "Seismic Table.pdf", cfg.Sources.Seismic)
	assert.Equal(t, 3, cfg.Reconcile.MinFuzzyLen)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
output:
  path: from-file.json
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("SITEDATA_OUTPUT_PATH", "from-env.json")
	t.Setenv("SITEDATA_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env.json", cfg.Output.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("SITEDATA_HIERARCHY_HEADER_SLACK", "8")
	t.Setenv("SITEDATA_STORE_DRIVER", "sqlite")
	t.Setenv("SITEDATA_STORE_DATABASE_URL", "site.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Hierarchy.HeaderSlack)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "site.db", cfg.Store.DatabaseURL)
}

func TestLoadInvalidFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("output: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestLoadFile(t *testing.T) {
	chdirTemp(t)
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  path: build/site.json\npipeline:\n  parallel: false\n"), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "build/site.json", cfg.Output.Path)
	assert.False(t, cfg.Pipeline.Parallel)
	assert.Equal(t, 90, cfg.Reconcile.Threshold)
}

func TestLoadFileMissing(t *testing.T) {
	chdirTemp(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SITEDATA_RECONCILE_THRESHOLD", "120")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reconcile.threshold")
}

// validDefaults returns a Config with defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Output.Path = "data/site_data.json"
	cfg.Hierarchy.HeaderSlack = 5
	cfg.Reconcile.Threshold = 90
	cfg.Reconcile.MinFuzzyLen = 3
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, validDefaults().Validate())
}

func TestValidate_MissingOutput(t *testing.T) {
	cfg := validDefaults()
	cfg.Output.Path = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.path is required")
}

func TestValidate_NegativeSlack(t *testing.T) {
	cfg := validDefaults()
	cfg.Hierarchy.HeaderSlack = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header_slack")
}

func TestValidate_NegativeMinFuzzyLen(t *testing.T) {
	cfg := validDefaults()
	cfg.Reconcile.MinFuzzyLen = -2

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_fuzzy_len")
}

func TestValidate_StoreDriver(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "sqlite"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")

	cfg.Store.DatabaseURL = "site.db"
	assert.NoError(t, cfg.Validate())

	cfg.Store.Driver = "mysql"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown store driver "mysql"`)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
