package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv("LIMITUP_DATA_DIR", dataDir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.DirExists(t, dataDir)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 30, cfg.MaxLookbackDays)
	assert.Equal(t, "en", cfg.LabelLocale)
	assert.Equal(t, "Asia/Shanghai", cfg.Location().String())
	assert.Equal(t, filepath.Join(dataDir, "imports"), cfg.ImportDir)
	assert.Equal(t, filepath.Join(dataDir, "snapshots.db"), cfg.DatabasePath("snapshots"))
}

func TestLoad_Overrides(t *testing.T) {
	holidays := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(holidays, []byte("years: {}\n"), 0o644))

	t.Setenv("LIMITUP_DATA_DIR", t.TempDir())
	t.Setenv("LIMITUP_PORT", "9090")
	t.Setenv("LIMITUP_TOP_K", "3")
	t.Setenv("LIMITUP_LABEL_LOCALE", "zh")
	t.Setenv("LIMITUP_TIMEZONE", "UTC")
	t.Setenv("LIMITUP_HOLIDAY_FILE", holidays)
	t.Setenv("LIMITUP_IMPORT_SCHEDULE", "@every 1m")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, "zh", cfg.LabelLocale)
	assert.Equal(t, "UTC", cfg.Location().String())
	assert.Equal(t, holidays, cfg.HolidayFile)
	assert.True(t, cfg.DevMode)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad locale", "LIMITUP_LABEL_LOCALE", "fr"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"zero top k", "LIMITUP_TOP_K", "0"},
		{"bad timezone", "LIMITUP_TIMEZONE", "Mars/Olympus"},
		{"bad schedule", "LIMITUP_IMPORT_SCHEDULE", "every now and then"},
		{"missing holiday file", "LIMITUP_HOLIDAY_FILE", "/nonexistent/holidays.yaml"},
		{"port out of range", "LIMITUP_PORT", "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LIMITUP_DATA_DIR", t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "notanint")
	t.Setenv("TEST_BOOL", "maybe")

	assert.Equal(t, 7, getEnvAsInt("TEST_INT", 7))
	assert.False(t, getEnvAsBool("TEST_BOOL", false))
	assert.Equal(t, "fallback", getEnv("TEST_UNSET_KEY", "fallback"))
}

func TestLocation_BeforeValidate(t *testing.T) {
	assert.Equal(t, "UTC", (&Config{}).Location().String())
}
