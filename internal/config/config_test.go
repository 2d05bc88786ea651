package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/route-formatter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 5*time.Minute, cfg.WriteTimeout)
	assert.Equal(t, domain.LocaleEnglish, cfg.Locale)
	assert.Equal(t, "São José dos Campos", cfg.DefaultCity)
	assert.Equal(t, "São Paulo", cfg.DefaultState)
	assert.Empty(t, cfg.ColumnMapFile)
	assert.True(t, cfg.LookupEnabled)
	assert.Equal(t, "https://viacep.com.br/ws", cfg.LookupBaseURL)
	assert.Equal(t, 5*time.Second, cfg.LookupTimeout)
	assert.Equal(t, 300*time.Millisecond, cfg.LookupDelay)
	assert.Equal(t, 1000, cfg.LookupCacheSize)
	assert.Equal(t, "https://viacep.com.br", cfg.ProbeURL)
	assert.Equal(t, 3*time.Second, cfg.ProbeTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "formatted-routes", cfg.KafkaTopic)
	assert.False(t, cfg.PublishEnabled())
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("HTTP_WRITE_TIMEOUT", "20m")
	t.Setenv("OUTPUT_LOCALE", "PT")
	t.Setenv("DEFAULT_CITY", "Jacareí")
	t.Setenv("DEFAULT_STATE", "SP")
	t.Setenv("LOOKUP_ENABLED", "false")
	t.Setenv("LOOKUP_BASE_URL", "http://localhost:9999/ws")
	t.Setenv("LOOKUP_TIMEOUT", "2s")
	t.Setenv("LOOKUP_DELAY", "0s")
	t.Setenv("LOOKUP_CACHE_SIZE", "50")
	t.Setenv("PROBE_URL", "http://localhost:9999")
	t.Setenv("PROBE_TIMEOUT", "1s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "routes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(1048576), cfg.MaxUploadBytes)
	assert.Equal(t, 20*time.Minute, cfg.WriteTimeout)
	assert.Equal(t, domain.LocalePortuguese, cfg.Locale)
	assert.Equal(t, "Jacareí", cfg.DefaultCity)
	assert.Equal(t, "SP", cfg.DefaultState)
	assert.False(t, cfg.LookupEnabled)
	assert.Equal(t, "http://localhost:9999/ws", cfg.LookupBaseURL)
	assert.Equal(t, 2*time.Second, cfg.LookupTimeout)
	assert.Equal(t, time.Duration(0), cfg.LookupDelay)
	assert.Equal(t, 50, cfg.LookupCacheSize)
	assert.Equal(t, "http://localhost:9999", cfg.ProbeURL)
	assert.Equal(t, time.Second, cfg.ProbeTimeout)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "routes", cfg.KafkaTopic)
	assert.True(t, cfg.PublishEnabled())
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"OUTPUT_LOCALE", "fr"},
		{"MAX_UPLOAD_BYTES", "0"},
		{"MAX_UPLOAD_BYTES", "lots"},
		{"LOOKUP_CACHE_SIZE", "-1"},
		{"LOOKUP_TIMEOUT", "bad"},
		{"LOOKUP_TIMEOUT", "0s"},
		{"LOOKUP_DELAY", "-1s"},
		{"PROBE_TIMEOUT", "bad"},
		{"HTTP_WRITE_TIMEOUT", "0s"},
		{"HTTP_WRITE_TIMEOUT", "soon"},
		{"LOOKUP_ENABLED", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_ColumnMapFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
columns:
  - column: postal_code
    aliases: ["CEP destino"]
`), 0o600))
	t.Setenv("COLUMN_MAP_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	cols := cfg.Schema.Resolve([]string{"CEP destino"})
	assert.Equal(t, []domain.Column{domain.ColPostalCode}, cols)
}

func TestLoad_ColumnMapFileMissing(t *testing.T) {
	t.Setenv("COLUMN_MAP_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COLUMN_MAP_FILE")
}

func TestParseColumnMap_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty document", ``},
		{"unknown column", "columns:\n  - column: weight\n    aliases: [\"Peso\"]\n"},
		{"no aliases", "columns:\n  - column: city\n    aliases: []\n"},
		{"blank alias", "columns:\n  - column: city\n    aliases: [\"\"]\n"},
		{"malformed yaml", "columns: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseColumnMap([]byte(tt.yaml), domain.DefaultSchema())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "COLUMN_MAP_FILE")
		})
	}
}

func TestParseColumnMap_MergesRepeatedColumns(t *testing.T) {
	schema, err := parseColumnMap([]byte(`
columns:
  - column: street
    aliases: ["Rua destino"]
  - column: street
    aliases: ["Logradouro destino"]
`), domain.DefaultSchema())
	require.NoError(t, err)

	cols := schema.Resolve([]string{"Logradouro destino"})
	assert.Equal(t, []domain.Column{domain.ColStreet}, cols)
}
