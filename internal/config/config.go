package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/route-formatter/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
	// WriteTimeout bounds one upload request end to end, including paced
	// lookups. Raise it with LOOKUP_DELAY for manifests with many postal codes.
	WriteTimeout time.Duration

	// Output and defaults.
	Locale        domain.Locale
	DefaultCity   string
	DefaultState  string
	ColumnMapFile string
	Schema        domain.Schema

	// Postal code lookup configuration.
	LookupEnabled   bool
	LookupBaseURL   string
	LookupTimeout   time.Duration
	LookupDelay     time.Duration
	LookupCacheSize int
	ProbeURL        string
	ProbeTimeout    time.Duration

	// Optional stop publisher; disabled when no brokers are set.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	locale, err := domain.ParseLocale(sharedcfg.EnvOrDefault("OUTPUT_LOCALE", "en"))
	if err != nil {
		return nil, fmt.Errorf("invalid OUTPUT_LOCALE: %w", err)
	}

	maxUpload, err := parsePositiveInt("MAX_UPLOAD_BYTES", 32<<20)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("LOOKUP_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	lookupTimeout, err := parseDuration("LOOKUP_TIMEOUT", "5s", false)
	if err != nil {
		return nil, err
	}
	lookupDelay, err := parseDuration("LOOKUP_DELAY", "300ms", true)
	if err != nil {
		return nil, err
	}
	probeTimeout, err := parseDuration("PROBE_TIMEOUT", "3s", false)
	if err != nil {
		return nil, err
	}
	writeTimeout, err := parseDuration("HTTP_WRITE_TIMEOUT", "5m", false)
	if err != nil {
		return nil, err
	}

	lookupEnabled := true
	if v := os.Getenv("LOOKUP_ENABLED"); v != "" {
		lookupEnabled, err = strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("invalid LOOKUP_ENABLED")
		}
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		MaxUploadBytes:  int64(maxUpload),
		WriteTimeout:    writeTimeout,

		Locale:        locale,
		DefaultCity:   sharedcfg.EnvOrDefault("DEFAULT_CITY", "São José dos Campos"),
		DefaultState:  sharedcfg.EnvOrDefault("DEFAULT_STATE", "São Paulo"),
		ColumnMapFile: os.Getenv("COLUMN_MAP_FILE"),
		Schema:        domain.DefaultSchema(),

		LookupEnabled:   lookupEnabled,
		LookupBaseURL:   sharedcfg.EnvOrDefault("LOOKUP_BASE_URL", "https://viacep.com.br/ws"),
		LookupTimeout:   lookupTimeout,
		LookupDelay:     lookupDelay,
		LookupCacheSize: cacheSize,
		ProbeURL:        sharedcfg.EnvOrDefault("PROBE_URL", "https://viacep.com.br"),
		ProbeTimeout:    probeTimeout,

		KafkaTopic: sharedcfg.EnvOrDefault("KAFKA_TOPIC", "formatted-routes"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	if cfg.ColumnMapFile != "" {
		schema, err := LoadColumnMap(cfg.ColumnMapFile, cfg.Schema)
		if err != nil {
			return nil, err
		}
		cfg.Schema = schema
	}

	if cfg.LookupEnabled && cfg.LookupBaseURL == "" {
		return nil, errors.New("LOOKUP_ENABLED is true but LOOKUP_BASE_URL is empty")
	}
	if cfg.PublishEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// PublishEnabled reports whether grouped stops are published to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseDuration(key, def string, allowZero bool) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
