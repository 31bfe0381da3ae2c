package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// GeoServer backend configuration.
	GeoServerURL       string
	GeoServerWorkspace string
	GeoServerUser      string
	GeoServerPassword  string

	// Coverage and layer names within the workspace.
	PrimaryCoverage string
	InfoCoverages   []string
	AOILayer        string

	// WindowSize is the point-sampling window edge length in pixels. Must be
	// a positive odd number so the window centers on the query point.
	WindowSize int

	MembershipTimeout time.Duration
	CoverageTimeout   time.Duration
	AreaTimeout       time.Duration

	MembershipCacheSize int

	// Kafka audit trail configuration.
	AuditEnabled bool
	KafkaBrokers []string
	AuditTopic   string
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is merged in first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	membershipTimeout, err := parsePositiveDuration("MEMBERSHIP_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	coverageTimeout, err := parsePositiveDuration("COVERAGE_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	areaTimeout, err := parsePositiveDuration("AREA_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}

	windowSize, err := parseWindowSize()
	if err != nil {
		return nil, err
	}

	auditEnabled := os.Getenv("AUDIT_ENABLED") == "true"

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		GeoServerURL:       envOrDefault("GEOSERVER_URL", "http://localhost:8080/geoserver"),
		GeoServerWorkspace: envOrDefault("GEOSERVER_WORKSPACE", "uhi"),
		GeoServerUser:      os.Getenv("GEOSERVER_USER"),
		GeoServerPassword:  os.Getenv("GEOSERVER_PASSWORD"),

		PrimaryCoverage: envOrDefault("PRIMARY_COVERAGE", "UHI"),
		InfoCoverages:   parseList(envOrDefault("INFO_COVERAGES", "LST,NDVI,NDBI")),
		AOILayer:        envOrDefault("AOI_LAYER", "aoi_boundary"),

		WindowSize:        windowSize,
		MembershipTimeout: membershipTimeout,
		CoverageTimeout:   coverageTimeout,
		AreaTimeout:       areaTimeout,

		MembershipCacheSize: parseMembershipCacheSize(),

		AuditEnabled: auditEnabled,
		KafkaBrokers: parseList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		AuditTopic:   envOrDefault("AUDIT_TOPIC", "heatlens-analyses"),
	}

	if cfg.GeoServerURL == "" {
		return nil, errors.New("GEOSERVER_URL is required")
	}
	if cfg.GeoServerWorkspace == "" {
		return nil, errors.New("GEOSERVER_WORKSPACE is required")
	}
	if cfg.PrimaryCoverage == "" {
		return nil, errors.New("PRIMARY_COVERAGE is required")
	}
	if cfg.AuditEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("AUDIT_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.AuditEnabled && cfg.AuditTopic == "" {
		return nil, errors.New("AUDIT_ENABLED is true but AUDIT_TOPIC is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseList splits a comma-separated value, trimming whitespace and dropping
// empty entries.
func parseList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

func parseWindowSize() (int, error) {
	s := envOrDefault("WINDOW_SIZE", "5")
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n%2 == 0 {
		return 0, errors.New("invalid WINDOW_SIZE: must be a positive odd integer")
	}
	return n, nil
}

func parseMembershipCacheSize() int {
	if s := os.Getenv("MEMBERSHIP_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
