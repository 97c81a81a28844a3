package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	envAPIURL     = "OCULOG_API_URL"
	envGeoURL     = "OCULOG_GEO_URL"
	envDB         = "OCULOG_DB"
	envSecret     = "OCULOG_SECRET"
	envMinLoading = "OCULOG_MIN_LOADING"
	envPageSize   = "OCULOG_PAGE_SIZE"
	envLogLevel   = "OCULOG_LOG_LEVEL"
	envLogFile    = "OCULOG_LOG_FILE"
)

// parseEnv loads envFile (a missing file is not an error; variables already
// set in the environment win) and overlays the OCULOG_* variables. Values
// that fail to parse are ignored.
func parseEnv(cfg *Config, envFile string) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	setString(&cfg.APIBaseURL, envAPIURL)
	setString(&cfg.GeoLookupURL, envGeoURL)
	setString(&cfg.DatabasePath, envDB)
	setString(&cfg.SecretKey, envSecret)
	setString(&cfg.LogLevel, envLogLevel)
	if v, ok := os.LookupEnv(envLogFile); ok {
		cfg.LogFile = v
	}

	if v := os.Getenv(envMinLoading); v != "" {
		if d, ok := parseMillis(v); ok {
			cfg.MinLoadingTime = d
		}
	}
	if v := os.Getenv(envPageSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// parseMillis accepts a Go duration ("1500ms") or a bare number of
// milliseconds.
func parseMillis(v string) (time.Duration, bool) {
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		return d, true
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 {
		return time.Duration(n) * time.Millisecond, true
	}
	return 0, false
}
