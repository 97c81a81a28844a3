package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/oculog/internal/flagx"
	"github.com/dmitrijs2005/oculog/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// accept strings like "2s" or integer nanoseconds.
type JsonConfig struct {
	APIBaseURL     string          `json:"api_base_url"`
	GeoLookupURL   string          `json:"geo_lookup_url"`
	DatabasePath   string          `json:"database_path"`
	SecretKey      string          `json:"secret_key"`
	MinLoadingTime *timex.Duration `json:"min_loading_time"`
	WeatherTimeout *timex.Duration `json:"weather_timeout"`
	PageSize       int             `json:"page_size"`
	LogLevel       string          `json:"log_level"`
	LogFile        *string         `json:"log_file"`
}

// parseJson overlays cfg with the fields present in the JSON file named by
// -c/-config (or $OCULOG_CONFIG). It panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.GeoLookupURL != "" {
		cfg.GeoLookupURL = jc.GeoLookupURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.MinLoadingTime != nil {
		cfg.MinLoadingTime = jc.MinLoadingTime.Duration
	}
	if jc.WeatherTimeout != nil && jc.WeatherTimeout.Duration > 0 {
		cfg.WeatherTimeout = jc.WeatherTimeout.Duration
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.LogFile != nil {
		cfg.LogFile = *jc.LogFile
	}
}
