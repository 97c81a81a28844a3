package config

import (
	"os"
	"time"
)

// DefaultGeoLookupURL is the IP geolocation endpoint.
const DefaultGeoLookupURL = "http://ip-api.com/json/?fields=status,lat,lon,city,country"

// Config holds runtime settings for the Oculog CLI.
//
// Fields:
//   - APIBaseURL: root of the Oculog REST API.
//   - GeoLookupURL: IP geolocation endpoint.
//   - DatabasePath: SQLite file holding the sealed tokens.
//   - SecretKey: passphrase the token store key is derived from.
//   - MinLoadingTime: floor for the startup loading screen.
//   - WeatherTimeout: bound on a single weather request.
//   - PageSize: log entries per page.
//   - LogLevel / LogFile: diagnostics; an empty LogFile means stderr.
type Config struct {
	APIBaseURL     string
	GeoLookupURL   string
	DatabasePath   string
	SecretKey      string
	MinLoadingTime time.Duration
	WeatherTimeout time.Duration
	PageSize       int
	LogLevel       string
	LogFile        string
}

// LoadDefaults populates c with local-development defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.GeoLookupURL = DefaultGeoLookupURL
	c.DatabasePath = "oculog.db"
	c.SecretKey = "oculog-local"
	c.MinLoadingTime = 2 * time.Second
	c.WeatherTimeout = 10 * time.Second
	c.PageSize = 20
	c.LogLevel = "info"
	c.LogFile = "oculog.log"
}

// LoadConfig builds a Config from ./.env, the environment and os.Args.
func LoadConfig() *Config {
	return Load(os.Args[1:], ".env")
}

// Load applies defaults, then envFile and the environment, then the JSON
// file named in args, then the flags in args. It panics on a malformed JSON
// file or flag value.
func Load(args []string, envFile string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, envFile)
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
