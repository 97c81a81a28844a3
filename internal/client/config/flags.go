package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/oculog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   API base URL
//	-g string   geolocation lookup URL
//	-d string   token database path
//	-k string   token store passphrase
//	-m int      minimum loading time (in milliseconds)
//	-p int      page size
//	-l string   log level
//	-f string   log file ("" for stderr)
//
// args is filtered with flagx.FilterArgs first, so flags owned by other
// components do not break parsing.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-k", "-m", "-p", "-l", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.GeoLookupURL, "g", cfg.GeoLookupURL, "geolocation lookup URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "token database path")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "token store passphrase")
	minLoading := fs.Int("m", int(cfg.MinLoadingTime.Milliseconds()), "minimum loading time (in milliseconds)")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "page size")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFile, "f", cfg.LogFile, "log file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.MinLoadingTime = time.Duration(*minLoading) * time.Millisecond
}
