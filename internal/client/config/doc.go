// Package config loads runtime configuration for the Oculog CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file and the process environment (see parseEnv). Variables
//     already set in the environment are not overridden by the file.
//  3. Optional JSON file (see parseJson) selected via -c / -config or
//     $OCULOG_CONFIG.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Environment
//
//	OCULOG_API_URL, OCULOG_GEO_URL, OCULOG_DB, OCULOG_SECRET,
//	OCULOG_MIN_LOADING (ms or "2s"), OCULOG_PAGE_SIZE,
//	OCULOG_LOG_LEVEL, OCULOG_LOG_FILE
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "database_path": "oculog.db",
//	  "min_loading_time": "2s",
//	  "weather_timeout": "10s",
//	  "page_size": 20
//	}
package config
