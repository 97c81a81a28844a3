// Package logging is the structured logger shared by the client and the
// devapi backend. New returns a log/slog backed implementation; Nop discards
// everything and is what tests pass around.
package logging

import "context"

// Logger takes a message plus alternating keys and values:
//
//	log.Info(ctx, "logs refreshed", "page", page, "total", total)
//
// Components tag their output with With("module", ModuleSync) and the like.
type Logger interface {
	// Debug is for request traces and state transitions.
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn is for failures the caller recovers from, such as a weather
	// fetch that falls back to an error state.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record.
	With(args ...any) Logger
}

// Module names used with With("module", ...) by client components.
const (
	ModuleAuth     = "auth"
	ModuleNetwork  = "network"
	ModuleLocation = "location"
	ModuleWeather  = "weather"
	ModuleSync     = "sync"
)
