// Package services contains the stateful client services.
// This file defines WeatherSync, which keeps only the newest weather result.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/oculog/internal/client/apierr"
	"github.com/dmitrijs2005/oculog/internal/client/client"
	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/dmitrijs2005/oculog/internal/client/observe"
	"github.com/dmitrijs2005/oculog/internal/logging"
)

// WeatherSync fetches the weather snapshot. Only the most recent call may
// commit; late completions of earlier calls are dropped.
type WeatherSync struct {
	client client.Client
	log    logging.Logger
	state  *observe.Value[models.WeatherState]
	seq    atomic.Uint64
}

// NewWeatherSync returns a WeatherSync in the idle state.
func NewWeatherSync(c client.Client, log logging.Logger) *WeatherSync {
	return &WeatherSync{
		client: c,
		log:    log.With("module", logging.ModuleWeather),
		state:  observe.NewValue(models.WeatherState{}),
	}
}

// State returns the current weather state.
func (w *WeatherSync) State() models.WeatherState { return w.state.Get() }

// Subscribe calls fn with every committed weather state. Stale results are
// never delivered.
func (w *WeatherSync) Subscribe(fn func(models.WeatherState)) (cancel func()) {
	return w.state.Subscribe(fn)
}

func (w *WeatherSync) commit(seq uint64, st models.WeatherState) bool {
	return w.state.Update(func(cur models.WeatherState) (models.WeatherState, bool) {
		if w.seq.Load() != seq {
			return cur, false
		}
		return st, true
	})
}

// FetchWeather loads the snapshot for lat/lon. The request timeout is
// applied by the client.
func (w *WeatherSync) FetchWeather(ctx context.Context, lat, lon float64) {
	seq := w.seq.Add(1)
	w.commit(seq, models.WeatherFetching())
	w.log.Info(ctx, "fetching weather", "lat", lat, "lon", lon)

	snap, err := w.client.Weather(ctx, lat, lon)

	var next models.WeatherState
	if err != nil {
		next = models.WeatherFailed(weatherErrorMessage(err))
		w.log.Error(ctx, "weather fetch failed", "error", err)
	} else {
		next = models.WeatherReady(*snap)
	}

	if !w.commit(seq, next) {
		w.log.Debug(ctx, "stale weather result dropped", "seq", seq)
		return
	}
	if err == nil {
		name := "unknown"
		if snap.LocationName != nil {
			name = *snap.LocationName
		}
		w.log.Info(ctx, "weather loaded", "location", name)
	}
}

func weatherErrorMessage(err error) string {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("Weather API error (%d)", apiErr.Status)
	}
	return "Weather unavailable"
}
