package location

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/dmitrijs2005/oculog/internal/client/observe"
	"github.com/dmitrijs2005/oculog/internal/logging"
)

// State is the tracker snapshot. Coordinate is nil until the first fix.
type State struct {
	Coordinate   *models.Coordinate
	City         string
	ErrorMessage string
	IsRequesting bool
}

// Tracker holds the last known position and runs at most one lookup at a
// time.
type Tracker struct {
	provider Provider
	log      logging.Logger
	base     context.Context
	state    *observe.Value[State]
	wg       sync.WaitGroup
}

// NewTracker returns a tracker whose background requests run under ctx.
func NewTracker(ctx context.Context, p Provider, log logging.Logger) *Tracker {
	return &Tracker{
		provider: p,
		log:      log.With("module", logging.ModuleLocation),
		base:     ctx,
		state:    observe.NewValue(State{}),
	}
}

// State returns the current tracker snapshot.
func (t *Tracker) State() State { return t.state.Get() }

// Subscribe calls fn with every new snapshot until cancel is called.
func (t *Tracker) Subscribe(fn func(State)) (cancel func()) {
	return t.state.Subscribe(fn)
}

func (t *Tracker) begin() bool {
	return t.state.Update(func(s State) (State, bool) {
		if s.IsRequesting {
			return s, false
		}
		s.IsRequesting = true
		s.ErrorMessage = ""
		return s, true
	})
}

// Request starts a lookup in the background and returns immediately.
// It returns false when a lookup is already in flight.
func (t *Tracker) Request() bool {
	if !t.begin() {
		return false
	}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.resolve(t.base)
	}()
	return true
}

// Resolve performs a lookup in the caller's goroutine and returns the
// resulting state. If a lookup is already in flight the current state is
// returned unchanged.
func (t *Tracker) Resolve(ctx context.Context) State {
	if !t.begin() {
		return t.State()
	}
	t.resolve(ctx)
	return t.State()
}

// Wait blocks until background lookups finish.
func (t *Tracker) Wait() { t.wg.Wait() }

func (t *Tracker) resolve(ctx context.Context) {
	t.log.Info(ctx, "fetching location from IP")

	fix, err := t.provider.Locate(ctx)

	t.state.Update(func(s State) (State, bool) {
		s.IsRequesting = false
		if err != nil {
			s.ErrorMessage = errorMessage(err)
			return s, true
		}
		c := fix.Coordinate
		s.Coordinate = &c
		s.City = fix.City
		s.ErrorMessage = ""
		return s, true
	})

	if err != nil {
		t.log.Error(ctx, "location lookup failed", "error", err)
		return
	}
	t.log.Info(ctx, "got location", "lat", fix.Coordinate.Latitude, "lon", fix.Coordinate.Longitude, "city", fix.City)
}

func errorMessage(err error) string {
	if errors.Is(err, ErrUndetermined) {
		return "Could not determine location"
	}
	return "Location unavailable"
}
