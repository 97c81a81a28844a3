// Package services contains the stateful client services.
// This file defines DataSync: the startup sequence, the paged and sorted
// log list, log mutations and the location to weather hand-off.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/oculog/internal/client/apierr"
	"github.com/dmitrijs2005/oculog/internal/client/client"
	"github.com/dmitrijs2005/oculog/internal/client/location"
	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/dmitrijs2005/oculog/internal/client/observe"
	"github.com/dmitrijs2005/oculog/internal/client/prefs"
	"github.com/dmitrijs2005/oculog/internal/logging"
	"github.com/google/uuid"
)

const (
	DefaultPageSize       = 20
	DefaultMinLoadingTime = 2 * time.Second

	apiStatusChecking = "Checking..."
	apiStatusOffline  = "offline"

	msgAPINotRunning = "API not running. Start the Oculog API server and retry."
)

// DataState is the snapshot emitted by DataSync.
type DataState struct {
	Loading       models.LoadingState
	APIStatus     string
	Logs          []models.LogEntry
	Query         models.ListQuery
	IsLoadingLogs bool
	// ListError is the recoverable list banner; the previous Logs stay.
	ListError string
}

// DataSyncOption configures a DataSync.
type DataSyncOption func(*DataSync)

// WithPageSize sets the page size sent with every list request. Values
// below 1 keep DefaultPageSize.
func WithPageSize(n int) DataSyncOption {
	return func(d *DataSync) {
		if n > 0 {
			d.pageSize = n
		}
	}
}

// WithMinLoadingTime sets how long LoadData keeps the loading state at
// least. Zero disables the floor.
func WithMinLoadingTime(t time.Duration) DataSyncOption {
	return func(d *DataSync) { d.minLoading = t }
}

// WithClock replaces the wall clock used for the loading floor and for
// resolving date presets.
func WithClock(c Clock) DataSyncOption {
	return func(d *DataSync) { d.clock = c }
}

// WithPreferences restores the list sort from p on construction and saves
// it back after every sort change.
func WithPreferences(p prefs.Store) DataSyncOption {
	return func(d *DataSync) { d.prefs = p }
}

// DataSync owns the condition log list and drives the location to weather
// chain.
type DataSync struct {
	client     client.Client
	tracker    *location.Tracker
	weather    *WeatherSync
	log        logging.Logger
	clock      Clock
	pageSize   int
	minLoading time.Duration
	base       context.Context
	prefs      prefs.Store

	state *observe.Value[DataState]

	mu        sync.Mutex
	lastCoord *models.Coordinate
	wg        sync.WaitGroup
	unsub     func()
}

// NewDataSync wires DataSync to the tracker. Weather fetches triggered by
// location changes run in the background under ctx.
func NewDataSync(ctx context.Context, c client.Client, tracker *location.Tracker, weather *WeatherSync, log logging.Logger, opts ...DataSyncOption) *DataSync {
	d := &DataSync{
		client:     c,
		tracker:    tracker,
		weather:    weather,
		log:        log.With("module", logging.ModuleSync),
		clock:      realClock{},
		pageSize:   DefaultPageSize,
		minLoading: DefaultMinLoadingTime,
		base:       ctx,
	}
	for _, o := range opts {
		o(d)
	}

	d.state = observe.NewValue(DataState{
		Loading:   models.Loading(),
		APIStatus: apiStatusChecking,
		Query:     d.restoreSort(ctx, DefaultQuery(d.pageSize)),
	})
	d.unsub = tracker.Subscribe(d.onLocation)
	return d
}

func (d *DataSync) restoreSort(ctx context.Context, q models.ListQuery) models.ListQuery {
	if d.prefs == nil {
		return q
	}
	saved, err := d.prefs.LoadSort(ctx, prefs.Sort{Field: q.SortField, Order: q.SortOrder})
	if err != nil {
		d.log.Warn(ctx, "failed to restore sort, using default", "error", err)
		return q
	}
	q.SortField, q.SortOrder = saved.Field, saved.Order
	return q
}

func (d *DataSync) saveSort(ctx context.Context) {
	if d.prefs == nil {
		return
	}
	q := d.State().Query
	if err := d.prefs.SaveSort(ctx, prefs.Sort{Field: q.SortField, Order: q.SortOrder}); err != nil {
		d.log.Warn(ctx, "failed to save sort", "error", err)
	}
}

// State returns the current snapshot.
func (d *DataSync) State() DataState { return d.state.Get() }

// Subscribe calls fn with every new snapshot until cancel is called.
func (d *DataSync) Subscribe(fn func(DataState)) (cancel func()) {
	return d.state.Subscribe(fn)
}

// Close detaches from the tracker and waits for background weather fetches.
func (d *DataSync) Close() {
	d.unsub()
	d.Wait()
}

// Wait blocks until background location and weather work has finished.
func (d *DataSync) Wait() {
	d.tracker.Wait()
	d.wg.Wait()
}

func (d *DataSync) update(fn func(*DataState)) {
	d.state.Update(func(s DataState) (DataState, bool) {
		fn(&s)
		return s, true
	})
}

func (d *DataSync) onLocation(s location.State) {
	if s.Coordinate == nil {
		return
	}
	c := *s.Coordinate

	d.mu.Lock()
	if d.lastCoord != nil && *d.lastCoord == c {
		d.mu.Unlock()
		return
	}
	d.lastCoord = &c
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.weather.FetchWeather(d.base, c.Latitude, c.Longitude)
	}()
}

// LoadData runs the startup sequence: health check, first page, minimum
// loading time, then a background location request. If ctx ends before the
// minimum loading time has passed the state stays Loading and no location
// is requested.
func (d *DataSync) LoadData(ctx context.Context) {
	start := d.clock.Now()
	d.update(func(s *DataState) {
		s.Loading = models.Loading()
		s.APIStatus = apiStatusChecking
	})

	health, err := d.client.Health(ctx)
	if err != nil {
		d.log.Error(ctx, "health check failed", "error", err)
		d.update(func(s *DataState) { s.APIStatus = apiStatusOffline })
		if d.waitFloor(ctx, start) != nil {
			return
		}
		d.update(func(s *DataState) { s.Loading = models.LoadFailed(msgAPINotRunning) })
		return
	}
	d.log.Info(ctx, "api is up", "status", health.Status)
	d.update(func(s *DataState) { s.APIStatus = health.Status })

	_ = d.RefreshLogs(ctx, 1)

	if d.waitFloor(ctx, start) != nil {
		return
	}
	d.update(func(s *DataState) { s.Loading = models.Loaded() })

	d.tracker.Request()
}

// waitFloor sleeps out the rest of the minimum loading time. A non-nil
// error means ctx ended first and the caller must not finish loading.
func (d *DataSync) waitFloor(ctx context.Context, start time.Time) error {
	if err := ctx.Err(); err != nil {
		d.log.Debug(ctx, "loading cancelled", "error", err)
		return err
	}
	remaining := d.minLoading - d.clock.Now().Sub(start)
	if remaining <= 0 {
		return nil
	}
	if err := d.clock.Sleep(ctx, remaining); err != nil {
		d.log.Debug(ctx, "loading floor interrupted", "error", err)
		return err
	}
	return nil
}

// Retry re-runs LoadData.
func (d *DataSync) Retry(ctx context.Context) { d.LoadData(ctx) }

// RefreshLogs fetches page of the current query and replaces the list.
// On failure the list error is set and the previous logs are kept.
func (d *DataSync) RefreshLogs(ctx context.Context, page int) error {
	return d.fetch(ctx, page, true)
}

func (d *DataSync) fetch(ctx context.Context, page int, clampToLast bool) error {
	q := d.State().Query
	startDate, endDate, err := ResolveRange(q, d.clock.Now())
	if err != nil {
		d.update(func(s *DataState) { s.ListError = err.Error() })
		return err
	}

	d.update(func(s *DataState) {
		s.IsLoadingLogs = true
		s.ListError = ""
	})

	resp, err := d.client.ListLogs(ctx, models.LogFilter{
		StartDate: startDate,
		EndDate:   endDate,
		Page:      page,
		PageSize:  d.pageSize,
		SortField: q.SortField,
		SortOrder: q.SortOrder,
	})
	if err != nil {
		d.log.Error(ctx, "failed to load logs", "page", page, "error", err)
		d.update(func(s *DataState) {
			s.IsLoadingLogs = false
			s.ListError = listErrorMessage(err)
		})
		return err
	}

	totalPages := max(1, resp.TotalPages)
	if clampToLast && resp.Page > totalPages && resp.Total > 0 {
		d.log.Info(ctx, "page past the end, loading last page", "page", resp.Page, "total_pages", totalPages)
		return d.fetch(ctx, totalPages, false)
	}

	current := resp.Page
	if current < 1 {
		current = page
	}
	current = min(max(current, 1), totalPages)

	d.log.Debug(ctx, "logs loaded", "page", current, "total_pages", totalPages, "total", resp.Total)
	d.update(func(s *DataState) {
		s.Logs = resp.Items
		s.Query.CurrentPage = current
		s.Query.TotalPages = totalPages
		s.Query.TotalLogs = resp.Total
		s.Query.PageSize = d.pageSize
		s.IsLoadingLogs = false
	})
	return nil
}

func listErrorMessage(err error) string {
	var apiErr *apierr.Error
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return "Failed to load logs: " + apiErr.Message
		}
		return "Failed to load logs (" + string(apiErr.Kind) + ")"
	case errors.Is(err, client.ErrUnavailable):
		return "Failed to load logs: could not reach the server"
	case errors.Is(err, client.ErrDecode):
		return "Failed to load logs: unexpected server response"
	default:
		return "Failed to load logs"
	}
}

// GoToPage loads page n. Out-of-range pages are ignored.
func (d *DataSync) GoToPage(ctx context.Context, n int) error {
	if n < 1 || n > d.State().Query.TotalPages {
		return nil
	}
	return d.RefreshLogs(ctx, n)
}

// NextPage loads the page after the current one, if any.
func (d *DataSync) NextPage(ctx context.Context) error {
	return d.GoToPage(ctx, d.State().Query.CurrentPage+1)
}

// PrevPage loads the page before the current one, if any.
func (d *DataSync) PrevPage(ctx context.Context) error {
	return d.GoToPage(ctx, d.State().Query.CurrentPage-1)
}

func (d *DataSync) resetAndFetch(ctx context.Context, fn func(q *models.ListQuery)) error {
	before := d.State().Query
	d.update(func(s *DataState) {
		fn(&s.Query)
		s.Query.CurrentPage = 1
	})
	if after := d.State().Query; after.SortField != before.SortField || after.SortOrder != before.SortOrder {
		d.saveSort(ctx)
	}
	return d.RefreshLogs(ctx, 1)
}

// SetPreset selects a relative date preset. PresetCustom keeps the current
// custom range and fails if none was set.
func (d *DataSync) SetPreset(ctx context.Context, p models.DatePreset) error {
	if p == models.PresetCustom {
		q := d.State().Query
		if err := ValidateCustomRange(q.Start, q.End); err != nil {
			return err
		}
	}
	return d.resetAndFetch(ctx, func(q *models.ListQuery) { q.Preset = p })
}

// SetCustomRange selects an explicit range. Invalid ranges are rejected
// before any state changes.
func (d *DataSync) SetCustomRange(ctx context.Context, start, end string) error {
	if err := ValidateCustomRange(start, end); err != nil {
		return err
	}
	return d.resetAndFetch(ctx, func(q *models.ListQuery) {
		q.Preset = models.PresetCustom
		q.Start = start
		q.End = end
	})
}

// SetSort sorts by field. Selecting the active field flips the order; a new
// field starts descending. The new sort is saved before the fetch, so it is
// kept even when the fetch fails.
func (d *DataSync) SetSort(ctx context.Context, field models.SortField) error {
	return d.resetAndFetch(ctx, func(q *models.ListQuery) {
		if q.SortField == field {
			q.SortOrder = q.SortOrder.Toggle()
			return
		}
		q.SortField = field
		q.SortOrder = models.SortDesc
	})
}

// SetSortOrder keeps the sort field and sets the order. It is saved like
// SetSort.
func (d *DataSync) SetSortOrder(ctx context.Context, order models.SortOrder) error {
	return d.resetAndFetch(ctx, func(q *models.ListQuery) { q.SortOrder = order })
}

// DismissListError clears the list banner without refetching.
func (d *DataSync) DismissListError() {
	d.update(func(s *DataState) { s.ListError = "" })
}

// Clear drops loaded logs and resets the query, keeping the API status and
// the sort.
func (d *DataSync) Clear() {
	d.update(func(s *DataState) {
		q := DefaultQuery(d.pageSize)
		q.SortField, q.SortOrder = s.Query.SortField, s.Query.SortOrder
		s.Logs = nil
		s.Query = q
		s.ListError = ""
	})
}

// FindLog looks id up in the loaded page.
func (d *DataSync) FindLog(id uuid.UUID) (models.LogEntry, bool) {
	for _, e := range d.State().Logs {
		if e.ID == id {
			return e, true
		}
	}
	return models.LogEntry{}, false
}

func (d *DataSync) currentPage() int { return d.State().Query.CurrentPage }

// CreateLog posts a new entry and reloads the current page.
// Backend rejections are returned as *apierr.Error.
func (d *DataSync) CreateLog(ctx context.Context, in models.LogCreate) (*models.LogEntry, error) {
	e, err := d.client.CreateLog(ctx, in)
	if err != nil {
		d.log.Warn(ctx, "create log failed", "date", in.LogDate, "error", err)
		return nil, err
	}
	d.log.Info(ctx, "log created", "id", e.ID)
	_ = d.RefreshLogs(ctx, d.currentPage())
	return e, nil
}

// UpdateLog sends the changed fields of id and reloads the current page.
func (d *DataSync) UpdateLog(ctx context.Context, id uuid.UUID, in models.LogUpdate) (*models.LogEntry, error) {
	e, err := d.client.UpdateLog(ctx, id, in)
	if err != nil {
		d.log.Warn(ctx, "update log failed", "id", id, "error", err)
		return nil, err
	}
	d.log.Info(ctx, "log updated", "id", id)
	_ = d.RefreshLogs(ctx, d.currentPage())
	return e, nil
}

// DeleteLog removes id and reloads the current page, which may then be
// clamped to the new last page.
func (d *DataSync) DeleteLog(ctx context.Context, id uuid.UUID) error {
	if err := d.client.DeleteLog(ctx, id); err != nil {
		d.log.Warn(ctx, "delete log failed", "id", id, "error", err)
		return err
	}
	d.log.Info(ctx, "log deleted", "id", id)
	_ = d.RefreshLogs(ctx, d.currentPage())
	return nil
}

// RetryWeather refetches weather for the last known coordinate, or asks
// the tracker for a new fix when there is none.
func (d *DataSync) RetryWeather(ctx context.Context) {
	d.mu.Lock()
	last := d.lastCoord
	d.mu.Unlock()

	if last == nil {
		d.log.Info(ctx, "no location yet, requesting one")
		d.tracker.Request()
		return
	}
	d.weather.FetchWeather(ctx, last.Latitude, last.Longitude)
}

// Weather exposes the weather service fed by location changes.
func (d *DataSync) Weather() *WeatherSync { return d.weather }

// Tracker exposes the location tracker DataSync listens to.
func (d *DataSync) Tracker() *location.Tracker { return d.tracker }
