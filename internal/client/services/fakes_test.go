package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/oculog/internal/client/client"
	"github.com/dmitrijs2005/oculog/internal/client/location"
	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/google/uuid"
)

// fakeClient implements client.Client for service tests. Methods a test does
// not configure panic through the embedded nil interface.
type fakeClient struct {
	client.Client

	mu sync.Mutex

	healthErr error

	loginFn   func(email, password string) (*models.TokenPair, error)
	signupFn  func(email, password string) (*models.TokenPair, error)
	refreshFn func(token string) (*models.TokenPair, error)
	meFn      func(token string) (*models.User, error)
	listFn    func(f models.LogFilter) (*models.LogPage, error)
	createFn  func(in models.LogCreate) (*models.LogEntry, error)
	updateFn  func(id uuid.UUID, in models.LogUpdate) (*models.LogEntry, error)
	deleteErr error
	weatherFn func(lat, lon float64) (*models.Weather, error)

	healthCalls  int
	refreshCalls int
	meTokens     []string
	listCalls    []models.LogFilter
	deleted      []uuid.UUID
	weatherCalls int
}

func (f *fakeClient) Health(ctx context.Context) (*models.Health, error) {
	f.mu.Lock()
	f.healthCalls++
	f.mu.Unlock()
	if f.healthErr != nil {
		return nil, f.healthErr
	}
	return &models.Health{Status: "healthy"}, nil
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	return f.loginFn(email, password)
}

func (f *fakeClient) Signup(ctx context.Context, email, password string) (*models.TokenPair, error) {
	return f.signupFn(email, password)
}

func (f *fakeClient) Refresh(ctx context.Context, token string) (*models.TokenPair, error) {
	f.mu.Lock()
	f.refreshCalls++
	f.mu.Unlock()
	return f.refreshFn(token)
}

func (f *fakeClient) Me(ctx context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	f.meTokens = append(f.meTokens, token)
	f.mu.Unlock()
	return f.meFn(token)
}

func (f *fakeClient) ListLogs(ctx context.Context, filter models.LogFilter) (*models.LogPage, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, filter)
	f.mu.Unlock()
	return f.listFn(filter)
}

func (f *fakeClient) CreateLog(ctx context.Context, in models.LogCreate) (*models.LogEntry, error) {
	return f.createFn(in)
}

func (f *fakeClient) UpdateLog(ctx context.Context, id uuid.UUID, in models.LogUpdate) (*models.LogEntry, error) {
	return f.updateFn(id, in)
}

func (f *fakeClient) DeleteLog(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, id)
	f.mu.Unlock()
	return f.deleteErr
}

func (f *fakeClient) Weather(ctx context.Context, lat, lon float64) (*models.Weather, error) {
	f.mu.Lock()
	f.weatherCalls++
	f.mu.Unlock()
	return f.weatherFn(lat, lon)
}

func (f *fakeClient) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls)
}

func (f *fakeClient) lastList() models.LogFilter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls[len(f.listCalls)-1]
}

func (f *fakeClient) weatherCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.weatherCalls
}

// fakeClock advances only when slept or advanced explicitly. Sleeping on a
// done context fails without advancing, like the real clock.
type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 15, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) totalSlept() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total time.Duration
	for _, d := range c.slept {
		total += d
	}
	return total
}

type fakeLocator struct {
	mu    sync.Mutex
	fixes []location.Fix
	err   error
	calls int
}

func (f *fakeLocator) Locate(context.Context) (location.Fix, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return location.Fix{}, f.err
	}
	fix := f.fixes[0]
	if len(f.fixes) > 1 {
		f.fixes = f.fixes[1:]
	}
	return fix, nil
}

func (f *fakeLocator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func ptr[T any](v T) *T { return &v }

func entry(date string) models.LogEntry {
	return models.LogEntry{ID: uuid.New(), LogDate: date}
}
