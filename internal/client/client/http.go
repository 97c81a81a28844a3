package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/oculog/internal/client/apierr"
	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/dmitrijs2005/oculog/internal/common"
	"github.com/dmitrijs2005/oculog/internal/logging"
	"github.com/dmitrijs2005/oculog/internal/netx"
	"github.com/google/uuid"
)

// DefaultWeatherTimeout bounds GET /weather unless WithWeatherTimeout is
// given.
const DefaultWeatherTimeout = 10 * time.Second

// HTTPClient implements Client over net/http with JSON bodies.
type HTTPClient struct {
	baseURL        string
	http           *http.Client
	log            logging.Logger
	weatherTimeout time.Duration

	mu     sync.RWMutex
	tokens TokenSource
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithLogger sets the logger used for request traces.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// WithWeatherTimeout sets the per-request timeout of Weather.
func WithWeatherTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.weatherTimeout = d }
}

// WithTokenSource sets where authorized calls get their token. See also
// SetTokenSource.
func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

// NewHTTPClient returns a client for the API at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:        baseURL,
		http:           &http.Client{},
		log:            logging.Nop(),
		weatherTimeout: DefaultWeatherTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.With("module", logging.ModuleNetwork)
	return c
}

// SetTokenSource installs the source used by authorized calls. The session
// manager is constructed after the client, so it is wired in here.
func (c *HTTPClient) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

func (c *HTTPClient) tokenSource() TokenSource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	token  string
	// ok lists the statuses treated as success; nil means any 2xx.
	ok  []int
	out any
}

func (c *HTTPClient) do(ctx context.Context, cl call) error {
	target, err := netx.BuildURL(c.baseURL, cl.path, cl.query)
	if err != nil {
		return err
	}

	var body *bytes.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	var req *http.Request
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, cl.method, target, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, cl.method, target, nil)
	}
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+cl.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", cl.method, "path", cl.path,
			"timeout", netx.IsTimeout(err), "refused", netx.IsConnectionRefused(err), "error", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	data, err := netx.ReadBody(resp)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrDecode, err)
	}

	c.log.Debug(ctx, "response", "method", cl.method, "path", cl.path, "status", resp.StatusCode)

	if !accepted(resp.StatusCode, cl.ok) {
		apiErr := apierr.Classify(resp.StatusCode, data)
		c.log.Info(ctx, "request rejected", "method", cl.method, "path", cl.path,
			"status", resp.StatusCode, "kind", apiErr.Kind)
		return apiErr
	}

	if cl.out == nil {
		return nil
	}
	if err := json.Unmarshal(data, cl.out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

func accepted(status int, ok []int) bool {
	if ok == nil {
		return status >= 200 && status < 300
	}
	return slices.Contains(ok, status)
}

// doAuthorized attaches the current access token and, on an unauthorized
// rejection, refreshes once and repeats the call.
func (c *HTTPClient) doAuthorized(ctx context.Context, cl call) error {
	ts := c.tokenSource()
	if ts != nil {
		cl.token, _ = ts.AccessToken(ctx)
	}

	err := c.do(ctx, cl)
	if err == nil || ts == nil || !apierr.IsKind(err, apierr.Unauthorized) {
		return err
	}

	c.log.Info(ctx, "access token rejected, refreshing", "path", cl.path)
	if !ts.Refresh(ctx) {
		return err
	}

	token, ok := ts.AccessToken(ctx)
	if !ok {
		return err
	}
	cl.token = token
	return c.do(ctx, cl)
}

// Health calls GET /health.
func (c *HTTPClient) Health(ctx context.Context) (*models.Health, error) {
	var h models.Health
	if err := c.do(ctx, call{method: http.MethodGet, path: "/health", out: &h}); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *HTTPClient) credentials(ctx context.Context, path, email, password string) (*models.TokenPair, error) {
	var tp models.TokenPair
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   path,
		body:   models.Credentials{Email: email, Password: password},
		out:    &tp,
	})
	if err != nil {
		return nil, err
	}
	if tp.AccessToken == "" || tp.RefreshToken == "" {
		return nil, fmt.Errorf("%w: token pair is incomplete", ErrDecode)
	}
	return &tp, nil
}

// Login posts the credentials to /auth/login and returns the token pair.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	return c.credentials(ctx, "/auth/login", email, password)
}

// Signup posts the credentials to /auth/signup and returns the token pair.
func (c *HTTPClient) Signup(ctx context.Context, email, password string) (*models.TokenPair, error) {
	return c.credentials(ctx, "/auth/signup", email, password)
}

// Refresh exchanges refreshToken for a new pair. It never retries.
func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	var tp models.TokenPair
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/refresh",
		body:   models.RefreshRequest{RefreshToken: refreshToken},
		out:    &tp,
	})
	if err != nil {
		return nil, err
	}
	if tp.AccessToken == "" || tp.RefreshToken == "" {
		return nil, fmt.Errorf("%w: token pair is incomplete", ErrDecode)
	}
	return &tp, nil
}

// Me returns the user for accessToken.
func (c *HTTPClient) Me(ctx context.Context, accessToken string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/auth/me", token: accessToken, out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListLogs fetches one page. Sort parameters are sent only when set.
func (c *HTTPClient) ListLogs(ctx context.Context, f models.LogFilter) (*models.LogPage, error) {
	q := url.Values{}
	q.Set("start_date", f.StartDate)
	q.Set("end_date", f.EndDate)
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("page_size", strconv.Itoa(f.PageSize))
	if f.SortField != "" {
		q.Set("sort_field", string(f.SortField))
	}
	if f.SortOrder != "" {
		q.Set("sort_order", string(f.SortOrder))
	}

	var page models.LogPage
	if err := c.doAuthorized(ctx, call{method: http.MethodGet, path: "/logs", query: q, out: &page}); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateLog posts a new entry and returns it as stored.
func (c *HTTPClient) CreateLog(ctx context.Context, in models.LogCreate) (*models.LogEntry, error) {
	var e models.LogEntry
	if err := c.doAuthorized(ctx, call{method: http.MethodPost, path: "/logs", body: in, out: &e}); err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateLog sends the non-nil fields of in.
func (c *HTTPClient) UpdateLog(ctx context.Context, id uuid.UUID, in models.LogUpdate) (*models.LogEntry, error) {
	var e models.LogEntry
	if err := c.doAuthorized(ctx, call{method: http.MethodPut, path: "/logs/" + id.String(), body: in, out: &e}); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteLog accepts 204 and 200 as success.
func (c *HTTPClient) DeleteLog(ctx context.Context, id uuid.UUID) error {
	return c.doAuthorized(ctx, call{
		method: http.MethodDelete,
		path:   "/logs/" + id.String(),
		ok:     []int{http.StatusNoContent, http.StatusOK},
	})
}

// Weather fetches the snapshot for a coordinate, bounded by the weather
// timeout. Any status other than 200 is returned as *apierr.Error.
func (c *HTTPClient) Weather(ctx context.Context, lat, lon float64) (*models.Weather, error) {
	ctx, cancel := context.WithTimeout(ctx, c.weatherTimeout)
	defer cancel()

	cl := call{
		method: http.MethodGet,
		path:   "/weather",
		query: url.Values{
			"latitude":  {strconv.FormatFloat(lat, 'f', -1, 64)},
			"longitude": {strconv.FormatFloat(lon, 'f', -1, 64)},
		},
		ok: []int{http.StatusOK},
	}
	if ts := c.tokenSource(); ts != nil {
		cl.token, _ = ts.AccessToken(ctx)
	}

	var w models.Weather
	cl.out = &w
	if err := c.do(ctx, cl); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.log.Warn(ctx, "weather request timed out", "timeout", c.weatherTimeout)
		}
		return nil, err
	}
	return &w, nil
}
