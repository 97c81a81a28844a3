package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/oculog/internal/client/apierr"
	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct {
	token     string
	next      string
	refreshOK bool
	refreshes atomic.Int32
}

func (f *fakeTokens) AccessToken(context.Context) (string, bool) {
	return f.token, f.token != ""
}

func (f *fakeTokens) Refresh(context.Context) bool {
	f.refreshes.Add(1)
	if !f.refreshOK {
		return false
	}
	f.token = f.next
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"type": "unauthorized", "message": "Token expired"})
}

func newTestServer(t *testing.T, r chi.Router) *HTTPClient {
	t.Helper()
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return NewHTTPClient(ts.URL)
}

func TestHealth(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	c := newTestServer(t, r)

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
}

func TestUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := NewHTTPClient(url).Health(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestDecodeError(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>ok</html>"))
	})
	c := newTestServer(t, r)

	_, err := c.Health(context.Background())
	require.ErrorIs(t, err, ErrDecode)
}

func TestLogin(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"type": "invalid_credentials", "message": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, models.TokenPair{AccessToken: "a", RefreshToken: "r", TokenType: "bearer"})
	})
	c := newTestServer(t, r)

	tp, err := c.Login(context.Background(), "me@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a", tp.AccessToken)
	assert.Equal(t, "r", tp.RefreshToken)

	_, err = c.Login(context.Background(), "me@example.com", "wrong")
	require.True(t, apierr.IsKind(err, apierr.InvalidCredentials))
}

func TestSignup_IncompletePair(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]string{"access_token": "a"})
	})
	c := newTestServer(t, r)

	_, err := c.Signup(context.Background(), "e", "p")
	require.ErrorIs(t, err, ErrDecode)
}

func TestMe_SendsBearer(t *testing.T) {
	id := uuid.New()
	r := chi.NewRouter()
	r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			unauthorized(w)
			return
		}
		writeJSON(w, http.StatusOK, models.User{ID: id, Login: "me", CreatedAt: "2024-01-01T00:00:00Z"})
	})
	c := newTestServer(t, r)

	u, err := c.Me(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)

	_, err = c.Me(context.Background(), "other")
	require.True(t, apierr.IsKind(err, apierr.Unauthorized))
}

func TestListLogs_QueryParameters(t *testing.T) {
	var got map[string]string
	r := chi.NewRouter()
	r.Get("/logs", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{}
		for k := range q {
			got[k] = q.Get(k)
		}
		writeJSON(w, http.StatusOK, models.LogPage{Items: []models.LogEntry{}, Total: 0, Page: 2, PageSize: 20, TotalPages: 1})
	})
	c := newTestServer(t, r)
	c.SetTokenSource(&fakeTokens{token: "t"})

	page, err := c.ListLogs(context.Background(), models.LogFilter{
		StartDate: "2024-04-01", EndDate: "2024-04-30", Page: 2, PageSize: 20,
		SortField: models.SortByRating, SortOrder: models.SortAsc,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, map[string]string{
		"start_date": "2024-04-01",
		"end_date":   "2024-04-30",
		"page":       "2",
		"page_size":  "20",
		"sort_field": "overall_rating",
		"sort_order": "asc",
	}, got)
}

func TestAuthorized_RefreshAndRetryOnce(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Get("/logs", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			unauthorized(w)
			return
		}
		writeJSON(w, http.StatusOK, models.LogPage{Page: 1, TotalPages: 1})
	})
	c := newTestServer(t, r)
	tokens := &fakeTokens{token: "stale", next: "fresh", refreshOK: true}
	c.SetTokenSource(tokens)

	_, err := c.ListLogs(context.Background(), models.LogFilter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(1), tokens.refreshes.Load())
}

func TestAuthorized_RefreshFails(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Delete("/logs/{id}", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		unauthorized(w)
	})
	c := newTestServer(t, r)
	tokens := &fakeTokens{token: "stale"}
	c.SetTokenSource(tokens)

	err := c.DeleteLog(context.Background(), uuid.New())
	require.True(t, apierr.IsKind(err, apierr.Unauthorized))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(1), tokens.refreshes.Load())
}

func TestAuthorized_NoRefreshOnOtherErrors(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/logs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"type": "duplicate_date", "message": "exists",
			"data": map[string]string{"existing_log_id": "6f1c2a34-8e1b-4c9a-9d4e-1a2b3c4d5e6f"},
		})
	})
	c := newTestServer(t, r)
	tokens := &fakeTokens{token: "t", refreshOK: true}
	c.SetTokenSource(tokens)

	_, err := c.CreateLog(context.Background(), models.LogCreate{LogDate: "2024-05-01", City: "Riga"})
	var apiErr *apierr.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierr.DuplicateDate, apiErr.Kind)
	id, ok := apiErr.ExistingLogID()
	require.True(t, ok)
	assert.Equal(t, "6f1c2a34-8e1b-4c9a-9d4e-1a2b3c4d5e6f", id.String())
	assert.Equal(t, int32(0), tokens.refreshes.Load())
}

func TestUpdateAndDelete(t *testing.T) {
	id := uuid.New()
	r := chi.NewRouter()
	r.Put("/logs/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in models.LogUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		rating := *in.OverallRating
		writeJSON(w, http.StatusOK, models.LogEntry{ID: uuid.MustParse(chi.URLParam(r, "id")), OverallRating: &rating})
	})
	r.Delete("/logs/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestServer(t, r)
	c.SetTokenSource(&fakeTokens{token: "t"})

	rating := 8
	e, err := c.UpdateLog(context.Background(), id, models.LogUpdate{OverallRating: &rating})
	require.NoError(t, err)
	assert.Equal(t, id, e.ID)
	assert.Equal(t, 8, *e.OverallRating)

	require.NoError(t, c.DeleteLog(context.Background(), id))
}

func TestDelete_UnexpectedSuccessStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/logs/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	c := newTestServer(t, r)

	err := c.DeleteLog(context.Background(), uuid.New())
	var apiErr *apierr.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusAccepted, apiErr.Status)
}

func TestWeather(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/weather", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		assert.Equal(t, "56.95", r.URL.Query().Get("latitude"))
		assert.Equal(t, "24.1", r.URL.Query().Get("longitude"))
		writeJSON(w, http.StatusOK, map[string]any{"location_name": "Riga", "temperature_c": 12.5})
	})
	c := newTestServer(t, r)
	c.SetTokenSource(&fakeTokens{token: "t"})

	w, err := c.Weather(context.Background(), 56.95, 24.1)
	require.NoError(t, err)
	assert.Equal(t, "Riga", *w.LocationName)
	assert.Equal(t, 12.5, *w.TemperatureC)
}

func TestWeather_NoRefreshAndStrictStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/weather", func(w http.ResponseWriter, r *http.Request) {
		unauthorized(w)
	})
	c := newTestServer(t, r)
	tokens := &fakeTokens{token: "t", refreshOK: true}
	c.SetTokenSource(tokens)

	_, err := c.Weather(context.Background(), 1, 2)
	var apiErr *apierr.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, int32(0), tokens.refreshes.Load())
}

func TestWeather_Timeout(t *testing.T) {
	release := make(chan struct{})
	r := chi.NewRouter()
	r.Get("/weather", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	ts := httptest.NewServer(r)
	defer ts.Close()
	defer close(release)

	c := NewHTTPClient(ts.URL, WithWeatherTimeout(30*time.Millisecond))
	_, err := c.Weather(context.Background(), 1, 2)
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
