package netx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBody(t *testing.T) {
	t.Run("small body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("hello"))
		}))
		defer ts.Close()

		resp, err := http.Get(ts.URL)
		require.NoError(t, err)
		b, err := ReadBody(resp)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(b))
	})

	t.Run("too large", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", MaxBodySize+10)))
		}))
		defer ts.Close()

		resp, err := http.Get(ts.URL)
		require.NoError(t, err)
		_, err = ReadBody(resp)
		require.ErrorIs(t, err, ErrBodyTooLarge)
	})
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		path  string
		query url.Values
		want  string
	}{
		{"plain", "http://localhost:8000", "/health", nil, "http://localhost:8000/health"},
		{"trailing slash", "http://localhost:8000/", "/logs", nil, "http://localhost:8000/logs"},
		{"prefix kept", "http://api.local/v1", "logs/abc", nil, "http://api.local/v1/logs/abc"},
		{"query", "http://h", "/weather", url.Values{"latitude": {"1.5"}, "longitude": {"2"}}, "http://h/weather?latitude=1.5&longitude=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildURL(tt.base, tt.path, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := BuildURL("http://[::1", "/x", nil)
	require.Error(t, err)
}

func TestIsTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	c := &http.Client{Timeout: 20 * time.Millisecond}
	_, err := c.Get(ts.URL)
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.False(t, IsTimeout(context.Canceled))
}

func TestIsConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	addr := ts.URL
	ts.Close()

	_, err := http.Get(addr)
	require.Error(t, err)
	assert.True(t, IsConnectionRefused(err))
}
