package cli

import (
	"bufio"
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/oculog/internal/client/client"
	"github.com/dmitrijs2005/oculog/internal/client/location"
	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/dmitrijs2005/oculog/internal/client/secrets"
	"github.com/dmitrijs2005/oculog/internal/client/services"
	"github.com/dmitrijs2005/oculog/internal/devapi/config"
	"github.com/dmitrijs2005/oculog/internal/devapi/httpapi"
	"github.com/dmitrijs2005/oculog/internal/devapi/logs"
	"github.com/dmitrijs2005/oculog/internal/devapi/users"
	"github.com/dmitrijs2005/oculog/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixedLocator struct{ fix location.Fix }

func (l fixedLocator) Locate(context.Context) (location.Fix, error) { return l.fix, nil }

// newTestApp wires an App against an in-process devapi server.
func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	stubTerminal(t, false)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	us := users.NewService(users.NewMemoryRepository(), users.NewMemoryRefreshTokens(), cfg).WithBcryptCost(bcrypt.MinCost)
	srv := httpapi.NewServer(cfg.Addr, logging.Nop(), us, logs.NewService(logs.NewMemoryRepository()))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	ctx := context.Background()
	api := client.NewHTTPClient(ts.URL, client.WithHTTPClient(ts.Client()))
	session := services.NewSessionManager(api, secrets.NewMemoryStore(), logging.Nop())
	api.SetTokenSource(session)

	loc := fixedLocator{fix: location.Fix{Coordinate: models.Coordinate{Latitude: 56.95, Longitude: 24.1}, City: "Riga"}}
	tracker := location.NewTracker(ctx, loc, logging.Nop())
	data := services.NewDataSync(ctx, api, tracker, services.NewWeatherSync(api, logging.Nop()), logging.Nop(),
		services.WithMinLoadingTime(0))

	var out bytes.Buffer
	app := newApp(session, data, strings.NewReader(""), &out, logging.Nop())
	t.Cleanup(func() { _ = app.Close() })
	return app, &out
}

// feed runs the REPL over lines and returns what it printed.
func feed(t *testing.T, a *App, out *bytes.Buffer, lines ...string) string {
	t.Helper()
	out.Reset()
	a.reader = bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, a.runREPL(context.Background()))
	return out.String()
}

func blanks(n int) []string { return make([]string, n) }

// addAnswers fills the add form for today in Riga.
func addAnswers(rating string) []string {
	lines := []string{"", "Riga", rating, "1", "1", "1", "1", "1", "1", "6", "7", "5", "3", "2"}
	lines = append(lines, blanks(12)...) // optional numbers and yes/no flags
	return append(lines, "ok", "")
}

func signup(t *testing.T, a *App, out *bytes.Buffer) {
	t.Helper()
	got := feed(t, a, out, "signup", "ann@example.com", "password1", "password1")
	require.Contains(t, got, "Logged in as ann@example.com")
}

func TestREPL_RequiresLogin(t *testing.T) {
	a, out := newTestApp(t)

	got := feed(t, a, out, "help", "list", "add", "locate", "frobnicate", "about", "exit")
	assert.Contains(t, got, "signup                 create an account")
	assert.NotContains(t, got, "record a new log")
	assert.Equal(t, 3, strings.Count(got, "Please log in first"))
	assert.Contains(t, got, "Unknown command: frobnicate")
	assert.Contains(t, got, "Oculog v0.1.0")
	assert.Contains(t, got, "Bye!")
}

func TestREPL_SignupValidation(t *testing.T) {
	a, out := newTestApp(t)

	got := feed(t, a, out,
		"signup", "ann@example.com", "password1", "password2",
		"signup", "ann@example.com", "short", "short",
	)
	assert.Contains(t, got, "Passwords do not match")
	assert.Contains(t, got, "Password must be at least 8 characters")
	assert.False(t, a.isLoggedIn())
}

func TestREPL_LoginErrors(t *testing.T) {
	a, out := newTestApp(t)
	signup(t, a, out)
	feed(t, a, out, "logout")
	require.False(t, a.isLoggedIn())

	got := feed(t, a, out, "login", "ann@example.com", "wrong-password")
	assert.Contains(t, got, "Invalid email or password")

	got = feed(t, a, out, "signup", "ann@example.com", "password1", "password1")
	assert.Contains(t, got, "Email already registered")

	got = feed(t, a, out, "login", "ann@example.com", "password1")
	assert.Contains(t, got, "Logged in as ann@example.com")
	assert.Contains(t, got, "API: ok")
}

func TestREPL_LogLifecycle(t *testing.T) {
	a, out := newTestApp(t)
	signup(t, a, out)

	got := feed(t, a, out, append([]string{"add"}, addAnswers("7")...)...)
	assert.Contains(t, got, "Saved log")

	st := a.data.State()
	require.Len(t, st.Logs, 1)
	id := st.Logs[0].ID
	short := shortID(id)

	got = feed(t, a, out, "list")
	assert.Contains(t, got, short)
	assert.Contains(t, got, "Last 30 days, sorted by date desc")
	assert.Contains(t, got, "Page 1 of 1 (1 logs)")

	got = feed(t, a, out, append([]string{"add"}, addAnswers("5")...)...)
	assert.Contains(t, got, "A log already exists for")
	assert.Contains(t, got, `Use "edit `+short+`" to change it`)

	edit := append([]string{"edit " + short[:4], "", "", "9"}, blanks(25)...)
	got = feed(t, a, out, edit...)
	assert.Contains(t, got, "Overall rating (1-10) [7]")
	assert.Contains(t, got, "Updated log "+short)
	e, ok := a.data.FindLog(id)
	require.True(t, ok)
	assert.Equal(t, 9, *e.OverallRating)
	assert.Equal(t, "ok", *e.Comments)

	got = feed(t, a, out, "show "+short)
	assert.Contains(t, got, id.String())
	assert.Contains(t, got, "Riga")

	got = feed(t, a, out, "sort rating", "order asc", "filter 7d", "range 2024-01-01 2024-06-30")
	assert.Contains(t, got, "Last 7 days, sorted by rating asc")
	assert.Contains(t, got, "Date range cannot exceed 3 months")

	got = feed(t, a, out, "filter 30d", "delete "+short, "n", "delete "+short, "y")
	assert.Contains(t, got, "Cancelled")
	assert.Contains(t, got, "Deleted log")
	assert.Empty(t, a.data.State().Logs)
}

func TestREPL_WeatherAndLogout(t *testing.T) {
	a, out := newTestApp(t)
	signup(t, a, out)
	a.data.Wait()

	got := feed(t, a, out, "weather", "weather refresh", "status")
	assert.Contains(t, got, "Synthetic station")
	assert.Contains(t, got, "°C")
	assert.Contains(t, got, "User:    ann@example.com")
	assert.Contains(t, got, "Location: Riga")

	got = feed(t, a, out, "logout", "list")
	assert.Contains(t, got, "Logged out")
	assert.Contains(t, got, "Please log in first")
	assert.Empty(t, a.data.State().Logs)
}

func TestREPL_LocateAndBackgroundNotices(t *testing.T) {
	a, out := newTestApp(t)
	signup(t, a, out)
	a.data.Wait()
	feed(t, a, out, "about")

	got := feed(t, a, out, "locate")
	assert.Contains(t, got, "Location: Riga")

	a.data.RetryWeather(context.Background())
	got = feed(t, a, out, "about")
	assert.Contains(t, got, "Weather updated: Synthetic station")

	got = feed(t, a, out, "weather refresh")
	assert.Equal(t, 1, strings.Count(got, "Synthetic station"), "shown once, not again as a notice")

	got = feed(t, a, out, "about")
	assert.NotContains(t, got, "Weather updated")
}

func TestNotices_LatestPerKind(t *testing.T) {
	var n notices
	n.set(noticeWeather, "first")
	n.set(noticeLocation, "lost")
	n.set(noticeWeather, "second")

	assert.Equal(t, []string{"second", "lost"}, n.drain())
	assert.Empty(t, n.drain())

	n.set(noticeLocation, "lost")
	n.drop(noticeLocation)
	assert.Empty(t, n.drain())
}

func TestREPL_EndOfInputInsideForm(t *testing.T) {
	a, out := newTestApp(t)
	signup(t, a, out)

	got := feed(t, a, out, "add", "", "Riga")
	assert.Contains(t, got, "Overall rating (1-10)")
	assert.Empty(t, a.data.State().Logs)
}

func TestRun_PrintsWelcome(t *testing.T) {
	a, out := newTestApp(t)
	a.reader = bufio.NewReader(strings.NewReader("about\nexit\n"))

	require.NoError(t, a.Run(context.Background()))
	assert.True(t, strings.HasPrefix(out.String(), "Oculog v0.1.0"))
	assert.Contains(t, out.String(), "Bye!")
}
