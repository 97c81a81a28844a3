package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/oculog/internal/client/client"
	"github.com/dmitrijs2005/oculog/internal/client/config"
	"github.com/dmitrijs2005/oculog/internal/client/location"
	"github.com/dmitrijs2005/oculog/internal/client/prefs"
	"github.com/dmitrijs2005/oculog/internal/client/secrets"
	"github.com/dmitrijs2005/oculog/internal/client/services"
	"github.com/dmitrijs2005/oculog/internal/filex"
	"github.com/dmitrijs2005/oculog/internal/logging"
)

const geoLookupTimeout = 5 * time.Second

// App is the interactive client: a read-eval-print loop over the session
// and data services.
type App struct {
	session *services.SessionManager
	data    *services.DataSync
	reader  *bufio.Reader
	out     io.Writer
	styles  styles
	log     logging.Logger
	now     func() time.Time
	notices notices
	unsubs  []func()
	closers []func() error
}

// NewApp opens the local database (tokens and preferences) and wires the API
// client, session, location, weather and data layers. Background work runs
// under ctx.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	if err := filex.EnsureParentDir(cfg.DatabasePath); err != nil {
		return nil, err
	}
	db, err := secrets.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	store, err := secrets.NewSQLiteStore(ctx, db, cfg.SecretKey)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error opening token store: %w", err)
	}

	api := client.NewHTTPClient(cfg.APIBaseURL,
		client.WithLogger(logger),
		client.WithWeatherTimeout(cfg.WeatherTimeout),
	)
	session := services.NewSessionManager(api, store, logger)
	api.SetTokenSource(session)

	provider := location.NewIPProvider(cfg.GeoLookupURL, &http.Client{Timeout: geoLookupTimeout})
	tracker := location.NewTracker(ctx, provider, logger)
	data := services.NewDataSync(ctx, api, tracker, services.NewWeatherSync(api, logger), logger,
		services.WithPageSize(cfg.PageSize),
		services.WithMinLoadingTime(cfg.MinLoadingTime),
		services.WithPreferences(prefs.NewSQLiteStore(db)),
	)

	app := newApp(session, data, os.Stdin, os.Stdout, logger)
	app.closers = append(app.closers, db.Close)
	return app, nil
}

func newApp(session *services.SessionManager, data *services.DataSync, in io.Reader, out io.Writer, logger logging.Logger) *App {
	a := &App{
		session: session,
		data:    data,
		reader:  bufio.NewReader(in),
		out:     out,
		styles:  newStyles(out),
		log:     logger,
		now:     time.Now,
	}
	a.watch()
	return a
}

// Run restores the stored session, loads the first page when authenticated
// and then serves commands until exit or end of input.
func (a *App) Run(ctx context.Context) error {
	a.printWelcome()

	a.session.CheckAuth(ctx)
	if a.isLoggedIn() {
		a.loadData(ctx)
	} else if msg := a.session.State().Error; msg != "" {
		a.println(msg)
	}

	return a.runREPL(ctx)
}

// Close waits for background location and weather work and releases the
// database.
func (a *App) Close() error {
	for _, unsub := range a.unsubs {
		unsub()
	}
	a.data.Close()

	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.session.State().IsAuthenticated
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) print(s string) {
	fmt.Fprint(a.out, s)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
