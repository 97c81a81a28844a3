package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/oculog/internal/buildinfo"
	"github.com/dmitrijs2005/oculog/internal/client/apierr"
	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/dmitrijs2005/oculog/internal/client/services"
)

const (
	helpLoggedOut = `Available commands:
  signup                 create an account
  login                  sign in
  about                  show the version
  exit | quit            leave the program`

	helpLoggedIn = `Available commands:
  list                   reload and show the current page
  next | prev | page N   move between pages
  sort date|rating       sort by field (again to flip the order)
  order asc|desc         set the sort order
  filter 7d|30d|3m       show the last 7 days, 30 days or 3 months
  range START END        show a custom range (YYYY-MM-DD, at most 3 months)
  show ID                show every field of a log
  add                    record a new log
  edit ID                change a log (ID may be a prefix)
  delete ID              delete a log
  weather [refresh]      show the current weather
  locate                 look up the location again
  retry                  rerun the startup sequence
  dismiss                clear the list error
  status                 show session and API status
  logout                 sign out
  about                  show the version
  exit | quit            leave the program`
)

// publicCommands run without a session.
var publicCommands = map[string]bool{
	"help":     true,
	"signup":   true,
	"register": true,
	"login":    true,
	"about":    true,
	"exit":     true,
	"quit":     true,
}

func (a *App) printWelcome() {
	a.println(a.styles.header.Render(buildinfo.String()) + ` - type "help" for commands`)
}

func (a *App) prompt() string {
	if st := a.session.State(); st.IsAuthenticated && st.CurrentUser != nil {
		return fmt.Sprintf("oculog (%s)> ", st.CurrentUser.Login)
	}
	return "oculog> "
}

// runREPL reads commands until "exit", "quit" or end of input. Command errors
// are printed and the loop continues; only end of input inside a prompt
// stops it early. Background notices are printed before each prompt.
func (a *App) runREPL(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		a.printNotices()
		fmt.Fprint(a.out, a.prompt())
		line, err := readLine(a.reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				a.println()
				return nil
			}
			return err
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if cmd == "exit" || cmd == "quit" {
			a.println("Bye!")
			return nil
		}

		if err := a.dispatch(ctx, cmd, args); err != nil {
			if errors.Is(err, io.EOF) {
				a.println()
				return nil
			}
			a.log.Debug(ctx, "command failed", "command", cmd, "error", err)
			a.println(a.styles.err.Render(userMessage(err)))
		}
	}
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	if !publicCommands[cmd] && !a.isLoggedIn() {
		if _, known := commandSet[cmd]; known {
			return errors.New(`Please log in first ("login" or "signup")`)
		}
	}

	switch cmd {
	case "help":
		if a.isLoggedIn() {
			a.println(helpLoggedIn)
		} else {
			a.println(helpLoggedOut)
		}
		return nil
	case "about":
		a.println(buildinfo.String())
		return nil
	case "signup", "register":
		return a.Signup(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "status":
		return a.Status(ctx)
	case "l", "list":
		return a.List(ctx)
	case "next", "n":
		return a.Next(ctx)
	case "prev", "p":
		return a.Prev(ctx)
	case "page":
		return a.Page(ctx, args)
	case "sort":
		return a.Sort(ctx, args)
	case "order":
		return a.Order(ctx, args)
	case "filter":
		return a.Filter(ctx, args)
	case "range":
		return a.Range(ctx, args)
	case "show":
		return a.Show(ctx, args)
	case "add":
		return a.Add(ctx)
	case "edit":
		return a.Edit(ctx, args)
	case "delete", "rm":
		return a.Delete(ctx, args)
	case "weather":
		return a.Weather(ctx, args)
	case "locate":
		return a.Locate(ctx)
	case "retry":
		a.loadData(ctx)
		return nil
	case "dismiss":
		a.data.DismissListError()
		return nil
	default:
		return fmt.Errorf("Unknown command: %s", cmd)
	}
}

var commandSet = map[string]struct{}{
	"logout": {}, "status": {}, "l": {}, "list": {}, "next": {}, "n": {},
	"prev": {}, "p": {}, "page": {}, "sort": {}, "order": {}, "filter": {},
	"range": {}, "show": {}, "add": {}, "edit": {}, "delete": {}, "rm": {},
	"weather": {}, "retry": {}, "dismiss": {},
}

// Weather prints the latest weather state. "weather refresh" refetches it
// for the last known location first.
func (a *App) Weather(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if args[0] != "refresh" {
			return errors.New("usage: weather [refresh]")
		}
		a.data.RetryWeather(ctx)
		a.data.Wait()
	}

	loc := a.data.Tracker().State()
	if loc.ErrorMessage != "" && a.data.Weather().State().Phase != models.WeatherLoaded {
		a.println(a.styles.warn.Render(loc.ErrorMessage))
	}
	a.println(a.styles.renderWeather(a.data.Weather().State()))
	a.notices.drop(noticeWeather)
	return nil
}

// Locate repeats the location lookup in the foreground. A new coordinate
// starts a weather fetch, which "weather" shows once it finishes.
func (a *App) Locate(ctx context.Context) error {
	st := a.data.Tracker().Resolve(ctx)
	a.notices.drop(noticeLocation)
	switch {
	case st.IsRequesting:
		a.println(a.styles.dim.Render("Location lookup already running"))
	case st.ErrorMessage != "":
		return errors.New(st.ErrorMessage)
	case st.City != "":
		a.println("Location: " + st.City)
	case st.Coordinate != nil:
		a.printf("Location: %.2f, %.2f\n", st.Coordinate.Latitude, st.Coordinate.Longitude)
	default:
		a.println("Location unknown")
	}
	return nil
}

// userMessage prefers the auth message, then the backend's message, over the
// error chain text.
func userMessage(err error) string {
	var authErr *services.AuthError
	if errors.As(err, &authErr) {
		return authErr.Error()
	}
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
