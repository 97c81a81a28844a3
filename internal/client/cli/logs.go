package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/oculog/internal/client/apierr"
	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/google/uuid"
)

var presetAliases = map[string]models.DatePreset{
	"7d":  models.PresetLast7Days,
	"30d": models.PresetLast30Days,
	"3m":  models.PresetLast3Months,
}

// loadData runs the startup sequence and prints the first page or the
// startup error.
func (a *App) loadData(ctx context.Context) {
	a.println(a.styles.dim.Render("Loading..."))
	a.data.LoadData(ctx)

	st := a.data.State()
	if st.Loading.Phase == models.PhaseError {
		a.println(a.styles.err.Render(st.Loading.Message))
		a.println(`Type "retry" to try again.`)
		return
	}
	a.printf("API: %s\n", st.APIStatus)
	a.print(a.styles.renderLogs(st))
}

// List reloads the current page.
func (a *App) List(ctx context.Context) error {
	return a.showPage(a.data.RefreshLogs(ctx, a.data.State().Query.CurrentPage))
}

// showPage prints the list after a paging or query change. Failures that
// left a list banner are shown with the previous logs.
func (a *App) showPage(err error) error {
	if err != nil && a.data.State().ListError == "" {
		return err
	}
	a.print(a.styles.renderLogs(a.data.State()))
	return nil
}

// Next shows the following page.
func (a *App) Next(ctx context.Context) error {
	q := a.data.State().Query
	if q.CurrentPage >= q.TotalPages {
		a.println("Already on the last page")
		return nil
	}
	return a.showPage(a.data.NextPage(ctx))
}

func (a *App) Prev(ctx context.Context) error {
	if a.data.State().Query.CurrentPage <= 1 {
		a.println("Already on the first page")
		return nil
	}
	return a.showPage(a.data.PrevPage(ctx))
}

func (a *App) Page(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: page N")
	}
	n, err := strconv.Atoi(args[0])
	q := a.data.State().Query
	if err != nil || n < 1 || n > q.TotalPages {
		return fmt.Errorf("page must be between 1 and %d", q.TotalPages)
	}
	return a.showPage(a.data.GoToPage(ctx, n))
}

// Sort handles "sort date|rating". The API field names are accepted too.
func (a *App) Sort(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: sort date|rating")
	}
	var field models.SortField
	switch args[0] {
	case "date", string(models.SortByDate):
		field = models.SortByDate
	case "rating", string(models.SortByRating):
		field = models.SortByRating
	default:
		return fmt.Errorf("unknown sort field %q", args[0])
	}
	return a.showPage(a.data.SetSort(ctx, field))
}

func (a *App) Order(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: order asc|desc")
	}
	order, err := models.ParseSortOrder(args[0])
	if err != nil {
		return err
	}
	return a.showPage(a.data.SetSortOrder(ctx, order))
}

// Filter handles "filter 7d|30d|3m" and the preset names.
func (a *App) Filter(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: filter 7d|30d|3m")
	}
	p, ok := presetAliases[args[0]]
	if !ok {
		var err error
		if p, err = models.ParseDatePreset(args[0]); err != nil {
			return err
		}
	}
	return a.showPage(a.data.SetPreset(ctx, p))
}

// Range handles "range START END".
func (a *App) Range(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: range YYYY-MM-DD YYYY-MM-DD")
	}
	return a.showPage(a.data.SetCustomRange(ctx, args[0], args[1]))
}

// resolveLog finds a loaded log by full id or unique id prefix. A full id
// that is not on the current page is returned with an empty entry.
func (a *App) resolveLog(arg string) (uuid.UUID, models.LogEntry, bool, error) {
	if id, err := uuid.Parse(arg); err == nil {
		e, ok := a.data.FindLog(id)
		return id, e, ok, nil
	}

	arg = strings.ToLower(arg)
	var matches []models.LogEntry
	for _, e := range a.data.State().Logs {
		if strings.HasPrefix(e.ID.String(), arg) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return uuid.Nil, models.LogEntry{}, false, fmt.Errorf("no loaded log matches %q", arg)
	case 1:
		return matches[0].ID, matches[0], true, nil
	default:
		return uuid.Nil, models.LogEntry{}, false, fmt.Errorf("%q matches %d logs, type more of the id", arg, len(matches))
	}
}

// Show prints every field of one loaded log.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: show ID")
	}
	_, e, ok, err := a.resolveLog(args[0])
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("log is not on the current page")
	}
	a.print(a.styles.renderLog(e))
	return nil
}

// Add asks for a new log and saves it. A taken date is reported with the
// id of the existing entry.
func (a *App) Add(ctx context.Context) error {
	f := newAddForm(a.now(), a.data.Tracker().State().City)
	if err := f.fill(a.ask, a.warn); err != nil {
		return err
	}

	e, err := a.data.CreateLog(ctx, f.toCreate())
	if err != nil {
		return a.logError(err)
	}
	a.println(a.styles.ok.Render("Saved log " + shortID(e.ID) + " for " + e.FormattedDate()))
	return nil
}

// Edit asks for changes to one log, prefilled with its values.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: edit ID")
	}
	id, e, _, err := a.resolveLog(args[0])
	if err != nil {
		return err
	}

	a.println(a.styles.dim.Render("Press enter to keep a value."))
	f := newEditForm(e)
	if err := f.fill(a.ask, a.warn); err != nil {
		return err
	}

	upd := f.toUpdate()
	if upd == (models.LogUpdate{}) {
		a.println("Nothing changed")
		return nil
	}
	if _, err := a.data.UpdateLog(ctx, id, upd); err != nil {
		return a.logError(err)
	}
	a.println(a.styles.ok.Render("Updated log " + shortID(id)))
	return nil
}

// Delete removes a log after a y/n confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: delete ID")
	}
	id, e, ok, err := a.resolveLog(args[0])
	if err != nil {
		return err
	}

	what := shortID(id)
	if ok {
		what = e.FormattedDate()
	}
	answer, err := getSimpleText(a.reader, "Delete log "+what+"? (y/n)", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		a.println("Cancelled")
		return nil
	}

	if err := a.data.DeleteLog(ctx, id); err != nil {
		return a.logError(err)
	}
	a.println(a.styles.ok.Render("Deleted log " + what))
	return nil
}

// logError turns a rejected create or update into a user message. A taken
// date points at the existing entry.
func (a *App) logError(err error) error {
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != apierr.DuplicateDate {
		return err
	}

	id, ok := apiErr.ExistingLogID()
	if !ok {
		return errors.New("A log already exists for this date")
	}
	if e, found := a.data.FindLog(id); found {
		return fmt.Errorf("A log already exists for %s. Use \"edit %s\" to change it", e.FormattedDate(), shortID(id))
	}
	return fmt.Errorf("A log already exists for this date. Use \"edit %s\" to change it", id)
}

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) warn(msg string) {
	a.println(a.styles.warn.Render(msg))
}
