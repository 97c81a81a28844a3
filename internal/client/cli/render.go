package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/dmitrijs2005/oculog/internal/client/services"
	"github.com/google/uuid"
)

const shortIDLength = 8

var (
	colorHeader = lipgloss.Color("#fe8019")
	colorDim    = lipgloss.Color("#928374")
	colorRed    = lipgloss.Color("#fb4934")
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
)

// styles are bound to the output writer so colors are dropped when it is
// not a terminal.
type styles struct {
	header lipgloss.Style
	dim    lipgloss.Style
	err    lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header: r.NewStyle().Foreground(colorHeader).Bold(true),
		dim:    r.NewStyle().Foreground(colorDim),
		err:    r.NewStyle().Foreground(colorRed),
		ok:     r.NewStyle().Foreground(colorGreen),
		warn:   r.NewStyle().Foreground(colorYellow),
	}
}

func shortID(id uuid.UUID) string {
	return id.String()[:shortIDLength]
}

// renderTable pads every column to its widest visible cell.
func (s styles) renderTable(headers []string, rows [][]string) string {
	const gap = 2

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style(cell))
			if i < len(headers)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+gap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(c string) string { return s.header.Render(c) })
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("─", w)
	}
	writeRow(sep, func(c string) string { return s.dim.Render(c) })
	for _, row := range rows {
		writeRow(row, func(c string) string { return c })
	}
	return b.String()
}

func (s styles) renderLogs(d services.DataState) string {
	q := d.Query

	var b strings.Builder
	fmt.Fprintf(&b, "%s, sorted by %s %s\n", presetLabel(q), sortLabel(q.SortField), q.SortOrder)

	if d.ListError != "" {
		b.WriteString(s.err.Render(d.ListError) + "\n")
	}
	if len(d.Logs) == 0 {
		b.WriteString(s.dim.Render("No logs in this range.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(d.Logs))
	for _, e := range d.Logs {
		rows = append(rows, []string{
			shortID(e.ID),
			e.FormattedDate(),
			e.RatingDisplay(),
			fmtStrOr(e.City),
			e.TruncatedComments(),
		})
	}
	b.WriteString(s.renderTable([]string{"ID", "DATE", "RATING", "CITY", "COMMENTS"}, rows))
	fmt.Fprintf(&b, "Page %d of %d (%d logs)\n", q.CurrentPage, q.TotalPages, q.TotalLogs)
	return b.String()
}

func presetLabel(q models.ListQuery) string {
	if q.Preset == models.PresetCustom {
		return fmt.Sprintf("%s %s to %s", q.Preset.Label(), q.Start, q.End)
	}
	return q.Preset.Label()
}

func sortLabel(f models.SortField) string {
	if f == models.SortByRating {
		return "rating"
	}
	return "date"
}

// renderLog prints every recorded field of e.
func (s styles) renderLog(e models.LogEntry) string {
	var rows [][]string
	add := func(label, value string) {
		if value != "" {
			rows = append(rows, []string{label, value})
		}
	}

	add("ID", e.ID.String())
	add("Date", e.FormattedDate())
	add("City", fmtStr(e.City))
	add("Overall rating", fmtInt(e.OverallRating))
	add("Burning", fmtInt(e.Burning))
	add("Redness", fmtInt(e.Redness))
	add("Itching", fmtInt(e.Itching))
	add("Tearing", fmtInt(e.Tearing))
	add("Swelling", fmtInt(e.Swelling))
	add("Dryness", fmtInt(e.Dryness))
	add("Screen time", fmtFloat(e.ScreenTimeHours))
	add("Sleep hours", fmtFloat(e.SleepHours))
	add("Sleep quality", fmtInt(e.SleepQuality))
	add("Stress level", fmtInt(e.StressLevel))
	add("Outdoor hours", fmtFloat(e.OutdoorHours))
	add("Water intake (L)", fmtFloat(e.WaterIntakeLiters))
	add("Caffeine cups", fmtInt(e.CaffeineCups))
	add("Alcohol units", fmtInt(e.AlcoholUnits))
	add("Artificial tears", fmtBool(e.UsedArtificialTears))
	add("Warm compress", fmtBool(e.UsedWarmCompress))
	add("Lid scrub", fmtBool(e.UsedLidScrub))
	add("Prescription drops", fmtBool(e.UsedPrescriptionDrops))
	add("Omega-3", fmtBool(e.UsedOmega3))
	add("Humidifier", fmtBool(e.UsedHumidifier))
	add("Wore contacts", fmtBool(e.WoreContacts))
	add("AC exposure", fmtBool(e.ACExposure))
	add("Heating exposure", fmtBool(e.HeatingExposure))
	add("Comments", fmtStr(e.Comments))
	add("Treatment notes", fmtStr(e.TreatmentsNotes))

	out := s.renderTable([]string{"FIELD", "VALUE"}, rows)
	if e.Weather != nil {
		out += "Weather: " + describeWeather(*e.Weather) + "\n"
	}
	return out
}

func (s styles) renderWeather(st models.WeatherState) string {
	switch st.Phase {
	case models.WeatherLoading:
		return s.dim.Render("Loading weather...")
	case models.WeatherError:
		return s.err.Render(st.Message)
	case models.WeatherLoaded:
		return describeWeather(*st.Weather)
	default:
		return s.dim.Render("Weather not loaded yet")
	}
}

func describeWeather(w models.Weather) string {
	var parts []string
	if w.LocationName != nil {
		parts = append(parts, *w.LocationName)
	}
	if w.TemperatureC != nil {
		parts = append(parts, strconv.FormatFloat(*w.TemperatureC, 'f', 1, 64)+"°C")
	}
	if w.Condition != nil {
		parts = append(parts, fmt.Sprintf("%s (%s)", *w.Condition, w.IconName()))
	}
	if w.HumidityPercent != nil {
		parts = append(parts, fmt.Sprintf("humidity %d%%", *w.HumidityPercent))
	}
	if w.WindSpeedKmh != nil {
		parts = append(parts, fmt.Sprintf("wind %s km/h", strconv.FormatFloat(*w.WindSpeedKmh, 'f', 1, 64)))
	}
	if w.PressureHpa != nil {
		parts = append(parts, fmt.Sprintf("%s hPa", strconv.FormatFloat(*w.PressureHpa, 'f', 0, 64)))
	}
	if w.UVIndex != nil {
		parts = append(parts, "UV "+strconv.FormatFloat(*w.UVIndex, 'f', -1, 64))
	}
	if w.AirQualityIndex != nil {
		parts = append(parts, "air quality "+w.AQICategory())
	}
	if w.PollenCount != nil {
		parts = append(parts, fmt.Sprintf("pollen %d", *w.PollenCount))
	}
	if len(parts) == 0 {
		return "no data"
	}
	return strings.Join(parts, ", ")
}

func fmtStrOr(p *string) string {
	if p == nil || *p == "" {
		return "–"
	}
	return *p
}
