package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/dmitrijs2005/oculog/internal/common"
)

const (
	maxCityLength = 50
	maxTextLength = 500
	maxHours      = 24
	maxWater      = 10
	maxUnits      = 20
)

// field is one prompt of the log form. current is what a blank answer
// means: the default on add. On edit a blank answer keeps the stored value.
type field struct {
	label    string
	required bool
	current  string
	set      func(string) error
}

// logForm collects a condition log interactively. Answers are written into
// in, so on edit only the typed fields end up in the update.
type logForm struct {
	in      models.LogUpdate
	editing bool
	fields  []field
}

// newAddForm prefills the date and, when known, the city.
func newAddForm(today time.Time, city string) *logForm {
	cur := models.LogEntry{LogDate: today.Format(common.DateLayout)}
	if city != "" {
		cur.City = &city
	}
	f := &logForm{}
	f.fields = f.build(cur)
	return f
}

func newEditForm(e models.LogEntry) *logForm {
	f := &logForm{editing: true}
	f.fields = f.build(e)
	return f
}

func (f *logForm) build(cur models.LogEntry) []field {
	in := &f.in
	return []field{
		{label: "Date (YYYY-MM-DD)", required: true, current: cur.LogDate, set: dateSetter(&in.LogDate)},
		{label: "City", required: true, current: fmtStr(cur.City), set: citySetter(&in.City)},
		{label: "Overall rating (1-10)", required: true, current: fmtInt(cur.OverallRating), set: intSetter("Overall rating", &in.OverallRating, 1, 10)},

		{label: "Burning (0-10)", required: true, current: fmtInt(cur.Burning), set: intSetter("Burning", &in.Burning, 0, 10)},
		{label: "Redness (0-10)", required: true, current: fmtInt(cur.Redness), set: intSetter("Redness", &in.Redness, 0, 10)},
		{label: "Itching (0-10)", required: true, current: fmtInt(cur.Itching), set: intSetter("Itching", &in.Itching, 0, 10)},
		{label: "Tearing (0-10)", required: true, current: fmtInt(cur.Tearing), set: intSetter("Tearing", &in.Tearing, 0, 10)},
		{label: "Swelling (0-10)", required: true, current: fmtInt(cur.Swelling), set: intSetter("Swelling", &in.Swelling, 0, 10)},
		{label: "Dryness (0-10)", required: true, current: fmtInt(cur.Dryness), set: intSetter("Dryness", &in.Dryness, 0, 10)},

		{label: "Screen time (hours)", required: true, current: fmtFloat(cur.ScreenTimeHours), set: floatSetter("Screen time", &in.ScreenTimeHours, maxHours)},
		{label: "Sleep hours", required: true, current: fmtFloat(cur.SleepHours), set: floatSetter("Sleep hours", &in.SleepHours, maxHours)},
		{label: "Sleep quality (0-10)", required: true, current: fmtInt(cur.SleepQuality), set: intSetter("Sleep quality", &in.SleepQuality, 0, 10)},
		{label: "Stress level (0-10)", required: true, current: fmtInt(cur.StressLevel), set: intSetter("Stress level", &in.StressLevel, 0, 10)},
		{label: "Outdoor hours", required: true, current: fmtFloat(cur.OutdoorHours), set: floatSetter("Outdoor hours", &in.OutdoorHours, maxHours)},
		{label: "Water intake (L)", current: fmtFloat(cur.WaterIntakeLiters), set: floatSetter("Water intake", &in.WaterIntakeLiters, maxWater)},
		{label: "Caffeine cups", current: fmtInt(cur.CaffeineCups), set: intSetter("Caffeine cups", &in.CaffeineCups, 0, maxUnits)},
		{label: "Alcohol units", current: fmtInt(cur.AlcoholUnits), set: intSetter("Alcohol units", &in.AlcoholUnits, 0, maxUnits)},

		{label: "Used artificial tears (y/n)", current: fmtBool(cur.UsedArtificialTears), set: boolSetter(&in.UsedArtificialTears)},
		{label: "Used warm compress (y/n)", current: fmtBool(cur.UsedWarmCompress), set: boolSetter(&in.UsedWarmCompress)},
		{label: "Used lid scrub (y/n)", current: fmtBool(cur.UsedLidScrub), set: boolSetter(&in.UsedLidScrub)},
		{label: "Used prescription drops (y/n)", current: fmtBool(cur.UsedPrescriptionDrops), set: boolSetter(&in.UsedPrescriptionDrops)},
		{label: "Took omega-3 (y/n)", current: fmtBool(cur.UsedOmega3), set: boolSetter(&in.UsedOmega3)},
		{label: "Used humidifier (y/n)", current: fmtBool(cur.UsedHumidifier), set: boolSetter(&in.UsedHumidifier)},
		{label: "Wore contacts (y/n)", current: fmtBool(cur.WoreContacts), set: boolSetter(&in.WoreContacts)},
		{label: "AC exposure (y/n)", current: fmtBool(cur.ACExposure), set: boolSetter(&in.ACExposure)},
		{label: "Heating exposure (y/n)", current: fmtBool(cur.HeatingExposure), set: boolSetter(&in.HeatingExposure)},

		{label: "Comments", current: fmtStr(cur.Comments), set: textSetter("Comments", &in.Comments)},
		{label: "Treatment notes", current: fmtStr(cur.TreatmentsNotes), set: textSetter("Treatment notes", &in.TreatmentsNotes)},
	}
}

// fill asks every field in order. A rejected answer is reported through warn
// and asked again; an error from ask aborts the form.
func (f *logForm) fill(ask func(prompt string) (string, error), warn func(msg string)) error {
	for _, fd := range f.fields {
		prompt := fd.label
		if fd.current != "" {
			prompt += " [" + fd.current + "]"
		}

		for {
			s, err := ask(prompt)
			if err != nil {
				return err
			}

			if s == "" {
				if f.editing {
					break
				}
				if fd.current == "" {
					if fd.required {
						warn(requiredLabel(fd.label) + " is required")
						continue
					}
					break
				}
				s = fd.current
			}

			if err := fd.set(s); err != nil {
				warn(err.Error())
				continue
			}
			break
		}
	}
	return nil
}

func requiredLabel(label string) string {
	if i := strings.Index(label, " ("); i > 0 {
		return label[:i]
	}
	return label
}

// toCreate returns the POST body. Callers must fill the form first.
func (f *logForm) toCreate() models.LogCreate {
	return models.LogCreate{
		LogDate:         deref(f.in.LogDate),
		City:            deref(f.in.City),
		OverallRating:   f.in.OverallRating,
		Comments:        f.in.Comments,
		Symptoms:        f.in.Symptoms,
		Lifestyle:       f.in.Lifestyle,
		Treatments:      f.in.Treatments,
		Environment:     f.in.Environment,
		TreatmentsNotes: f.in.TreatmentsNotes,
	}
}

func (f *logForm) toUpdate() models.LogUpdate { return f.in }

func dateSetter(dst **string) func(string) error {
	return func(s string) error {
		if _, err := time.Parse(common.DateLayout, s); err != nil {
			return errors.New("Date must be in YYYY-MM-DD format")
		}
		*dst = &s
		return nil
	}
}

func citySetter(dst **string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		switch {
		case s == "":
			return errors.New("City is required")
		case len([]rune(s)) > maxCityLength:
			return fmt.Errorf("City must be %d characters or less", maxCityLength)
		}
		*dst = &s
		return nil
	}
}

func intSetter(name string, dst **int, lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%s must be a whole number", name)
		}
		if n < lo || n > hi {
			return fmt.Errorf("%s must be between %d and %d", name, lo, hi)
		}
		*dst = &n
		return nil
	}
}

func floatSetter(name string, dst **float64, hi float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%s must be a number", name)
		}
		if v < 0 {
			return fmt.Errorf("%s cannot be negative", name)
		}
		if v > hi {
			return fmt.Errorf("%s cannot exceed %g", name, hi)
		}
		*dst = &v
		return nil
	}
}

func boolSetter(dst **bool) func(string) error {
	return func(s string) error {
		var v bool
		switch strings.ToLower(s) {
		case "y", "yes":
			v = true
		case "n", "no":
		default:
			return errors.New("answer y or n")
		}
		*dst = &v
		return nil
	}
}

func textSetter(name string, dst **string) func(string) error {
	return func(s string) error {
		if len([]rune(s)) > maxTextLength {
			return fmt.Errorf("%s must be %d characters or less", name, maxTextLength)
		}
		*dst = &s
		return nil
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func fmtStr(p *string) string { return deref(p) }

func fmtInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func fmtFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func fmtBool(p *bool) string {
	switch {
	case p == nil:
		return ""
	case *p:
		return "y"
	default:
		return "n"
	}
}
