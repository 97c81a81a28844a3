package models

import (
	"strconv"
	"time"

	"github.com/dmitrijs2005/oculog/internal/common"
	"github.com/google/uuid"
)

const noValue = "–"

// LogEntry is one daily condition log as stored by the backend.
// Entries are replaced wholesale on refresh and never patched locally.
type LogEntry struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	LogDate       string    `json:"log_date"`
	City          *string   `json:"city"`
	OverallRating *int      `json:"overall_rating"`
	Comments      *string   `json:"comments"`
	CreatedAt     string    `json:"created_at"`
	UpdatedAt     string    `json:"updated_at"`

	Symptoms
	Lifestyle
	Treatments
	Environment

	TreatmentsNotes *string  `json:"treatments_notes"`
	Weather         *Weather `json:"weather,omitempty"`
}

// Symptoms are rated 0-10.
type Symptoms struct {
	Burning  *int `json:"burning,omitempty"`
	Redness  *int `json:"redness,omitempty"`
	Itching  *int `json:"itching,omitempty"`
	Tearing  *int `json:"tearing,omitempty"`
	Swelling *int `json:"swelling,omitempty"`
	Dryness  *int `json:"dryness,omitempty"`
}

type Lifestyle struct {
	ScreenTimeHours   *float64 `json:"screen_time_hours,omitempty"`
	SleepHours        *float64 `json:"sleep_hours,omitempty"`
	SleepQuality      *int     `json:"sleep_quality,omitempty"`
	WaterIntakeLiters *float64 `json:"water_intake_liters,omitempty"`
	CaffeineCups      *int     `json:"caffeine_cups,omitempty"`
	AlcoholUnits      *int     `json:"alcohol_units,omitempty"`
	StressLevel       *int     `json:"stress_level,omitempty"`
	OutdoorHours      *float64 `json:"outdoor_hours,omitempty"`
}

type Treatments struct {
	UsedArtificialTears   *bool `json:"used_artificial_tears,omitempty"`
	UsedWarmCompress      *bool `json:"used_warm_compress,omitempty"`
	UsedLidScrub          *bool `json:"used_lid_scrub,omitempty"`
	UsedPrescriptionDrops *bool `json:"used_prescription_drops,omitempty"`
	UsedOmega3            *bool `json:"used_omega3,omitempty"`
	UsedHumidifier        *bool `json:"used_humidifier,omitempty"`
}

type Environment struct {
	WoreContacts    *bool `json:"wore_contacts,omitempty"`
	ACExposure      *bool `json:"ac_exposure,omitempty"`
	HeatingExposure *bool `json:"heating_exposure,omitempty"`
}

// ParsedDate returns LogDate as a time in UTC.
func (e LogEntry) ParsedDate() (time.Time, bool) {
	t, err := time.Parse(common.DateLayout, e.LogDate)
	return t, err == nil
}

// FormattedDate renders LogDate as "Jan 2, 2006", or returns it unchanged
// when it is not a valid date.
func (e LogEntry) FormattedDate() string {
	t, ok := e.ParsedDate()
	if !ok {
		return e.LogDate
	}
	return t.Format("Jan 2, 2006")
}

// TruncatedComments shortens comments longer than 50 characters.
func (e LogEntry) TruncatedComments() string {
	if e.Comments == nil {
		return noValue
	}
	r := []rune(*e.Comments)
	if len(r) <= 50 {
		return *e.Comments
	}
	return string(r[:47]) + "..."
}

func (e LogEntry) RatingDisplay() string {
	if e.OverallRating == nil {
		return noValue
	}
	return strconv.Itoa(*e.OverallRating)
}

// LogCreate is the body of POST /logs. City is required by the backend.
type LogCreate struct {
	LogDate       string  `json:"log_date"`
	City          string  `json:"city"`
	OverallRating *int    `json:"overall_rating,omitempty"`
	Comments      *string `json:"comments,omitempty"`

	Symptoms
	Lifestyle
	Treatments
	Environment

	TreatmentsNotes *string `json:"treatments_notes,omitempty"`
}

// LogUpdate is the body of PUT /logs/{id}. Nil fields are left unchanged.
type LogUpdate struct {
	LogDate       *string `json:"log_date,omitempty"`
	City          *string `json:"city,omitempty"`
	OverallRating *int    `json:"overall_rating,omitempty"`
	Comments      *string `json:"comments,omitempty"`

	Symptoms
	Lifestyle
	Treatments
	Environment

	TreatmentsNotes *string `json:"treatments_notes,omitempty"`
}

// LogPage is one page of GET /logs.
type LogPage struct {
	Items      []LogEntry `json:"items"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
