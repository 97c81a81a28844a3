package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestLogEntry_FormattedDate(t *testing.T) {
	assert.Equal(t, "May 1, 2024", LogEntry{LogDate: "2024-05-01"}.FormattedDate())
	assert.Equal(t, "not-a-date", LogEntry{LogDate: "not-a-date"}.FormattedDate())
}

func TestLogEntry_TruncatedComments(t *testing.T) {
	assert.Equal(t, "–", LogEntry{}.TruncatedComments())

	short := strings.Repeat("a", 50)
	assert.Equal(t, short, LogEntry{Comments: &short}.TruncatedComments())

	long := strings.Repeat("ü", 51)
	got := LogEntry{Comments: &long}.TruncatedComments()
	assert.Equal(t, strings.Repeat("ü", 47)+"...", got)
}

func TestLogEntry_RatingDisplay(t *testing.T) {
	assert.Equal(t, "–", LogEntry{}.RatingDisplay())
	assert.Equal(t, "7", LogEntry{OverallRating: ptr(7)}.RatingDisplay())
}

func TestLogEntry_JSON(t *testing.T) {
	body := `{
		"id": "6f1c2a34-8e1b-4c9a-9d4e-1a2b3c4d5e6f",
		"user_id": "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d",
		"log_date": "2024-05-01",
		"city": "Riga",
		"overall_rating": 6,
		"comments": null,
		"redness": 3,
		"sleep_hours": 7.5,
		"used_omega3": true,
		"ac_exposure": false,
		"weather": {"location_name": "Riga", "icon_code": "10d", "air_quality_index": 2},
		"created_at": "2024-05-01T08:00:00Z",
		"updated_at": "2024-05-01T08:00:00Z"
	}`

	var e LogEntry
	require.NoError(t, json.Unmarshal([]byte(body), &e))

	assert.Equal(t, "Riga", *e.City)
	assert.Nil(t, e.Comments)
	assert.Equal(t, 3, *e.Redness)
	assert.Equal(t, 7.5, *e.SleepHours)
	assert.True(t, *e.UsedOmega3)
	assert.False(t, *e.ACExposure)
	require.NotNil(t, e.Weather)
	assert.Equal(t, "cloud-rain", e.Weather.IconName())
	assert.Equal(t, "Fair", e.Weather.AQICategory())
}

func TestLogCreate_OmitsUnset(t *testing.T) {
	b, err := json.Marshal(LogCreate{LogDate: "2024-05-01", City: "Riga", Symptoms: Symptoms{Dryness: ptr(4)}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"log_date":"2024-05-01","city":"Riga","dryness":4}`, string(b))

	b, err = json.Marshal(LogUpdate{OverallRating: ptr(9)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"overall_rating":9}`, string(b))
}

func TestWeather_Helpers(t *testing.T) {
	assert.Equal(t, "cloud", Weather{}.IconName())
	assert.Equal(t, "cloud", Weather{IconCode: ptr("99x")}.IconName())
	assert.Equal(t, "moon", Weather{IconCode: ptr("01n")}.IconName())
	assert.Equal(t, "Unknown", Weather{}.AQICategory())
	assert.Equal(t, "Very Poor", Weather{AirQualityIndex: ptr(5)}.AQICategory())
	assert.Equal(t, "Unknown", Weather{AirQualityIndex: ptr(9)}.AQICategory())
}

func TestQueryParsing(t *testing.T) {
	p, err := ParseDatePreset("last_7_days")
	require.NoError(t, err)
	assert.Equal(t, PresetLast7Days, p)
	_, err = ParseDatePreset("yesterday")
	require.Error(t, err)

	f, err := ParseSortField("overall_rating")
	require.NoError(t, err)
	assert.Equal(t, SortByRating, f)
	_, err = ParseSortField("city")
	require.Error(t, err)

	o, err := ParseSortOrder("asc")
	require.NoError(t, err)
	assert.Equal(t, SortDesc, o.Toggle())
	assert.Equal(t, SortAsc, SortDesc.Toggle())
}

func TestStates(t *testing.T) {
	assert.Equal(t, "loading", Loading().String())
	assert.Equal(t, "error: boom", LoadFailed("boom").String())

	w := WeatherReady(Weather{Condition: ptr("Rain")})
	assert.Equal(t, WeatherLoaded, w.Phase)
	assert.Equal(t, "Rain", *w.Weather.Condition)
}
