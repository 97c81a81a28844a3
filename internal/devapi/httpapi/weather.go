package httpapi

import (
	"math"
	"time"

	"github.com/dmitrijs2005/oculog/internal/client/models"
)

var syntheticConditions = []struct {
	name, icon string
}{
	{"Clear", "01d"},
	{"Few clouds", "02d"},
	{"Scattered clouds", "03d"},
	{"Overcast", "04d"},
	{"Drizzle", "09d"},
	{"Rain", "10d"},
	{"Mist", "50d"},
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// SyntheticWeather derives a stable snapshot from the coordinate, so the same
// point always reports the same conditions within an hour.
func SyntheticWeather(lat, lon float64, now time.Time) models.Weather {
	seed := math.Abs(math.Sin(lat*12.9898 + lon*78.233))

	temp := round1(28 - math.Abs(lat)*0.45 + seed*6)
	humidity := 35 + int(seed*55)
	pressure := round1(1000 + seed*30)
	wind := round1(seed * 25)
	aqi := 1 + int(seed*4.999)
	uv := round1(math.Max(0, 10-math.Abs(lat)/9) * seed)
	pollen := int(seed * 120)
	c := syntheticConditions[int(seed*float64(len(syntheticConditions)))%len(syntheticConditions)]
	recorded := now.UTC().Truncate(time.Hour).Format(time.RFC3339)
	name := "Synthetic station"

	return models.Weather{
		LocationName:    &name,
		Latitude:        &lat,
		Longitude:       &lon,
		TemperatureC:    &temp,
		Condition:       &c.name,
		IconCode:        &c.icon,
		HumidityPercent: &humidity,
		PressureHpa:     &pressure,
		WindSpeedKmh:    &wind,
		AirQualityIndex: &aqi,
		UVIndex:         &uv,
		PollenCount:     &pollen,
		RecordedAt:      &recorded,
	}
}
