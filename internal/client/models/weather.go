package models

// Weather is the unified snapshot returned by GET /weather and embedded in
// log details. Every field is optional.
type Weather struct {
	LocationName    *string  `json:"location_name,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	TemperatureC    *float64 `json:"temperature_c,omitempty"`
	Condition       *string  `json:"condition,omitempty"`
	IconCode        *string  `json:"icon_code,omitempty"`
	HumidityPercent *int     `json:"humidity_percent,omitempty"`
	PressureHpa     *float64 `json:"pressure_hpa,omitempty"`
	WindSpeedKmh    *float64 `json:"wind_speed_kmh,omitempty"`
	AirQualityIndex *int     `json:"air_quality_index,omitempty"`
	UVIndex         *float64 `json:"uv_index,omitempty"`
	PollenCount     *int     `json:"pollen_count,omitempty"`
	RecordedAt      *string  `json:"recorded_at,omitempty"`
}

var iconNames = map[string]string{
	"01d": "sun",
	"01n": "moon",
	"02d": "cloud-sun",
	"02n": "cloud-moon",
	"03d": "cloud",
	"03n": "cloud",
	"04d": "smoke",
	"04n": "smoke",
	"09d": "cloud-drizzle",
	"09n": "cloud-drizzle",
	"10d": "cloud-rain",
	"10n": "cloud-rain",
	"11d": "cloud-bolt",
	"11n": "cloud-bolt",
	"13d": "snowflake",
	"13n": "snowflake",
	"50d": "cloud-fog",
	"50n": "cloud-fog",
}

// IconName maps the OpenWeather icon code to a symbol name.
func (w Weather) IconName() string {
	if w.IconCode != nil {
		if n, ok := iconNames[*w.IconCode]; ok {
			return n
		}
	}
	return "cloud"
}

// AQICategory names the 1-5 air quality index.
func (w Weather) AQICategory() string {
	if w.AirQualityIndex == nil {
		return "Unknown"
	}
	switch *w.AirQualityIndex {
	case 1:
		return "Good"
	case 2:
		return "Fair"
	case 3:
		return "Moderate"
	case 4:
		return "Poor"
	case 5:
		return "Very Poor"
	default:
		return "Unknown"
	}
}
