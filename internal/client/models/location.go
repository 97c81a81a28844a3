package models

type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// IPLocation is the ip-api.com lookup response.
type IPLocation struct {
	Status  string   `json:"status"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	City    *string  `json:"city"`
	Country *string  `json:"country"`
}
