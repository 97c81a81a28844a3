// Package location resolves the user's approximate coordinate and keeps the
// latest fix for subscribers.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/dmitrijs2005/oculog/internal/netx"
)

// DefaultLookupURL is the ip-api.com endpoint used when none is configured.
const DefaultLookupURL = "http://ip-api.com/json/?fields=status,lat,lon,city,country"

var (
	// ErrUndetermined means the lookup answered but without a usable fix.
	ErrUndetermined = errors.New("could not determine location")
	ErrUnavailable  = errors.New("location unavailable")
)

// Fix is one resolved position.
type Fix struct {
	Coordinate models.Coordinate
	City       string
	Country    string
}

// Provider resolves the current position.
type Provider interface {
	Locate(ctx context.Context) (Fix, error)
}

// IPProvider geolocates by public IP address.
type IPProvider struct {
	url  string
	http *http.Client
}

// NewIPProvider queries url, or DefaultLookupURL when url is empty, with hc.
func NewIPProvider(url string, hc *http.Client) *IPProvider {
	if url == "" {
		url = DefaultLookupURL
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return &IPProvider{url: url, http: hc}
}

// Locate asks the lookup service for the caller's position. Transport and
// decode failures wrap ErrUnavailable; a "fail" answer or a missing
// coordinate is ErrUndetermined.
func (p *IPProvider) Locate(ctx context.Context) (Fix, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Fix{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return Fix{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	body, err := netx.ReadBody(resp)
	if err != nil {
		return Fix{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var loc models.IPLocation
	if err := json.Unmarshal(body, &loc); err != nil {
		return Fix{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if loc.Status != "success" || loc.Lat == nil || loc.Lon == nil {
		return Fix{}, fmt.Errorf("%w: status %q", ErrUndetermined, loc.Status)
	}

	fix := Fix{Coordinate: models.Coordinate{Latitude: *loc.Lat, Longitude: *loc.Lon}}
	if loc.City != nil {
		fix.City = *loc.City
	}
	if loc.Country != nil {
		fix.Country = *loc.Country
	}
	return fix, nil
}
