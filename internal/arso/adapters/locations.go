package adapters

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
)

const locationsSource = "locations"

// LocationsAdapter fetches the ARSO gazetteer: every published location with
// its coordinates.
type LocationsAdapter struct {
	url     string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewLocationsAdapter(client *http.Client) *LocationsAdapter {
	return &LocationsAdapter{
		url:     "https://vreme.arso.gov.si/uploads/probase/www/fproduct/json/sl/locations.json",
		client:  client,
		circuit: newBreaker(locationsSource),
	}
}

// SetBaseURL overrides the upstream URL, for tests.
func (a *LocationsAdapter) SetBaseURL(u string) { a.url = u }

// Fetch returns all published locations.
func (a *LocationsAdapter) Fetch(ctx context.Context) ([]arso.Location, error) {
	var payload featureCollection
	if err := getJSON(ctx, a.client, a.circuit, locationsSource, a.url, &payload); err != nil {
		return nil, err
	}

	var out []arso.Location
	for _, f := range payload.Features {
		if f.Properties.Title == "" {
			continue
		}
		loc := arso.Location{Name: f.Properties.Title}
		if f.Geometry != nil && len(f.Geometry.Coordinates) >= 2 {
			loc.Lon = f.Geometry.Coordinates[0]
			loc.Lat = f.Geometry.Coordinates[1]
		}
		out = append(out, loc)
	}
	if len(out) == 0 {
		return nil, arso.NewSourceError(locationsSource, arso.KindIncomplete,
			fmt.Errorf("gazetteer contained no locations"))
	}
	return out, nil
}

// Resolve looks up the coordinates of a location by name, case-insensitively.
func (a *LocationsAdapter) Resolve(ctx context.Context, name string) (lat, lon float64, err error) {
	locations, err := a.Fetch(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, loc := range locations {
		if strings.EqualFold(loc.Name, name) {
			if loc.Lat == 0 && loc.Lon == 0 {
				break
			}
			return loc.Lat, loc.Lon, nil
		}
	}
	return 0, 0, arso.NewSourceError(locationsSource, arso.KindCoordinates,
		fmt.Errorf("no coordinates for %q", name))
}
