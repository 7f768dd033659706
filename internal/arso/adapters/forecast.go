package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
)

const forecastSource = "forecast"

// ForecastBundle is the parsed multi-horizon product of the official
// forecast/observation API for one location.
type ForecastBundle struct {
	Observation arso.TimelineEntry
	Forecasts   map[arso.Horizon][]arso.ForecastEntry
	// Lat/Lon from the response geometry, used as a coordinate fallback
	// when the gazetteer lookup fails.
	Lat, Lon float64
	HasCoords bool
}

// ForecastAdapter fetches the official ARSO location API, which carries the
// basic observation plus the 1h/3h/6h/24h forecast timelines.
type ForecastAdapter struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewForecastAdapter(client *http.Client) *ForecastAdapter {
	return &ForecastAdapter{
		baseURL: "https://vreme.arso.gov.si/api/1.0/location/",
		client:  client,
		circuit: newBreaker(forecastSource),
	}
}

// SetBaseURL overrides the upstream URL, for tests.
func (a *ForecastAdapter) SetBaseURL(u string) { a.baseURL = u }

type officialResponse struct {
	Observation featureCollection `json:"observation"`
	Forecast1h  featureCollection `json:"forecast1h"`
	Forecast3h  featureCollection `json:"forecast3h"`
	Forecast6h  featureCollection `json:"forecast6h"`
	Forecast24h featureCollection `json:"forecast24h"`
}

// Fetch retrieves and parses the full bundle for a location name.
func (a *ForecastAdapter) Fetch(ctx context.Context, location string) (*ForecastBundle, error) {
	u := fmt.Sprintf("%s?location=%s", a.baseURL, url.QueryEscape(location))

	var payload officialResponse
	if err := getJSON(ctx, a.client, a.circuit, forecastSource, u, &payload); err != nil {
		return nil, err
	}

	bundle := &ForecastBundle{Forecasts: make(map[arso.Horizon][]arso.ForecastEntry, len(arso.Horizons))}

	if entries := timelineEntries(payload.Observation); len(entries) > 0 {
		if err := json.Unmarshal(entries[0], &bundle.Observation); err != nil {
			return nil, arso.NewSourceError(forecastSource, arso.KindMalformed, err)
		}
	}

	collections := map[arso.Horizon]featureCollection{
		arso.Horizon1h:  payload.Forecast1h,
		arso.Horizon3h:  payload.Forecast3h,
		arso.Horizon6h:  payload.Forecast6h,
		arso.Horizon24h: payload.Forecast24h,
	}
	for horizon, fc := range collections {
		for _, raw := range timelineEntries(fc) {
			var entry arso.ForecastEntry
			if err := json.Unmarshal(raw, &entry); err != nil {
				return nil, arso.NewSourceError(forecastSource, arso.KindMalformed, err)
			}
			entry.Horizon = horizon
			// The 24h product reports the daily maximum under its own
			// alias and leaves the plain temperature empty.
			if horizon == arso.Horizon24h && !entry.Temperature.Valid && entry.MaxTemperature.Valid {
				entry.Temperature = entry.MaxTemperature
			}
			bundle.Forecasts[horizon] = append(bundle.Forecasts[horizon], entry)
		}
	}

	if len(bundle.Forecasts[arso.Horizon1h]) == 0 && bundle.Observation.ValidTime.IsZero() {
		return nil, arso.NewSourceError(forecastSource, arso.KindIncomplete,
			fmt.Errorf("no observation or forecast timeline for %q", location))
	}

	for _, fc := range []featureCollection{payload.Observation, payload.Forecast1h} {
		if len(fc.Features) > 0 && fc.Features[0].Geometry != nil && len(fc.Features[0].Geometry.Coordinates) >= 2 {
			bundle.Lon = fc.Features[0].Geometry.Coordinates[0]
			bundle.Lat = fc.Features[0].Geometry.Coordinates[1]
			bundle.HasCoords = true
			break
		}
	}

	return bundle, nil
}

// timelineEntries flattens features[0].properties.days[].timeline[].
func timelineEntries(fc featureCollection) []json.RawMessage {
	if len(fc.Features) == 0 {
		return nil
	}
	var out []json.RawMessage
	for _, day := range fc.Features[0].Properties.Days {
		out = append(out, day.Timeline...)
	}
	return out
}
