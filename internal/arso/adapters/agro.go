package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
)

const agroSource = "agro"

// AgroAdapter fetches the agro-meteorological forecast and observation
// products for the stations that publish them.
type AgroAdapter struct {
	forecastURL    string
	observationURL string
	client         *http.Client
	circuit        *gobreaker.CircuitBreaker
}

func NewAgroAdapter(client *http.Client) *AgroAdapter {
	return &AgroAdapter{
		forecastURL:    "https://meteo.arso.gov.si/uploads/probase/www/agromet/json/sl/forecastKlima_si-agro.json",
		observationURL: "https://meteo.arso.gov.si/uploads/probase/www/agromet/json/sl/observationKlima_si-agro.json",
		client:         client,
		circuit:        newBreaker(agroSource),
	}
}

// SetBaseURLs overrides the upstream URLs, for tests.
func (a *AgroAdapter) SetBaseURLs(forecast, observation string) {
	a.forecastURL = forecast
	a.observationURL = observation
}

// Fetch returns the agro reading for a location. The forecast series is
// required; a missing observation series only leaves that side empty.
func (a *AgroAdapter) Fetch(ctx context.Context, location string) (*arso.AgroReading, error) {
	forecast, err := a.fetchSeries(ctx, a.forecastURL, location)
	if err != nil {
		return nil, err
	}

	reading := &arso.AgroReading{Forecast: forecast}
	if observation, err := a.fetchSeries(ctx, a.observationURL, location); err == nil {
		reading.Observation = observation
	}
	return reading, nil
}

func (a *AgroAdapter) fetchSeries(ctx context.Context, url, location string) ([]arso.AgroDay, error) {
	var payload featureCollection
	if err := getJSON(ctx, a.client, a.circuit, agroSource, url, &payload); err != nil {
		return nil, err
	}

	for _, f := range payload.Features {
		if !strings.EqualFold(f.Properties.Title, location) {
			continue
		}
		var days []arso.AgroDay
		for _, day := range f.Properties.Days {
			if len(day.Timeline) == 0 {
				continue
			}
			var entry arso.AgroDay
			if err := json.Unmarshal(day.Timeline[0], &entry); err != nil {
				return nil, arso.NewSourceError(agroSource, arso.KindMalformed, err)
			}
			entry.Date = day.Date
			days = append(days, entry)
		}
		if len(days) == 0 {
			break
		}
		return days, nil
	}
	return nil, arso.NewSourceError(agroSource, arso.KindIncomplete,
		fmt.Errorf("no agro data for %q", location))
}
