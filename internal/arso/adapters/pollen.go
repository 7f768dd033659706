package adapters

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
)

const pollenSource = "pollen"

// PollenAdapter fetches the national phenological bulletin listing plants
// currently shedding pollen.
type PollenAdapter struct {
	url     string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewPollenAdapter(client *http.Client) *PollenAdapter {
	return &PollenAdapter{
		url:     "https://meteo.arso.gov.si/uploads/probase/www/agromet/json/sl/feno/objlist.json",
		client:  client,
		circuit: newBreaker(pollenSource),
	}
}

// SetBaseURL overrides the upstream URL, for tests.
func (a *PollenAdapter) SetBaseURL(u string) { a.url = u }

// Fetch returns the current pollen bulletin. The feed is country-wide, not
// per location.
func (a *PollenAdapter) Fetch(ctx context.Context) ([]arso.PollenPlant, error) {
	var plants []arso.PollenPlant
	if err := getJSON(ctx, a.client, a.circuit, pollenSource, a.url, &plants); err != nil {
		return nil, err
	}
	if len(plants) == 0 {
		return nil, arso.NewSourceError(pollenSource, arso.KindIncomplete,
			fmt.Errorf("pollen bulletin is empty"))
	}
	return plants, nil
}
