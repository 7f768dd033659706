package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
)

const stationSource = "station"

// observationStations maps location names to the numeric id of their primary
// ARSO observation station. Locations without an entry only have the basic
// observation from the forecast API.
var observationStations = map[string]string{
	"Ljubljana":                           "1495",
	"Letališče Jožeta Pučnika Ljubljana":  "1496",
	"Letališče Edvarda Rusjana Maribor":   "1278",
	"Celje":                               "1834",
	"Bilje pri Novi Gorici":               "1822",
	"Bovec":                               "1819",
	"Novo mesto":                          "1855",
	"Murska Sobota":                       "1263",
	"Črnomelj":                            "1860",
	"Kočevje":                             "1846",
	"Kranj":                               "1841",
	"Letališče Cerklje ob Krki":           "1857",
	"Letališče Portorož":                  "1896",
	"Postojna":                            "1870",
	"Rateče":                              "1815",
	"Šmartno pri Slovenj Gradcu":          "1310",
}

// StationID resolves the primary-station id for a location name.
func StationID(location string) (string, bool) {
	id, ok := observationStations[location]
	return id, ok
}

// StationAdapter fetches the dense per-station observation record available
// for primary ARSO stations.
type StationAdapter struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewStationAdapter(client *http.Client) *StationAdapter {
	return &StationAdapter{
		baseURL: "https://meteo.arso.gov.si/uploads/probase/www/observ/surface/json/sl",
		client:  client,
		circuit: newBreaker(stationSource),
	}
}

// SetBaseURL overrides the upstream URL, for tests.
func (a *StationAdapter) SetBaseURL(u string) { a.baseURL = u }

// Fetch retrieves the latest detailed observation for the location's primary
// station. Locations without a primary station fail with KindIncomplete.
func (a *StationAdapter) Fetch(ctx context.Context, location string) (*arso.ObservationDetails, error) {
	id, ok := StationID(location)
	if !ok {
		return nil, arso.NewSourceError(stationSource, arso.KindIncomplete,
			fmt.Errorf("%q has no primary station", location))
	}

	u := fmt.Sprintf("%s/recent/observationAms_METEO-%s_history.json", a.baseURL, id)

	var payload featureCollection
	if err := getJSON(ctx, a.client, a.circuit, stationSource, u, &payload); err != nil {
		return nil, err
	}

	entries := timelineEntries(payload)
	if len(entries) == 0 {
		return nil, arso.NewSourceError(stationSource, arso.KindIncomplete,
			fmt.Errorf("station %s returned no timeline", id))
	}

	var details arso.ObservationDetails
	if err := json.Unmarshal(entries[0], &details); err != nil {
		return nil, arso.NewSourceError(stationSource, arso.KindMalformed, err)
	}
	return &details, nil
}
