package adapters

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
	"github.com/andrejs2/slovenian-weather-integration/internal/arso/indices"
)

const utciSource = "utci"

// utciStations maps location names to the station segment of the biomet
// UTCI time-series product. Locations without an entry fall back to the
// formula-based estimate.
var utciStations = map[string]string{
	"Bilje pri Novi Gorici":              "BILJE",
	"Bovec":                              "BOVEC%20-%20LETALISCE",
	"Celje":                              "CELJE%20-%20MEDLOG",
	"Letališče Cerklje ob Krki":          "CERKLJE%20-%20LETALISCE",
	"Črnomelj":                           "CRNOMELJ%20-%20DOBLICE",
	"Kočevje":                            "KOCEVJE",
	"Kranj":                              "KRANJ",
	"Letališče Edvarda Rusjana Maribor":  "LETALISCE%20EDVARDA%20RUSJANA%20MARIBOR",
	"Ljubljana":                          "LJUBLJANA%20-%20BEZIGRAD",
	"Murska Sobota":                      "MURSKA%20SOBOTA%20-%20RAKICAN",
	"Novo mesto":                         "NOVO%20MESTO",
	"Letališče Portorož":                 "PORTOROZ%20-%20LETALISCE",
	"Postojna":                           "POSTOJNA%20(bober)",
	"Rateče":                             "RATECE",
	"Šmartno pri Slovenj Gradcu":         "SMARTNO%20PRI%20SLOVENJ%20GRADCU",
}

// UTCISeriesAdapter fetches the hourly apparent-temperature time series
// published for biometeorological stations.
type UTCISeriesAdapter struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewUTCISeriesAdapter(client *http.Client) *UTCISeriesAdapter {
	return &UTCISeriesAdapter{
		baseURL: "https://meteo.arso.gov.si/uploads/probase/www/sproduct/biomet/table/sl",
		client:  client,
		circuit: newBreaker(utciSource),
	}
}

// SetBaseURL overrides the upstream URL, for tests.
func (a *UTCISeriesAdapter) SetBaseURL(u string) { a.baseURL = u }

// Fetch downloads and parses the CSV series for a location. Rows without a
// parseable timestamp or value are skipped.
func (a *UTCISeriesAdapter) Fetch(ctx context.Context, location string) ([]indices.UTCIPoint, error) {
	station, ok := utciStations[location]
	if !ok {
		return nil, arso.NewSourceError(utciSource, arso.KindIncomplete,
			fmt.Errorf("%q has no UTCI series", location))
	}

	body, err := get(ctx, a.client, a.circuit, utciSource,
		fmt.Sprintf("%s/UTCI_timeseries_%s.csv", a.baseURL, station))
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(string(body)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, arso.NewSourceError(utciSource, arso.KindMalformed, err)
	}
	if len(records) < 2 {
		return nil, arso.NewSourceError(utciSource, arso.KindIncomplete,
			fmt.Errorf("UTCI series for %q is empty", location))
	}

	timeCol, valueCol := -1, -1
	for i, name := range records[0] {
		switch strings.TrimSpace(name) {
		case "validTime":
			timeCol = i
		case "UTCI":
			valueCol = i
		}
	}
	if timeCol < 0 || valueCol < 0 {
		return nil, arso.NewSourceError(utciSource, arso.KindMalformed,
			fmt.Errorf("UTCI series is missing validTime/UTCI columns"))
	}

	var points []indices.UTCIPoint
	for _, record := range records[1:] {
		if len(record) <= timeCol || len(record) <= valueCol {
			continue
		}
		ts, err := arso.ParseTimestamp(strings.TrimSpace(record[timeCol]))
		if err != nil {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[valueCol]), 64)
		if err != nil {
			continue
		}
		points = append(points, indices.UTCIPoint{Time: ts.Time, Value: value})
	}
	if len(points) == 0 {
		return nil, arso.NewSourceError(utciSource, arso.KindIncomplete,
			fmt.Errorf("UTCI series for %q has no usable rows", location))
	}
	return points, nil
}
