package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
)

const agroForecastPayload = `{
  "features": [
    {"properties": {"title": "Novo mesto", "days": []}},
    {"properties": {
      "title": "Ljubljana",
      "days": [
        {"date": "2026-08-29", "timeline": [{"etp": "4.2", "tklim": "21.5", "tn": "14", "tx": "28", "sunDur": "10.4", "tp_24h_acc": "0.0"}]},
        {"date": "2026-08-30", "timeline": [{"etp": "3.8", "tklim": "20.1", "tn": "13", "tx": "26", "sunDur": "8.2", "tp_24h_acc": "2.6"}]}
      ]
    }}
  ]
}`

const agroObservationPayload = `{
  "features": [
    {"properties": {
      "title": "Ljubljana",
      "days": [
        {"date": "2026-08-28", "timeline": [{"etp": "4.0", "tklim": "22.0", "wBal": "-3.1"}]}
      ]
    }}
  ]
}`

func TestAgroAdapterFetchesBothSeries(t *testing.T) {
	forecastSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(agroForecastPayload))
	}))
	defer forecastSrv.Close()
	observationSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(agroObservationPayload))
	}))
	defer observationSrv.Close()

	a := NewAgroAdapter(http.DefaultClient)
	a.SetBaseURLs(forecastSrv.URL, observationSrv.URL)

	reading, err := a.Fetch(context.Background(), "ljubljana")
	require.NoError(t, err, "station titles match case-insensitively")

	require.Len(t, reading.Forecast, 2)
	require.Equal(t, "2026-08-29", reading.Forecast[0].Date)
	require.Equal(t, arso.FloatOf(4.2), reading.Forecast[0].Evapotranspiration)
	require.Equal(t, arso.FloatOf(28), reading.Forecast[0].TemperatureMax)
	require.Equal(t, arso.FloatOf(2.6), reading.Forecast[1].Precipitation24hMm)

	require.Len(t, reading.Observation, 1)
	require.Equal(t, arso.FloatOf(-3.1), reading.Observation[0].WaterBalanceMm)
}

func TestAgroAdapterObservationOptional(t *testing.T) {
	forecastSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(agroForecastPayload))
	}))
	defer forecastSrv.Close()
	observationSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer observationSrv.Close()

	a := NewAgroAdapter(http.DefaultClient)
	a.SetBaseURLs(forecastSrv.URL, observationSrv.URL)

	reading, err := a.Fetch(context.Background(), "Ljubljana")
	require.NoError(t, err)
	require.Len(t, reading.Forecast, 2)
	require.Empty(t, reading.Observation)
}

func TestAgroAdapterForecastRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(agroForecastPayload))
	}))
	defer srv.Close()

	a := NewAgroAdapter(http.DefaultClient)
	a.SetBaseURLs(srv.URL, srv.URL)

	_, err := a.Fetch(context.Background(), "Kranj")
	require.Error(t, err)
	require.True(t, arso.IsKind(err, arso.KindIncomplete), "got %v", err)
}
