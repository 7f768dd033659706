package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
	"github.com/andrejs2/slovenian-weather-integration/internal/arso/adapters"
	"github.com/andrejs2/slovenian-weather-integration/internal/coordinator"
	"github.com/andrejs2/slovenian-weather-integration/internal/store"
)

type staticForecast struct{}

func (staticForecast) Fetch(ctx context.Context, location string) (*adapters.ForecastBundle, error) {
	return &adapters.ForecastBundle{
		Observation: arso.TimelineEntry{
			Temperature:  arso.FloatOf(21.5),
			CombinedIcon: arso.StringOf("clear_day"),
		},
		Forecasts: map[arso.Horizon][]arso.ForecastEntry{
			arso.Horizon1h: {
				{TimelineEntry: arso.TimelineEntry{Temperature: arso.FloatOf(22)}},
			},
		},
	}, nil
}

type staticGazetteer struct{}

func (staticGazetteer) Fetch(ctx context.Context) ([]arso.Location, error) {
	return []arso.Location{{Name: "Ljubljana", Lat: 46.0655, Lon: 14.5125}}, nil
}

func newTestApp(t *testing.T, refreshed bool) (*fiber.App, *store.MemoryStore) {
	t.Helper()

	coord, err := coordinator.New("Ljubljana", coordinator.Sources{Forecast: staticForecast{}})
	require.NoError(t, err)
	if refreshed {
		require.NoError(t, coord.Refresh(context.Background()))
	}

	memStore := store.NewMemoryStore(10, 0)

	app := fiber.New()
	New([]*coordinator.Coordinator{coord}, memStore, staticGazetteer{}).RegisterRoutes(app)
	return app, memStore
}

func testRequest(t *testing.T, app *fiber.App, url string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil))
	require.NoError(t, err)
	return resp
}

func TestSnapshotEndpoint(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp := testRequest(t, app, "/api/v1/weather/snapshot?location=Ljubljana")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap arso.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.Equal(t, "Ljubljana", snap.Location)
	require.Equal(t, arso.ConditionSunny, snap.Condition)
	require.Equal(t, arso.FloatOf(21.5), snap.Current.Temperature)
}

func TestSnapshotEndpointValidation(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp := testRequest(t, app, "/api/v1/weather/snapshot")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = testRequest(t, app, "/api/v1/weather/snapshot?location=Dunaj")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSnapshotEndpointNotReady(t *testing.T) {
	app, _ := newTestApp(t, false)

	resp := testRequest(t, app, "/api/v1/weather/snapshot?location=Ljubljana")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestForecastEndpoint(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp := testRequest(t, app, "/api/v1/weather/forecast?location=Ljubljana&horizon=1h")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Horizon string               `json:"horizon"`
		Entries []arso.ForecastEntry `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, "1h", payload.Horizon)
	require.Len(t, payload.Entries, 1)

	// An invalid horizon fails validation, a valid but empty one is 404.
	resp = testRequest(t, app, "/api/v1/weather/forecast?location=Ljubljana&horizon=2h")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = testRequest(t, app, "/api/v1/weather/forecast?location=Ljubljana&horizon=24h")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAirQualityEndpointAbsentSection(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp := testRequest(t, app, "/api/v1/airquality?location=Ljubljana")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHistoryEndpoint(t *testing.T) {
	app, memStore := newTestApp(t, true)

	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	memStore.Save(&arso.Snapshot{Location: "Ljubljana", FetchedAt: at})

	resp := testRequest(t, app,
		"/api/v1/weather/history?location=Ljubljana&from=2026-08-29T00:00:00Z&to=2026-08-29T23:59:59Z")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Snapshots []arso.Snapshot `json:"snapshots"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Snapshots, 1)
}

func TestHistoryEndpointValidation(t *testing.T) {
	app, _ := newTestApp(t, true)

	// Missing range parameters.
	resp := testRequest(t, app, "/api/v1/weather/history?location=Ljubljana")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// to before from.
	resp = testRequest(t, app,
		"/api/v1/weather/history?location=Ljubljana&from=2026-08-29T12:00:00Z&to=2026-08-29T00:00:00Z")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unix seconds are accepted.
	resp = testRequest(t, app, "/api/v1/weather/history?location=Ljubljana&from=1&to=2")
	require.Equal(t, http.StatusNotFound, resp.StatusCode, "valid range with no data is 404")
}

func TestLocationsEndpoint(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp := testRequest(t, app, "/api/v1/locations")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var locations []arso.Location
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&locations))
	require.Len(t, locations, 1)
	require.Equal(t, "Ljubljana", locations[0].Name)
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp := testRequest(t, app, "/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
