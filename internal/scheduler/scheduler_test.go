package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
	"github.com/andrejs2/slovenian-weather-integration/internal/arso/adapters"
	"github.com/andrejs2/slovenian-weather-integration/internal/coordinator"
)

type staticForecast struct{}

func (staticForecast) Fetch(ctx context.Context, location string) (*adapters.ForecastBundle, error) {
	return &adapters.ForecastBundle{
		Observation: arso.TimelineEntry{Temperature: arso.FloatOf(18)},
		Forecasts:   map[arso.Horizon][]arso.ForecastEntry{},
	}, nil
}

func TestRunOnceRefreshesAllCoordinators(t *testing.T) {
	var coordinators []*coordinator.Coordinator
	for _, name := range []string{"Ljubljana", "Bovec"} {
		c, err := coordinator.New(name, coordinator.Sources{Forecast: staticForecast{}})
		require.NoError(t, err)
		coordinators = append(coordinators, c)
	}

	s := New(coordinators, time.Minute)
	s.runOnce()

	for _, c := range coordinators {
		snap, err := c.Snapshot()
		require.NoError(t, err, c.Location())
		require.Equal(t, c.Location(), snap.Location)
	}
}

func TestStartWithoutCoordinators(t *testing.T) {
	s := New(nil, time.Minute)
	require.NoError(t, s.Start())
	s.Stop()
}
