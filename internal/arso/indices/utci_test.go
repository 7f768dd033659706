package indices

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
)

func TestLookupUTCIExactHour(t *testing.T) {
	now := time.Date(2026, 8, 29, 14, 25, 0, 0, time.UTC)
	points := []UTCIPoint{
		{Time: time.Date(2026, 8, 29, 13, 0, 0, 0, time.UTC), Value: 24.31},
		{Time: time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC), Value: 25.77},
		{Time: time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC), Value: 26.02},
	}
	require.Equal(t, arso.FloatOf(25.8), LookupUTCI(points, now))
}

func TestLookupUTCIFallsBackToLatest(t *testing.T) {
	now := time.Date(2026, 8, 29, 20, 0, 0, 0, time.UTC)
	points := []UTCIPoint{
		{Time: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC), Value: 22.0},
		{Time: time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC), Value: 23.46},
	}
	require.Equal(t, arso.FloatOf(23.5), LookupUTCI(points, now))

	require.False(t, LookupUTCI(nil, now).Valid)
}

func TestEstimateRadiationSeasons(t *testing.T) {
	require.Equal(t, 800.0, EstimateRadiation(0, time.July))
	require.Equal(t, 50.0, EstimateRadiation(50, time.January))
	require.Equal(t, 400.0, EstimateRadiation(0, time.April))
	require.Equal(t, 0.0, EstimateRadiation(100, time.October))
}

func TestUTCIFromObservationFormula(t *testing.T) {
	obs := &arso.ObservationDetails{
		TimelineEntry: arso.TimelineEntry{
			Temperature:    arso.FloatOf(20),
			Humidity:       arso.IntOf(50),
			WindSpeedKmh:   arso.IntOf(10),
			CloudCoverText: arso.StringOf("jasno"),
		},
	}
	got := UTCIFromObservation(obs, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))
	require.Equal(t, arso.FloatOf(17.9), got)
}

func TestUTCIFromObservationMeasuredRadiation(t *testing.T) {
	obs := &arso.ObservationDetails{
		TimelineEntry: arso.TimelineEntry{
			Temperature:  arso.FloatOf(20),
			Humidity:     arso.IntOf(50),
			WindSpeedKmh: arso.IntOf(10),
		},
		SolarRadiationWm2: arso.IntOf(640),
	}
	got := UTCIFromObservation(obs, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))
	require.Equal(t, arso.FloatOf(17.9), got)
}

func TestUTCIFromObservationMissingInputs(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	require.False(t, UTCIFromObservation(nil, now).Valid)

	// No wind speed.
	obs := &arso.ObservationDetails{
		TimelineEntry: arso.TimelineEntry{
			Temperature:    arso.FloatOf(20),
			Humidity:       arso.IntOf(50),
			CloudCoverText: arso.StringOf("jasno"),
		},
	}
	require.False(t, UTCIFromObservation(obs, now).Valid)

	// Neither measured radiation nor a cloud estimate.
	obs = &arso.ObservationDetails{
		TimelineEntry: arso.TimelineEntry{
			Temperature:  arso.FloatOf(20),
			Humidity:     arso.IntOf(50),
			WindSpeedKmh: arso.IntOf(10),
		},
	}
	require.False(t, UTCIFromObservation(obs, now).Valid)
}
