package indices

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
)

func TestSubIndexBoundaries(t *testing.T) {
	cases := []struct {
		pollutant string
		value     float64
		want      int
	}{
		{"pm10", 20, 1},  // exactly on a breakpoint maps to the lower tier
		{"pm10", 20.1, 2},
		{"pm10", 50, 2},
		{"pm10", 80, 4},
		{"pm10", 151, 5},
		{"pm2.5", 9, 1},
		{"pm2.5", 76, 5},
		{"o3", 250, 4},
		{"no2", 40, 1},
		{"co", 12, 5},
		{"so2", 751, 5},
	}
	for _, tc := range cases {
		got, ok := SubIndex(tc.pollutant, tc.value)
		require.True(t, ok, tc.pollutant)
		require.Equal(t, tc.want, got, "%s=%v", tc.pollutant, tc.value)
	}
}

func TestSubIndexUnknownPollutant(t *testing.T) {
	_, ok := SubIndex("benzen", 3)
	require.False(t, ok)
}

func TestComputeAirQualityWorstPollutantDominates(t *testing.T) {
	index, category := ComputeAirQuality(map[string]arso.Float{
		"pm2.5": arso.FloatOf(5),   // tier 1
		"pm10":  arso.FloatOf(80),  // tier 4
		"o3":    arso.FloatOf(100), // tier 1
		"no2":   arso.Float{},      // absent, ignored
	})
	require.Equal(t, arso.IntOf(4), index)
	require.Equal(t, arso.StringOf("Slaba"), category)
}

func TestComputeAirQualityBestCase(t *testing.T) {
	index, category := ComputeAirQuality(map[string]arso.Float{
		"pm2.5": arso.FloatOf(4),
	})
	require.Equal(t, arso.IntOf(1), index)
	require.Equal(t, arso.StringOf("Zelo dobra"), category)
}

func TestComputeAirQualityNoData(t *testing.T) {
	index, category := ComputeAirQuality(map[string]arso.Float{
		"pm10": {},
		"o3":   {},
	})
	require.False(t, index.Valid, "no numeric input must yield absent, not zero")
	require.False(t, category.Valid)

	index, _ = ComputeAirQuality(nil)
	require.False(t, index.Valid)
}

func TestComputeAirQualitySkipsUnknownPollutants(t *testing.T) {
	index, _ := ComputeAirQuality(map[string]arso.Float{
		"benzen": arso.FloatOf(900),
		"pm2.5":  arso.FloatOf(15), // tier 2
	})
	require.Equal(t, arso.IntOf(2), index)
}
