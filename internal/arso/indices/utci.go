package indices

import (
	"math"
	"time"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
	"github.com/andrejs2/slovenian-weather-integration/internal/log"
)

// UTCIPoint is one row of the hourly apparent-temperature series.
type UTCIPoint struct {
	Time  time.Time
	Value float64
}

// LookupUTCI picks the series value for the current hour (rounded down,
// UTC). When that hour is missing it falls back to the most recent row, so a
// slightly stale published series still yields a value. The result is
// rounded to one decimal.
func LookupUTCI(points []UTCIPoint, now time.Time) arso.Float {
	if len(points) == 0 {
		return arso.Float{}
	}
	hour := now.UTC().Truncate(time.Hour)

	var latest *UTCIPoint
	for i := range points {
		p := &points[i]
		if p.Time.Equal(hour) {
			return arso.FloatOf(round1(p.Value))
		}
		if latest == nil || p.Time.After(latest.Time) {
			latest = p
		}
	}
	return arso.FloatOf(round1(latest.Value))
}

// seasonal clear-sky radiation estimates in W/m², scaled down by cloud
// coverage when the station reports no pyranometer value.
func baseRadiation(month time.Month) float64 {
	switch month {
	case time.December, time.January, time.February:
		return 100
	case time.March, time.April, time.May:
		return 400
	case time.June, time.July, time.August:
		return 800
	default:
		return 300
	}
}

// EstimateRadiation approximates global solar radiation from cloud coverage
// percent and the season.
func EstimateRadiation(cloudCoveragePct float64, month time.Month) float64 {
	return baseRadiation(month) * (1 - cloudCoveragePct/100)
}

// UTCIFromObservation computes the apparent temperature from the merged
// observation when no published series exists for the station. Temperature,
// humidity and wind speed are all required; a missing radiation input is
// estimated from cloud coverage, and if that is also unknown the result is
// absent rather than guessed.
func UTCIFromObservation(obs *arso.ObservationDetails, now time.Time) arso.Float {
	if obs == nil {
		return arso.Float{}
	}
	if !obs.Temperature.Valid || !obs.Humidity.Valid || !obs.WindSpeedKmh.Valid {
		return arso.Float{}
	}

	radiation := arso.Float{}
	if obs.SolarRadiationWm2.Valid {
		radiation = arso.FloatOf(float64(obs.SolarRadiationWm2.Value))
	} else if cloud := arso.CloudCoveragePercent(obs.CloudCoverText); cloud.Valid {
		radiation = arso.FloatOf(EstimateRadiation(cloud.Value, now.UTC().Month()))
	}
	if !radiation.Valid {
		return arso.Float{}
	}
	log.Debugw("utci radiation input", "wm2", radiation.Value)

	t := obs.Temperature.Value
	humidity := float64(obs.Humidity.Value)
	windMS := float64(obs.WindSpeedKmh.Value) / 3.6

	e := (humidity / 100) * 6.105 * math.Exp((17.27*t)/(237.7+t))
	utci := t + 0.33*e - 0.7*windMS - 4.0
	return arso.FloatOf(round1(utci))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
