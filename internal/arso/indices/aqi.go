// Package indices holds the pure derived-index calculators: the national
// air-quality classification and the apparent-temperature (UTCI) estimate.
package indices

import (
	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
	"github.com/andrejs2/slovenian-weather-integration/internal/log"
)

// pollutantBreakpoints are the national classification thresholds, ascending.
// A value at or below breakpoint i maps to sub-index i+1; anything above the
// last breakpoint is tier 5.
var pollutantBreakpoints = map[string][]float64{
	"pm2.5": {10, 20, 25, 50, 75},
	"pm10":  {20, 50, 75, 100, 150},
	"o3":    {120, 180, 240, 300, 380},
	"no2":   {40, 80, 150, 200, 340},
	"co":    {2, 4, 6, 8, 12},
	"so2":   {20, 40, 60, 100, 750},
}

// categories maps the overall index to its label, best to worst.
var categories = []string{"Zelo dobra", "Dobra", "Sprejemljiva", "Slaba", "Zelo slaba"}

// SubIndex classifies one pollutant value into severity tier 1-5. A value
// exactly on a breakpoint maps to the lower tier. Unknown pollutants report
// false.
func SubIndex(pollutant string, value float64) (int, bool) {
	breakpoints, ok := pollutantBreakpoints[pollutant]
	if !ok {
		return 0, false
	}
	for i, bp := range breakpoints {
		if value <= bp {
			return i + 1, true
		}
	}
	return 5, true
}

// ComputeAirQuality derives the overall index and category from averaged
// pollutant concentrations. The worst pollutant dominates: the overall index
// is the maximum sub-index, not an average. With no numeric value at all the
// result is absent.
func ComputeAirQuality(pollutants map[string]arso.Float) (arso.Int, arso.String) {
	overall := 0
	for pollutant, value := range pollutants {
		if !value.Valid {
			continue
		}
		sub, ok := SubIndex(pollutant, value.Value)
		if !ok {
			log.Debugw("pollutant without breakpoints skipped", "pollutant", pollutant)
			continue
		}
		if sub > overall {
			overall = sub
		}
	}
	if overall == 0 {
		return arso.Int{}, arso.String{}
	}
	return arso.IntOf(overall), arso.StringOf(categories[overall-1])
}
