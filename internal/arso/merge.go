package arso

import (
	"sort"
	"time"
)

// localTZ is the timezone used for calendar-date matching between daily
// forecasts and the UV forecast. ARSO daily products are keyed to Slovenian
// civil dates.
var localTZ = func() *time.Location {
	tz, err := time.LoadLocation("Europe/Ljubljana")
	if err != nil {
		return time.UTC
	}
	return tz
}()

func mergeFloat(base, detail Float) Float {
	if detail.Valid {
		return detail
	}
	return base
}

func mergeInt(base, detail Int) Int {
	if detail.Valid {
		return detail
	}
	return base
}

func mergeString(base, detail String) String {
	if detail.Valid {
		return detail
	}
	return base
}

func mergeTimestamp(base, detail Timestamp) Timestamp {
	if !detail.IsZero() {
		return detail
	}
	return base
}

// mergeTimeline applies the precedence rule field by field: a valid detail
// value always wins, an absent detail value never erases a present base
// value.
func mergeTimeline(base, detail TimelineEntry) TimelineEntry {
	return TimelineEntry{
		ValidTime:           mergeTimestamp(base.ValidTime, detail.ValidTime),
		Temperature:         mergeFloat(base.Temperature, detail.Temperature),
		Humidity:            mergeInt(base.Humidity, detail.Humidity),
		PressureHPa:         mergeInt(base.PressureHPa, detail.PressureHPa),
		WindSpeedKmh:        mergeInt(base.WindSpeedKmh, detail.WindSpeedKmh),
		WindDirectionText:   mergeString(base.WindDirectionText, detail.WindDirectionText),
		WindGustKmh:         mergeInt(base.WindGustKmh, detail.WindGustKmh),
		CloudCoverText:      mergeString(base.CloudCoverText, detail.CloudCoverText),
		PhenomenonText:      mergeString(base.PhenomenonText, detail.PhenomenonText),
		PhenomenonIcon:      mergeString(base.PhenomenonIcon, detail.PhenomenonIcon),
		CombinedIcon:        mergeString(base.CombinedIcon, detail.CombinedIcon),
		CombinedText:        mergeString(base.CombinedText, detail.CombinedText),
		CloudBaseText:       mergeString(base.CloudBaseText, detail.CloudBaseText),
		MinutesFromMidnight: mergeInt(base.MinutesFromMidnight, detail.MinutesFromMidnight),
	}
}

// MergeObservation combines the basic observation from the forecast service
// with the dense primary-station record. The base is always available; the
// detail exists only for primary stations and takes precedence wherever it
// reports a value.
func MergeObservation(base TimelineEntry, detail *ObservationDetails) ObservationDetails {
	if detail == nil {
		return ObservationDetails{TimelineEntry: base}
	}
	merged := *detail
	merged.TimelineEntry = mergeTimeline(base, detail.TimelineEntry)
	return merged
}

// NormalizeEntry remaps locale-specific vocabulary on a shared entry.
func NormalizeEntry(e *TimelineEntry) {
	e.WindDirectionText = RemapWindDirection(e.WindDirectionText)
}

// NormalizeDetails remaps every wind-direction representation a station
// record carries.
func NormalizeDetails(d *ObservationDetails) {
	NormalizeEntry(&d.TimelineEntry)
	d.WindDirectionIcon = RemapWindDirection(d.WindDirectionIcon)
	d.WindDirectionAvgText = RemapWindDirection(d.WindDirectionAvgText)
	d.WindDirectionAvgIcon = RemapWindDirection(d.WindDirectionAvgIcon)
	d.WindDirectionGustText = RemapWindDirection(d.WindDirectionGustText)
	d.WindDirectionGustIcon = RemapWindDirection(d.WindDirectionGustIcon)
}

// DedupeUVForecast sorts the daily UV points ascending by date and keeps the
// first occurrence of each date.
func DedupeUVForecast(points []UVForecastPoint) []UVForecastPoint {
	if len(points) == 0 {
		return nil
	}
	sorted := make([]UVForecastPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})
	out := sorted[:0]
	for _, p := range sorted {
		if len(out) > 0 && out[len(out)-1].Date == p.Date {
			continue
		}
		out = append(out, p)
	}
	return out
}

// AttachUV fills the UVIndex of each daily forecast entry whose civil date
// matches a UV forecast point. Entries with no match stay absent.
func AttachUV(entries []ForecastEntry, daily []UVForecastPoint) {
	if len(entries) == 0 || len(daily) == 0 {
		return
	}
	byDate := make(map[string]float64, len(daily))
	for _, p := range daily {
		if _, ok := byDate[p.Date]; !ok {
			byDate[p.Date] = p.UVIndex
		}
	}
	for i := range entries {
		if entries[i].ValidTime.IsZero() {
			continue
		}
		date := entries[i].ValidTime.In(localTZ).Format("2006-01-02")
		if uv, ok := byDate[date]; ok {
			entries[i].UVIndex = FloatOf(uv)
		}
	}
}
