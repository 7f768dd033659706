package arso

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMergeObservationDetailWins(t *testing.T) {
	base := TimelineEntry{
		Temperature:    FloatOf(18.0),
		Humidity:       IntOf(70),
		CloudCoverText: StringOf("oblačno"),
	}
	detail := &ObservationDetails{
		TimelineEntry: TimelineEntry{
			Temperature: FloatOf(18.4),
		},
		DewPoint: FloatOf(12.1),
	}

	merged := MergeObservation(base, detail)

	require.Equal(t, FloatOf(18.4), merged.Temperature, "valid detail must win")
	require.Equal(t, IntOf(70), merged.Humidity, "absent detail must not erase base")
	require.Equal(t, StringOf("oblačno"), merged.CloudCoverText)
	require.Equal(t, FloatOf(12.1), merged.DewPoint)
}

func TestMergeObservationNilDetail(t *testing.T) {
	base := TimelineEntry{Temperature: FloatOf(5)}
	merged := MergeObservation(base, nil)

	require.Equal(t, FloatOf(5), merged.Temperature)
	require.False(t, merged.DewPoint.Valid)
}

func TestMergeObservationTimestampPrecedence(t *testing.T) {
	baseTime := Timestamp{time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)}
	detailTime := Timestamp{time.Date(2026, 8, 29, 10, 10, 0, 0, time.UTC)}

	merged := MergeObservation(
		TimelineEntry{ValidTime: baseTime},
		&ObservationDetails{TimelineEntry: TimelineEntry{ValidTime: detailTime}},
	)
	require.True(t, merged.ValidTime.Equal(detailTime.Time))

	merged = MergeObservation(
		TimelineEntry{ValidTime: baseTime},
		&ObservationDetails{},
	)
	require.True(t, merged.ValidTime.Equal(baseTime.Time))
}

func TestNormalizeDetailsRemapsAllWindFields(t *testing.T) {
	d := &ObservationDetails{
		TimelineEntry:         TimelineEntry{WindDirectionText: StringOf("JZ")},
		WindDirectionIcon:     StringOf("SV"),
		WindDirectionAvgText:  StringOf("Z"),
		WindDirectionAvgIcon:  StringOf("S"),
		WindDirectionGustText: StringOf("JV"),
		WindDirectionGustIcon: StringOf("V"),
	}
	NormalizeDetails(d)

	require.Equal(t, StringOf("SW"), d.WindDirectionText)
	require.Equal(t, StringOf("NE"), d.WindDirectionIcon)
	require.Equal(t, StringOf("W"), d.WindDirectionAvgText)
	require.Equal(t, StringOf("N"), d.WindDirectionAvgIcon)
	require.Equal(t, StringOf("SE"), d.WindDirectionGustText)
	require.Equal(t, StringOf("E"), d.WindDirectionGustIcon)
}

func TestDedupeUVForecast(t *testing.T) {
	points := []UVForecastPoint{
		{Date: "2026-08-30", UVIndex: 5.1},
		{Date: "2026-08-29", UVIndex: 6.0},
		{Date: "2026-08-30", UVIndex: 4.0},
		{Date: "2026-08-31", UVIndex: 3.2},
	}

	out := DedupeUVForecast(points)
	require.Len(t, out, 3)
	require.Equal(t, "2026-08-29", out[0].Date)
	require.Equal(t, "2026-08-30", out[1].Date)
	require.Equal(t, 5.1, out[1].UVIndex, "first occurrence of a date must be kept")
	require.Equal(t, "2026-08-31", out[2].Date)

	require.Nil(t, DedupeUVForecast(nil))
}

func TestAttachUVMatchesCivilDate(t *testing.T) {
	// 22:30 UTC on the 29th is already the 30th in Ljubljana.
	entries := []ForecastEntry{
		{TimelineEntry: TimelineEntry{ValidTime: Timestamp{time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)}}},
		{TimelineEntry: TimelineEntry{ValidTime: Timestamp{time.Date(2026, 8, 29, 22, 30, 0, 0, time.UTC)}}},
		{TimelineEntry: TimelineEntry{ValidTime: Timestamp{time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)}}},
		{},
	}
	daily := []UVForecastPoint{
		{Date: "2026-08-29", UVIndex: 6.0},
		{Date: "2026-08-30", UVIndex: 5.5},
	}

	AttachUV(entries, daily)

	require.Equal(t, FloatOf(6.0), entries[0].UVIndex)
	require.Equal(t, FloatOf(5.5), entries[1].UVIndex)
	require.False(t, entries[2].UVIndex.Valid, "unmatched dates stay absent")
	require.False(t, entries[3].UVIndex.Valid, "entries without a timestamp stay absent")
}
