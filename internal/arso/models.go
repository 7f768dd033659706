package arso

import (
	"time"
)

// Horizon identifies a forecast granularity.
type Horizon string

const (
	Horizon1h  Horizon = "1h"
	Horizon3h  Horizon = "3h"
	Horizon6h  Horizon = "6h"
	Horizon24h Horizon = "24h"
)

// Horizons lists all forecast horizons in ascending order.
var Horizons = []Horizon{Horizon1h, Horizon3h, Horizon6h, Horizon24h}

// Location is a logical place published by the ARSO gazetteer.
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat,omitempty"`
	Lon  float64 `json:"lon,omitempty"`
}

// TimelineEntry is one timestamped weather data point shared by observations
// and forecasts. JSON tags match the upstream field aliases; extra upstream
// fields are ignored, absent ones decode as invalid.
type TimelineEntry struct {
	ValidTime           Timestamp `json:"valid"`
	Temperature         Float     `json:"t"`
	Humidity            Int       `json:"rh"`
	PressureHPa         Int       `json:"msl"`
	WindSpeedKmh        Int       `json:"ff_val"`
	WindDirectionText   String    `json:"dd_shortText"`
	WindGustKmh         Int       `json:"ffmax_val"`
	CloudCoverText      String    `json:"clouds_shortText"`
	PhenomenonText      String    `json:"wwsyn_shortText"`
	PhenomenonIcon      String    `json:"wwsyn_icon"`
	CombinedIcon        String    `json:"clouds_icon_wwsyn_icon"`
	CombinedText        String    `json:"clouds_shortText_wwsyn_shortText"`
	CloudBaseText       String    `json:"cloudBase_shortText"`
	MinutesFromMidnight Int       `json:"time"`
}

// ObservationDetails extends TimelineEntry with the dense measurements only
// primary ARSO stations report.
type ObservationDetails struct {
	TimelineEntry

	IntervalMinutes          Int    `json:"interval"`
	DewPoint                 Float  `json:"td"`
	TemperatureAvg           Float  `json:"tavg"`
	TemperatureMax           Float  `json:"tx"`
	TemperatureMin           Float  `json:"tn"`
	HumidityAvg              Int    `json:"rhavg"`
	WindDirectionDeg         Int    `json:"dd_val"`
	WindDirectionIcon        String `json:"dd_icon"`
	WindDirectionAvgDeg      Int    `json:"ddavg_val"`
	WindDirectionAvgText     String `json:"ddavg_shortText"`
	WindDirectionAvgLongText String `json:"ddavg_longText"`
	WindDirectionAvgIcon     String `json:"ddavg_icon"`
	WindDirectionGustDeg     Int    `json:"ddmax_val"`
	WindDirectionGustText    String `json:"ddmax_shortText"`
	WindDirectionGustIcon    String `json:"ddmax_icon"`
	WindSpeedAvgKmh          Int    `json:"ffavg_val"`
	WindSpeedAvgIcon         String `json:"ffavg_icon"`
	WindGustIcon             String `json:"ffmax_icon"`
	PressureAvgHPa           Float  `json:"mslavg"`
	StationPressureHPa       Float  `json:"p"`
	StationPressureAvgHPa    Float  `json:"pavg"`
	PrecipitationMm          Float  `json:"tp_acc"`
	SnowDepthCm              Float  `json:"snow"`
	Precipitation1hMm        Float  `json:"tp_1h_acc"`
	Precipitation12hMm       Float  `json:"tp_12h_acc"`
	Precipitation24hMm       Float  `json:"tp_24h_acc"`
	WaterTemperature         Float  `json:"tw"`
	SolarRadiationWm2        Int    `json:"gSunRad"`
	SolarRadiationAvgWm2     Int    `json:"gSunRadavg"`
	DiffuseRadiationWm2      Int    `json:"diffSunRad"`
	DiffuseRadiationAvgWm2   Int    `json:"diffSunRadavg"`
	VisibilityKm             Float  `json:"vis_val"`
	TemperatureAt5cm         Float  `json:"t_5_cm"`
	TemperatureAvgAt5cm      Float  `json:"tavg_5_cm"`
	GroundTemp5cm            Float  `json:"tg_5_cm"`
	GroundTempAvg5cm         Float  `json:"tgavg_5_cm"`
	GroundTemp10cm           Float  `json:"tg_10_cm"`
	GroundTempAvg10cm        Float  `json:"tgavg_10_cm"`
	GroundTemp20cm           Float  `json:"tg_20_cm"`
	GroundTempAvg20cm        Float  `json:"tgavg_20_cm"`
	GroundTemp30cm           Float  `json:"tg_30_cm"`
	GroundTempAvg30cm        Float  `json:"tgavg_30_cm"`
	GroundTemp50cm           Float  `json:"tg_50_cm"`
	GroundTempAvg50cm        Float  `json:"tgavg_50_cm"`
}

const defaultObservationIntervalMinutes = 10

// PrecipitationRate converts the accumulated precipitation over the station
// reporting interval to mm/h, rounded to two decimals.
func (d ObservationDetails) PrecipitationRate() Float {
	if !d.PrecipitationMm.Valid {
		return Float{}
	}
	interval := defaultObservationIntervalMinutes
	if d.IntervalMinutes.Valid && d.IntervalMinutes.Value > 0 {
		interval = d.IntervalMinutes.Value
	}
	rate := d.PrecipitationMm.Value / float64(interval) * 60
	return FloatOf(round2(rate))
}

// ForecastEntry is a forecast timeline entry for one horizon. Short horizons
// carry interval accumulations; the 24h horizon carries daily min/max
// temperature, the daily precipitation sum and the matched UV index.
type ForecastEntry struct {
	TimelineEntry

	Horizon               Horizon `json:"-"`
	PrecipitationAccMm    Float   `json:"tp_acc"`
	SnowAccMm             Float   `json:"sn_acc"`
	MinTemperature        Float   `json:"tnsyn"`
	MaxTemperature        Float   `json:"txsyn"`
	Precipitation24hAccMm Float   `json:"tp_24h_acc"`
	UVIndex               Float   `json:"-"`
}

// UVForecastPoint is one day of the UV forecast.
type UVForecastPoint struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	UVIndex float64 `json:"uvIndex"`
}

// AirQualityReading holds averaged pollutant concentrations for a logical
// location plus the computed overall index and category.
type AirQualityReading struct {
	Pollutants   map[string]Float `json:"pollutants"`
	OverallIndex Int              `json:"overallIndex"`
	Category     String           `json:"category"`
}

// AgroDay is one day of agro-meteorological data.
type AgroDay struct {
	Date               string `json:"date"`
	Evapotranspiration Float  `json:"etp"`
	TemperatureAvg     Float  `json:"tklim"`
	TemperatureMin     Float  `json:"tn"`
	TemperatureMax     Float  `json:"tx"`
	SunshineHours      Float  `json:"sunDur"`
	TempHumidityIndex  Float  `json:"thi"`
	Precipitation24hMm Float  `json:"tp_24h_acc"`
	WaterBalanceMm     Float  `json:"wBal"`
}

// AgroReading combines the agro forecast and observation series for one
// station.
type AgroReading struct {
	Forecast    []AgroDay `json:"forecast,omitempty"`
	Observation []AgroDay `json:"observation,omitempty"`
}

// PollenPhase is one phenological phase of a plant.
type PollenPhase struct {
	ID   Int    `json:"id_faze"`
	Name String `json:"ime_faze"`
}

// PollenPlant is one plant from the phenological bulletin.
type PollenPlant struct {
	Name      string        `json:"ime"`
	LatinName string        `json:"ime_lat"`
	Phases    []PollenPhase `json:"faze"`
}

// Snapshot is the complete aggregate weather state for one location at one
// refresh time. It is published atomically and never mutated; failed source
// sections are nil/invalid rather than zeroed.
type Snapshot struct {
	Location            string              `json:"location"`
	Current             *ObservationDetails `json:"current,omitempty"`
	Condition           Condition           `json:"condition"`
	Forecast1h          []ForecastEntry     `json:"forecast1h,omitempty"`
	Forecast3h          []ForecastEntry     `json:"forecast3h,omitempty"`
	Forecast6h          []ForecastEntry     `json:"forecast6h,omitempty"`
	Forecast24h         []ForecastEntry     `json:"forecast24h,omitempty"`
	UVIndex             Float               `json:"uvIndex"`
	UVForecast          []UVForecastPoint   `json:"uvForecast,omitempty"`
	ApparentTemperature Float               `json:"apparentTemperature"`
	AirQuality          *AirQualityReading  `json:"airQuality,omitempty"`
	Agro                *AgroReading        `json:"agro,omitempty"`
	Pollen              []PollenPlant       `json:"pollen,omitempty"`
	FetchedAt           time.Time           `json:"fetchedAt"`
}

// Forecast returns the entries for the given horizon.
func (s *Snapshot) Forecast(h Horizon) []ForecastEntry {
	switch h {
	case Horizon1h:
		return s.Forecast1h
	case Horizon3h:
		return s.Forecast3h
	case Horizon6h:
		return s.Forecast6h
	case Horizon24h:
		return s.Forecast24h
	}
	return nil
}

func round2(v float64) float64 {
	return float64(int64(v*100+sign(v)*0.5)) / 100
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
