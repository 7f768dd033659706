package adapters

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"
	"golang.org/x/text/encoding/charmap"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
	"github.com/andrejs2/slovenian-weather-integration/internal/log"
)

const airSource = "airquality"

// Pollutants tracked from the hourly air-quality feed.
var Pollutants = []string{"pm10", "pm2.5", "so2", "co", "o3", "no2", "benzen"}

// airStationMapping maps logical locations to the physical measuring
// stations whose readings are averaged for them.
var airStationMapping = map[string][]string{
	"Ljubljana":             {"LJ Bežigrad", "LJ Celovška", "LJ Vič"},
	"Maribor":               {"MB Titova", "MB Vrbanski"},
	"Celje":                 {"CE bolnica", "CE Ljubljanska"},
	"Bilje pri Novi Gorici": {"NG Grčna"},
	"Koper":                 {"Koper"},
	"Kranj":                 {"Kranj"},
	"Novo mesto":            {"Novo mesto"},
	"Murska Sobota":         {"MS Cankarjeva", "MS Rakičan"},
	"Ptuj":                  {"Ptuj"},
	"Trbovlje":              {"Trbovlje"},
	"Zagorje":               {"Zagorje"},
	"Hrastnik":              {"Hrastnik"},
	"Črnomelj":              {"Črnomelj Loka"},
	"Ilirska Bistrica":      {"I.Bistrica Gregorčičeva"},
	"Iskrba":                {"Iskrba"},
	"Krvavec":               {"Krvavec"},
	"Otlica":                {"Otlica"},
}

type airDocument struct {
	Stations []airStation `xml:"postaja"`
}

type airStation struct {
	Name    string `xml:"merilno_mesto"`
	PM10    string `xml:"pm10"`
	PM25    string `xml:"pm2.5"`
	SO2     string `xml:"so2"`
	CO      string `xml:"co"`
	O3      string `xml:"o3"`
	NO2     string `xml:"no2"`
	Benzene string `xml:"benzen"`
}

func (s airStation) value(pollutant string) string {
	switch pollutant {
	case "pm10":
		return s.PM10
	case "pm2.5":
		return s.PM25
	case "so2":
		return s.SO2
	case "co":
		return s.CO
	case "o3":
		return s.O3
	case "no2":
		return s.NO2
	case "benzen":
		return s.Benzene
	}
	return ""
}

// AirQualityAdapter fetches the hourly pollutant table and averages the
// physical stations mapped to one logical location.
type AirQualityAdapter struct {
	url     string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewAirQualityAdapter(client *http.Client) *AirQualityAdapter {
	return &AirQualityAdapter{
		url:     "https://www.arso.gov.si/xml/zrak/ones_zrak_urni_podatki_zadnji.xml",
		client:  client,
		circuit: newBreaker(airSource),
	}
}

// SetBaseURL overrides the upstream URL, for tests.
func (a *AirQualityAdapter) SetBaseURL(u string) { a.url = u }

// Fetch returns the averaged pollutant concentrations for a logical
// location. Pollutants with no numeric reading stay absent; non-numeric
// readings are skipped and logged.
func (a *AirQualityAdapter) Fetch(ctx context.Context, location string) (map[string]arso.Float, error) {
	stations, ok := airStationMapping[location]
	if !ok {
		return nil, arso.NewSourceError(airSource, arso.KindIncomplete,
			fmt.Errorf("%q has no air-quality stations", location))
	}

	body, err := get(ctx, a.client, a.circuit, airSource, a.url)
	if err != nil {
		return nil, err
	}

	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.CharsetReader = charsetReader

	var doc airDocument
	if err := decoder.Decode(&doc); err != nil {
		return nil, arso.NewSourceError(airSource, arso.KindMalformed, err)
	}

	wanted := make(map[string]bool, len(stations))
	for _, s := range stations {
		wanted[s] = true
	}

	sums := make(map[string]float64, len(Pollutants))
	counts := make(map[string]int, len(Pollutants))
	for _, station := range doc.Stations {
		if !wanted[strings.TrimSpace(station.Name)] {
			continue
		}
		for _, pollutant := range Pollutants {
			raw := strings.TrimSpace(station.value(pollutant))
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
			if err != nil {
				log.Warnw("skipping invalid pollutant value",
					"source", airSource, "station", station.Name, "pollutant", pollutant, "value", raw)
				continue
			}
			sums[pollutant] += v
			counts[pollutant]++
		}
	}

	out := make(map[string]arso.Float, len(Pollutants))
	for _, pollutant := range Pollutants {
		if n := counts[pollutant]; n > 0 {
			avg := sums[pollutant] / float64(n)
			out[pollutant] = arso.FloatOf(float64(int64(avg*10+0.5)) / 10)
		} else {
			out[pollutant] = arso.Float{}
		}
	}
	return out, nil
}

// charsetReader handles the legacy encodings the feed has been published in.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "utf-8", "":
		return input, nil
	case "iso-8859-2":
		return charmap.ISO8859_2.NewDecoder().Reader(input), nil
	case "windows-1250":
		return charmap.Windows1250.NewDecoder().Reader(input), nil
	}
	return nil, fmt.Errorf("unsupported charset %q", charset)
}
