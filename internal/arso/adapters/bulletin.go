package adapters

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
)

const bulletinSource = "bulletin"

// rssStationCodes maps location names to the station code used by the
// per-station RSS bulletin.
var rssStationCodes = map[string]string{
	"Ljubljana":                          "observation_LJUBL-ANA_BEZIGRAD",
	"Letališče Jožeta Pučnika Ljubljana": "observation_LJUBL-ANA_BRNIK",
	"Letališče Edvarda Rusjana Maribor":  "observation_MARIBOR_SLIVNICA",
	"Celje":                              "observation_CELJE_MEDLOG",
	"Bilje pri Novi Gorici":              "observation_NOVA-GOR_BILJE",
	"Novo mesto":                         "observation_NOVO-MES",
	"Murska Sobota":                      "observation_MURSK-SOB_RAKICAN",
	"Črnomelj":                           "observation_CRNOMELJ_DOBLICE",
	"Kočevje":                            "observation_KOCEVJE",
	"Letališče Portorož":                 "observation_PORTOROZ_SECOVLJE",
	"Postojna":                           "observation_POSTOJNA",
	"Rateče":                             "observation_RATECE",
	"Šmartno pri Slovenj Gradcu":         "observation_SMART-SG",
}

var (
	dewPointPattern   = regexp.MustCompile(`Temperatura rosišča:\s*(-?\d+\.?\d*)\s*°C`)
	visibilityPattern = regexp.MustCompile(`Vidnost:\s*(\d+\.?\d*)\s*km`)
)

// BulletinReport carries the values extracted from the textual station
// bulletin. They fill observation fields the JSON feeds left absent.
type BulletinReport struct {
	DewPoint     arso.Float
	VisibilityKm arso.Float
}

// BulletinAdapter fetches the per-station RSS weather bulletin and extracts
// dew point and visibility from the newest item.
type BulletinAdapter struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	parser  *gofeed.Parser
}

func NewBulletinAdapter(client *http.Client) *BulletinAdapter {
	return &BulletinAdapter{
		baseURL: "https://meteo.arso.gov.si/uploads/probase/www/observ/surface/text/sl",
		client:  client,
		circuit: newBreaker(bulletinSource),
		parser:  gofeed.NewParser(),
	}
}

// SetBaseURL overrides the upstream URL, for tests.
func (a *BulletinAdapter) SetBaseURL(u string) { a.baseURL = u }

// Fetch retrieves and parses the bulletin for a location.
func (a *BulletinAdapter) Fetch(ctx context.Context, location string) (*BulletinReport, error) {
	code, ok := rssStationCodes[location]
	if !ok {
		return nil, arso.NewSourceError(bulletinSource, arso.KindIncomplete,
			fmt.Errorf("%q has no station bulletin", location))
	}

	body, err := get(ctx, a.client, a.circuit, bulletinSource, fmt.Sprintf("%s/%s_latest.rss", a.baseURL, code))
	if err != nil {
		return nil, err
	}

	feed, err := a.parser.ParseString(string(body))
	if err != nil {
		return nil, arso.NewSourceError(bulletinSource, arso.KindMalformed, err)
	}
	if len(feed.Items) == 0 {
		return nil, arso.NewSourceError(bulletinSource, arso.KindIncomplete,
			fmt.Errorf("bulletin feed has no items"))
	}

	item := feed.Items[0]
	text := strings.Join([]string{item.Title, item.Description, item.Content}, " ")

	report := &BulletinReport{}
	if m := dewPointPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			report.DewPoint = arso.FloatOf(v)
		}
	}
	if m := visibilityPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			report.VisibilityKm = arso.FloatOf(v)
		}
	}
	return report, nil
}
