package adapters

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/net/html"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
)

const uvSource = "uv"

// UVReport carries the scraped current UV index and daily forecast.
type UVReport struct {
	Current arso.Float
	Daily   []arso.UVForecastPoint
}

// UVAdapter scrapes the TEMIS UV index page for a pair of coordinates. The
// page carries both the current value and the daily forecast in plain HTML
// tables.
type UVAdapter struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewUVAdapter(client *http.Client) *UVAdapter {
	return &UVAdapter{
		baseURL: "https://www.temis.nl/uvradiation/nrt/uvindex.php",
		client:  client,
		circuit: newBreaker(uvSource),
	}
}

// SetBaseURL overrides the upstream URL, for tests.
func (a *UVAdapter) SetBaseURL(u string) { a.baseURL = u }

// Fetch downloads and scrapes the UV page. Rows that parse as neither a date
// nor a number are skipped, not errors.
func (a *UVAdapter) Fetch(ctx context.Context, lat, lon float64) (*UVReport, error) {
	u := fmt.Sprintf("%s?lon=%g&lat=%g", a.baseURL, lon, lat)

	body, err := get(ctx, a.client, a.circuit, uvSource, u)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, arso.NewSourceError(uvSource, arso.KindMalformed, err)
	}

	tables := findElements(doc, "table")
	if len(tables) == 0 {
		return nil, arso.NewSourceError(uvSource, arso.KindIncomplete,
			fmt.Errorf("no tables in UV page"))
	}

	report := &UVReport{}

	// Current value: the first row on the page whose second column is a
	// plain number.
	for _, table := range tables {
		for _, cells := range tableRows(table) {
			if len(cells) < 2 {
				continue
			}
			if v, err := strconv.ParseFloat(cells[1], 64); err == nil {
				report.Current = arso.FloatOf(v)
				break
			}
		}
		if report.Current.Valid {
			break
		}
	}

	// Daily forecast: the first table with (date, value) rows.
	for _, table := range tables {
		var points []arso.UVForecastPoint
		for _, cells := range tableRows(table) {
			if len(cells) < 2 {
				continue
			}
			date, ok := parseUVDate(cells[0])
			if !ok {
				continue
			}
			v, err := strconv.ParseFloat(cells[1], 64)
			if err != nil {
				continue
			}
			points = append(points, arso.UVForecastPoint{Date: date, UVIndex: v})
		}
		if len(points) > 0 {
			report.Daily = arso.DedupeUVForecast(points)
			break
		}
	}

	if !report.Current.Valid && len(report.Daily) == 0 {
		return nil, arso.NewSourceError(uvSource, arso.KindIncomplete,
			fmt.Errorf("no UV values found in page"))
	}
	return report, nil
}

var uvDateLayouts = []string{"2006-01-02", "02-01-2006", "2 Jan 2006", "2 January 2006"}

func parseUVDate(s string) (string, bool) {
	for _, layout := range uvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// findElements collects all elements with the given tag, in document order.
func findElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// tableRows returns the trimmed cell texts of each tr in the table.
func tableRows(table *html.Node) [][]string {
	var rows [][]string
	for _, tr := range findElements(table, "tr") {
		var cells []string
		for _, td := range findElements(tr, "td") {
			cells = append(cells, strings.TrimSpace(nodeText(td)))
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
