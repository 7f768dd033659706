// Package adapters contains one source adapter per upstream ARSO/TEMIS data
// product. Each adapter performs exactly one fetch and parse per call and
// returns either a typed record or a tagged SourceError; retrying and merging
// belong to the coordinator.
package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
)

const userAgent = "slovenian-weather-integration/1.0"

var errCircuitOpen = errors.New("circuit breaker open")

// newBreaker builds the per-source circuit breaker. Adapters never retry, so
// the breaker only short-circuits calls while a source keeps failing.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// get performs a single HTTP GET through the circuit breaker and returns the
// response body. Failures come back as SourceError tagged with source.
func get(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, source, url string) ([]byte, error) {
	result, err := cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, arso.NewSourceError(source, arso.KindUnavailable, err)
	}
	return result.([]byte), nil
}

// getJSON fetches url and decodes the body into v.
func getJSON(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, source, url string, v interface{}) error {
	body, err := get(ctx, client, cb, source, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return arso.NewSourceError(source, arso.KindMalformed, err)
	}
	return nil
}

// featureCollection is the GeoJSON-ish envelope shared by the ARSO JSON
// products.
type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties featureProperties `json:"properties"`
	Geometry   *featureGeometry  `json:"geometry"`
}

type featureProperties struct {
	Title string       `json:"title"`
	Days  []featureDay `json:"days"`
}

type featureDay struct {
	Date     string            `json:"date"`
	Timeline []json.RawMessage `json:"timeline"`
}

type featureGeometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
}
