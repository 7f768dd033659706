// Package coordinator runs the per-location refresh cycle: it fans out to
// every upstream adapter, merges the results into a Snapshot and publishes it
// atomically. Readers always see either the previous complete snapshot or the
// new one, never a half-built state.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
	"github.com/andrejs2/slovenian-weather-integration/internal/arso/adapters"
	"github.com/andrejs2/slovenian-weather-integration/internal/arso/indices"
	"github.com/andrejs2/slovenian-weather-integration/internal/log"
)

// DefaultCycleTimeout bounds one whole refresh cycle across all sources.
const DefaultCycleTimeout = 120 * time.Second

// ForecastSource is the mandatory upstream: without its bundle a cycle cannot
// produce a snapshot.
type ForecastSource interface {
	Fetch(ctx context.Context, location string) (*adapters.ForecastBundle, error)
}

// StationSource returns the dense primary-station record, when one exists.
type StationSource interface {
	Fetch(ctx context.Context, location string) (*arso.ObservationDetails, error)
}

// UVSource returns the current UV index and daily forecast for coordinates.
type UVSource interface {
	Fetch(ctx context.Context, lat, lon float64) (*adapters.UVReport, error)
}

// AirSource returns averaged pollutant concentrations for a location.
type AirSource interface {
	Fetch(ctx context.Context, location string) (map[string]arso.Float, error)
}

// AgroSource returns the agro-meteorological series for a location.
type AgroSource interface {
	Fetch(ctx context.Context, location string) (*arso.AgroReading, error)
}

// BulletinSource returns values extracted from the textual station bulletin.
type BulletinSource interface {
	Fetch(ctx context.Context, location string) (*adapters.BulletinReport, error)
}

// UTCISource returns the published apparent-temperature series.
type UTCISource interface {
	Fetch(ctx context.Context, location string) ([]indices.UTCIPoint, error)
}

// PollenSource returns the country-wide pollen bulletin.
type PollenSource interface {
	Fetch(ctx context.Context) ([]arso.PollenPlant, error)
}

// Resolver maps a location name to coordinates via the gazetteer.
type Resolver interface {
	Resolve(ctx context.Context, name string) (lat, lon float64, err error)
}

// Sources bundles the adapters a Coordinator fans out to. Forecast is
// required; every other field may be nil and its snapshot section stays
// absent.
type Sources struct {
	Forecast ForecastSource
	Station  StationSource
	UV       UVSource
	Air      AirSource
	Agro     AgroSource
	Bulletin BulletinSource
	UTCI     UTCISource
	Pollen   PollenSource
	Resolver Resolver
}

// Coordinator owns the refresh state machine for a single location.
type Coordinator struct {
	location     string
	sources      Sources
	cycleTimeout time.Duration
	now          func() time.Time

	refreshing atomic.Bool
	snapshot   atomic.Pointer[arso.Snapshot]

	mu   sync.Mutex
	subs map[chan *arso.Snapshot]struct{}
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithCycleTimeout overrides the whole-cycle deadline.
func WithCycleTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.cycleTimeout = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// New creates a Coordinator for one location.
func New(location string, sources Sources, opts ...Option) (*Coordinator, error) {
	if location == "" {
		return nil, errors.New("coordinator: location must not be empty")
	}
	if sources.Forecast == nil {
		return nil, errors.New("coordinator: forecast source is required")
	}
	c := &Coordinator{
		location:     location,
		sources:      sources,
		cycleTimeout: DefaultCycleTimeout,
		now:          time.Now,
		subs:         make(map[chan *arso.Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Location returns the location this coordinator serves.
func (c *Coordinator) Location() string { return c.location }

// Snapshot returns the most recently published snapshot. Before the first
// successful cycle it reports ErrNotReady.
func (c *Coordinator) Snapshot() (*arso.Snapshot, error) {
	snap := c.snapshot.Load()
	if snap == nil {
		return nil, arso.ErrNotReady
	}
	return snap, nil
}

// Subscribe returns a channel receiving every published snapshot and a cancel
// function releasing it. Slow consumers miss intermediate snapshots instead
// of blocking the publisher.
func (c *Coordinator) Subscribe() (<-chan *arso.Snapshot, func()) {
	ch := make(chan *arso.Snapshot, 1)
	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subs[ch]; ok {
			delete(c.subs, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

func (c *Coordinator) publish(snap *arso.Snapshot) {
	c.snapshot.Store(snap)

	c.mu.Lock()
	defer c.mu.Unlock()
	for ch := range c.subs {
		select {
		case ch <- snap:
		default:
			// Drop the stale value so the latest snapshot always fits.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// cycleResult collects what the fan-out produced. Each field is written by
// exactly one goroutine; the errgroup Wait orders writes before reads.
type cycleResult struct {
	bundle   *adapters.ForecastBundle
	station  *arso.ObservationDetails
	air      map[string]arso.Float
	agro     *arso.AgroReading
	bulletin *adapters.BulletinReport
	utci     []indices.UTCIPoint
	pollen   []arso.PollenPlant

	lat, lon  float64
	hasCoords bool
}

// Refresh runs one refresh cycle. Concurrent calls coalesce: while a cycle is
// in flight additional calls return immediately without starting another. A
// forecast failure never overwrites the previous snapshot; any other source
// failing degrades only its own section.
func (c *Coordinator) Refresh(ctx context.Context) error {
	if !c.refreshing.CompareAndSwap(false, true) {
		log.Debugw("refresh already in flight, skipping", "location", c.location)
		return nil
	}
	defer c.refreshing.Store(false)

	cycleID := uuid.NewString()
	started := c.now()
	log.Debugw("refresh cycle starting", "location", c.location, "cycle", cycleID)

	ctx, cancel := context.WithTimeout(ctx, c.cycleTimeout)
	defer cancel()

	var res cycleResult
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		bundle, err := c.sources.Forecast.Fetch(gctx, c.location)
		if err != nil {
			return fmt.Errorf("forecast fetch for %q: %w", c.location, err)
		}
		res.bundle = bundle
		return nil
	})

	if c.sources.Resolver != nil {
		g.Go(func() error {
			lat, lon, err := c.sources.Resolver.Resolve(gctx, c.location)
			if err != nil {
				log.Debugw("coordinate resolution failed", "location", c.location, "cycle", cycleID, "error", err)
				return nil
			}
			res.lat, res.lon, res.hasCoords = lat, lon, true
			return nil
		})
	}
	if c.sources.Station != nil {
		g.Go(func() error {
			details, err := c.sources.Station.Fetch(gctx, c.location)
			if err != nil {
				log.Warnw("station fetch failed", "location", c.location, "cycle", cycleID, "error", err)
				return nil
			}
			res.station = details
			return nil
		})
	}
	if c.sources.Air != nil {
		g.Go(func() error {
			pollutants, err := c.sources.Air.Fetch(gctx, c.location)
			if err != nil {
				log.Warnw("air quality fetch failed", "location", c.location, "cycle", cycleID, "error", err)
				return nil
			}
			res.air = pollutants
			return nil
		})
	}
	if c.sources.Agro != nil {
		g.Go(func() error {
			reading, err := c.sources.Agro.Fetch(gctx, c.location)
			if err != nil {
				log.Warnw("agro fetch failed", "location", c.location, "cycle", cycleID, "error", err)
				return nil
			}
			res.agro = reading
			return nil
		})
	}
	if c.sources.Bulletin != nil {
		g.Go(func() error {
			report, err := c.sources.Bulletin.Fetch(gctx, c.location)
			if err != nil {
				log.Debugw("bulletin fetch failed", "location", c.location, "cycle", cycleID, "error", err)
				return nil
			}
			res.bulletin = report
			return nil
		})
	}
	if c.sources.UTCI != nil {
		g.Go(func() error {
			points, err := c.sources.UTCI.Fetch(gctx, c.location)
			if err != nil {
				log.Debugw("UTCI series fetch failed", "location", c.location, "cycle", cycleID, "error", err)
				return nil
			}
			res.utci = points
			return nil
		})
	}
	if c.sources.Pollen != nil {
		g.Go(func() error {
			plants, err := c.sources.Pollen.Fetch(gctx)
			if err != nil {
				log.Debugw("pollen fetch failed", "cycle", cycleID, "error", err)
				return nil
			}
			res.pollen = plants
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if c.snapshot.Load() != nil {
			log.Warnw("refresh cycle failed, keeping previous snapshot",
				"location", c.location, "cycle", cycleID, "error", err)
		} else {
			log.Errorw("refresh cycle failed with no previous snapshot",
				"location", c.location, "cycle", cycleID, "error", err)
		}
		return err
	}

	// UV depends on coordinates, so it runs after the fan-out. The response
	// geometry backs up the gazetteer.
	var uv *adapters.UVReport
	if c.sources.UV != nil {
		lat, lon, ok := res.lat, res.lon, res.hasCoords
		if !ok && res.bundle.HasCoords {
			lat, lon, ok = res.bundle.Lat, res.bundle.Lon, true
		}
		if !ok {
			log.Warnw("no coordinates for UV fetch", "location", c.location, "cycle", cycleID)
		} else if report, err := c.sources.UV.Fetch(ctx, lat, lon); err != nil {
			log.Warnw("UV fetch failed", "location", c.location, "cycle", cycleID, "error", err)
		} else {
			uv = report
		}
	}

	snap := c.assemble(&res, uv)
	c.publish(snap)

	log.Infow("refresh cycle complete",
		"location", c.location,
		"cycle", cycleID,
		"elapsed", c.now().Sub(started).String(),
		"condition", snap.Condition,
	)
	return nil
}

// assemble merges the cycle results into an immutable snapshot.
func (c *Coordinator) assemble(res *cycleResult, uv *adapters.UVReport) *arso.Snapshot {
	now := c.now().UTC()

	current := arso.MergeObservation(res.bundle.Observation, res.station)
	if res.bulletin != nil {
		// The bulletin only fills gaps, it never overrides a measured value.
		if !current.DewPoint.Valid && res.bulletin.DewPoint.Valid {
			current.DewPoint = res.bulletin.DewPoint
		}
		if !current.VisibilityKm.Valid && res.bulletin.VisibilityKm.Valid {
			current.VisibilityKm = res.bulletin.VisibilityKm
		}
	}
	arso.NormalizeDetails(&current)

	snap := &arso.Snapshot{
		Location:  c.location,
		Current:   &current,
		Condition: current.Condition(),
		Agro:      res.agro,
		Pollen:    res.pollen,
		FetchedAt: now,
	}

	for horizon, entries := range res.bundle.Forecasts {
		normalized := make([]arso.ForecastEntry, len(entries))
		copy(normalized, entries)
		for i := range normalized {
			arso.NormalizeEntry(&normalized[i].TimelineEntry)
		}
		switch horizon {
		case arso.Horizon1h:
			snap.Forecast1h = normalized
		case arso.Horizon3h:
			snap.Forecast3h = normalized
		case arso.Horizon6h:
			snap.Forecast6h = normalized
		case arso.Horizon24h:
			snap.Forecast24h = normalized
		}
	}

	if uv != nil {
		snap.UVIndex = uv.Current
		snap.UVForecast = arso.DedupeUVForecast(uv.Daily)
		arso.AttachUV(snap.Forecast24h, snap.UVForecast)
	}

	if len(res.utci) > 0 {
		snap.ApparentTemperature = indices.LookupUTCI(res.utci, now)
	} else {
		snap.ApparentTemperature = indices.UTCIFromObservation(&current, now)
	}

	if res.air != nil {
		index, category := indices.ComputeAirQuality(res.air)
		snap.AirQuality = &arso.AirQualityReading{
			Pollutants:   res.air,
			OverallIndex: index,
			Category:     category,
		}
	}

	return snap
}
