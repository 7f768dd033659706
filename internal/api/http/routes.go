package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
	"github.com/andrejs2/slovenian-weather-integration/internal/coordinator"
	"github.com/andrejs2/slovenian-weather-integration/internal/store"
)

var validate = validator.New()

// Gazetteer lists the locations the upstream services publish.
type Gazetteer interface {
	Fetch(ctx context.Context) ([]arso.Location, error)
}

// API exposes the aggregated weather state over HTTP.
type API struct {
	coordinators map[string]*coordinator.Coordinator
	history      *store.MemoryStore
	gazetteer    Gazetteer
}

// New builds the API over the given coordinators and snapshot history.
func New(coordinators []*coordinator.Coordinator, history *store.MemoryStore, gazetteer Gazetteer) *API {
	byName := make(map[string]*coordinator.Coordinator, len(coordinators))
	for _, c := range coordinators {
		byName[c.Location()] = c
	}
	return &API{coordinators: byName, history: history, gazetteer: gazetteer}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func (a *API) RegisterRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")
	v1.Get("/weather/snapshot", a.getSnapshot)
	v1.Get("/weather/forecast", a.getForecast)
	v1.Get("/weather/history", a.getHistory)
	v1.Get("/airquality", a.getAirQuality)
	v1.Get("/locations", a.getLocations)
}

func (a *API) snapshotFor(c *fiber.Ctx) (*arso.Snapshot, error) {
	location := c.Query("location")
	if location == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "location query parameter is required")
	}
	coord, ok := a.coordinators[location]
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "location is not being aggregated")
	}
	snap, err := coord.Snapshot()
	if err != nil {
		if errors.Is(err, arso.ErrNotReady) {
			return nil, fiber.NewError(fiber.StatusServiceUnavailable, "no snapshot published yet")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to read snapshot")
	}
	return snap, nil
}

func (a *API) getSnapshot(c *fiber.Ctx) error {
	snap, err := a.snapshotFor(c)
	if err != nil {
		return err
	}
	return c.JSON(snap)
}

// forecastQuery holds query parameters for the forecast endpoint.
type forecastQuery struct {
	Location string `validate:"required"`
	Horizon  string `validate:"required,oneof=1h 3h 6h 24h"`
}

func (a *API) getForecast(c *fiber.Ctx) error {
	req := forecastQuery{
		Location: c.Query("location"),
		Horizon:  c.Query("horizon", "1h"),
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	snap, err := a.snapshotFor(c)
	if err != nil {
		return err
	}

	entries := snap.Forecast(arso.Horizon(req.Horizon))
	if len(entries) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "no forecast data for requested horizon")
	}
	return c.JSON(fiber.Map{
		"location": snap.Location,
		"horizon":  req.Horizon,
		"entries":  entries,
	})
}

func (a *API) getAirQuality(c *fiber.Ctx) error {
	snap, err := a.snapshotFor(c)
	if err != nil {
		return err
	}
	if snap.AirQuality == nil {
		return fiber.NewError(fiber.StatusNotFound, "no air quality data for requested location")
	}
	return c.JSON(snap.AirQuality)
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Location string    `validate:"required"`
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.Location = c.Query("location")

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

func (a *API) getHistory(c *fiber.Ctx) error {
	var req historyQuery
	if err := req.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	snapshots, err := a.history.Range(req.Location, req.From, req.To)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
	}

	return c.JSON(fiber.Map{
		"location":  req.Location,
		"from":      req.From,
		"to":        req.To,
		"snapshots": snapshots,
	})
}

func (a *API) getLocations(c *fiber.Ctx) error {
	if a.gazetteer == nil {
		return fiber.NewError(fiber.StatusNotFound, "gazetteer not configured")
	}
	locations, err := a.gazetteer.Fetch(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch locations")
	}
	return c.JSON(locations)
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
