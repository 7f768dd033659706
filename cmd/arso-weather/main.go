package main

import (
	"context"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/andrejs2/slovenian-weather-integration/internal/api/http"
	"github.com/andrejs2/slovenian-weather-integration/internal/arso/adapters"
	"github.com/andrejs2/slovenian-weather-integration/internal/config"
	"github.com/andrejs2/slovenian-weather-integration/internal/coordinator"
	"github.com/andrejs2/slovenian-weather-integration/internal/log"
	"github.com/andrejs2/slovenian-weather-integration/internal/scheduler"
	"github.com/andrejs2/slovenian-weather-integration/internal/store"
)

func main() {
	// Load configuration (reads .env when present).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := log.Init(cfg.Debug); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer log.Sync()

	// Shared HTTP client for all outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory snapshot history with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	locations := adapters.NewLocationsAdapter(httpClient)
	sources := coordinator.Sources{
		Forecast: adapters.NewForecastAdapter(httpClient),
		Station:  adapters.NewStationAdapter(httpClient),
		UV:       adapters.NewUVAdapter(httpClient),
		Air:      adapters.NewAirQualityAdapter(httpClient),
		Agro:     adapters.NewAgroAdapter(httpClient),
		Bulletin: adapters.NewBulletinAdapter(httpClient),
		UTCI:     adapters.NewUTCISeriesAdapter(httpClient),
		Pollen:   adapters.NewPollenAdapter(httpClient),
		Resolver: locations,
	}

	coordinators := make([]*coordinator.Coordinator, 0, len(cfg.Locations))
	for _, location := range cfg.Locations {
		coord, err := coordinator.New(location, sources,
			coordinator.WithCycleTimeout(cfg.CycleTimeout))
		if err != nil {
			log.Fatalf("failed to create coordinator for %q: %v", location, err)
		}
		coordinators = append(coordinators, coord)
	}

	// Every published snapshot also lands in the history store.
	var feeds sync.WaitGroup
	cancels := make([]func(), 0, len(coordinators))
	for _, coord := range coordinators {
		updates, cancel := coord.Subscribe()
		cancels = append(cancels, cancel)
		feeds.Add(1)
		go func() {
			defer feeds.Done()
			for snap := range updates {
				memStore.Save(snap)
			}
		}()
	}

	// Scheduler that periodically refreshes every location.
	sched := scheduler.New(coordinators, cfg.FetchInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Warm up immediately instead of waiting for the first tick.
	go func() {
		for _, coord := range coordinators {
			coord := coord
			go func() {
				if err := coord.Refresh(context.Background()); err != nil {
					log.Warnw("initial refresh failed", "location", coord.Location(), "error", err)
				}
			}()
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:               "arso-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// API routes.
	api := httpapi.New(coordinators, memStore, locations)
	api.RegisterRoutes(app)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Warnf("fiber server stopped: %v", err)
		}
	}()
	log.Infow("arso-weather started", "port", cfg.Port, "locations", cfg.Locations)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warnf("error during shutdown: %v", err)
	}

	for _, cancel := range cancels {
		cancel()
	}
	feeds.Wait()
}
