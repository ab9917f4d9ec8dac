package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/navidrome/podium/charts"
	"github.com/navidrome/podium/config"
	"github.com/navidrome/podium/consts"
	"github.com/navidrome/podium/dataset"
	_ "github.com/navidrome/podium/db"
	"github.com/navidrome/podium/metrics"
)

func main() {
	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal(err)
	}

	rec := metrics.New()
	src := dataset.NewSource(cfg.DataPath(), dataset.WithLoadObserver(rec.ObserveLoad))
	ds, err := src.Dataset()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Loaded %d medal records from %s (%d dropped)", ds.Len(), src.Path(), ds.Dropped())

	o := charts.Options{
		PreferredCountry: cfg.PreferredCountry,
		TopAthletes:      cfg.TopAthletes,
		Observer:         rec,
	}
	go generateCharts(src, cfg.ChartDataDir(), o)()

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", charts.DashboardHandler(src, o))

	// Rate-limited JSON summary
	limiter := httprate.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, httprate.WithKeyByIP())
	r.With(limiter.Handler).Get("/api/summary", charts.SummaryHandler(src, o))

	// Exported charts.json (protected by the API key if set)
	r.With(apiKeyMiddleware(cfg.APIKey)).Get("/api/charts", chartsJSONHandler(cfg.ChartDataDir()))

	r.Handle("/metrics", rec.Handler())

	// Dev-only routes
	registerDevRoutes(r, src, o, cfg.ChartDataDir())

	log.Print("Starting Podium server on :" + cfg.Port)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		ReadHeaderTimeout: consts.ReadHeaderTimeout,
		Handler:           r,
	}
	err = server.ListenAndServe()
	if err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}
