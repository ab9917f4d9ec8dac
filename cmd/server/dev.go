//go:build dev

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/navidrome/podium/charts"
)

func registerDevRoutes(r chi.Router, src charts.DatasetProvider, o charts.Options, chartDataDir string) {
	// Static files for exported charts
	r.Handle("/chartdata/*", http.StripPrefix("/chartdata/", http.FileServer(http.Dir(chartDataDir))))

	// Plain go-echarts page, no rate limiting
	r.Get("/charts", charts.PageHandler(src, o))
}
