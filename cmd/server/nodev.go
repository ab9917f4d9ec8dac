//go:build !dev

package main

import (
	"github.com/go-chi/chi/v5"
	"github.com/navidrome/podium/charts"
)

func registerDevRoutes(chi.Router, charts.DatasetProvider, charts.Options, string) {}
