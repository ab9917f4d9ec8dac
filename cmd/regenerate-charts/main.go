package main

import (
	"context"
	"log"

	"github.com/navidrome/podium/charts"
	"github.com/navidrome/podium/config"
	"github.com/navidrome/podium/dataset"
	_ "github.com/navidrome/podium/db"
)

func main() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	ds, err := dataset.Load(cfg.DataPath())
	if err != nil {
		log.Fatalf("Error loading dataset: %v", err)
	}

	chartDataDir := cfg.ChartDataDir()
	log.Printf("Generating charts.json in %s", chartDataDir)
	o := charts.Options{PreferredCountry: cfg.PreferredCountry, TopAthletes: cfg.TopAthletes}
	if err := charts.ExportChartsJSON(ds, chartDataDir, o); err != nil {
		log.Fatalf("Error exporting charts JSON: %v", err)
	}
	log.Print("Charts JSON generated successfully")
}
