package main

import (
	"log"

	"github.com/navidrome/podium/charts"
)

func generateCharts(src charts.DatasetProvider, outputDir string, o charts.Options) func() {
	return func() {
		log.Print("Exporting charts JSON")
		ds, err := src.Dataset()
		if err != nil {
			log.Printf("Error loading dataset: %v", err)
			return
		}
		if err := charts.ExportChartsJSON(ds, outputDir, o); err != nil {
			log.Printf("Error exporting charts JSON: %v", err)
		}
	}
}
