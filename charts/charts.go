package charts

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/navidrome/podium/consts"
	"github.com/navidrome/podium/dataset"
	"github.com/navidrome/podium/selector"
	"github.com/navidrome/podium/summary"
)

// DatasetProvider hands out the loaded dataset. *dataset.Source implements it.
type DatasetProvider interface {
	Dataset() (*dataset.Dataset, error)
}

// RenderObserver is notified of every summary a handler renders.
type RenderObserver interface {
	ObserveRender(view string, empty bool)
}

// Options controls how selections are resolved and summarized.
type Options struct {
	PreferredCountry string
	TopAthletes      int
	Observer         RenderObserver
}

func (o Options) observe(view string, empty bool) {
	if o.Observer != nil {
		o.Observer.ObserveRender(view, empty)
	}
}

// Prepare runs the selection pipeline: resolve the requested selection,
// filter the dataset and summarize the result.
func Prepare(ds *dataset.Dataset, requested selector.Selection, o Options) (selector.Options, summary.Summary) {
	sel, choices := selector.Resolve(ds, requested, o.PreferredCountry)
	view := selector.Filter(ds, sel.Country, sel.Sport)
	return choices, summary.Summarize(view, sel, o.TopAthletes)
}

func requestedSelection(r *http.Request) selector.Selection {
	q := r.URL.Query()
	return selector.Selection{Country: q.Get("country"), Sport: q.Get("sport")}
}

func buildTopAthletesChart(s summary.Summary, n int) *charts.Bar {
	if s.Empty() {
		return nil
	}

	names := make([]string, len(s.TopAthletes))
	data := make([]opts.BarData, len(s.TopAthletes))
	for i, a := range s.TopAthletes {
		names[i] = a.Athlete
		data[i] = opts.BarData{Name: a.Athlete, Value: a.Medals}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:           consts.ChartWidth,
			Height:          consts.ChartHeight,
			BackgroundColor: consts.ChartBackgroundColor,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      fmt.Sprintf(consts.TopChartTitle, n),
			TitleStyle: &opts.TextStyle{Color: consts.ChartTextColor},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         "Athlete",
			NameLocation: "center",
			NameGap:      60,
			AxisLabel: &opts.AxisLabel{
				Color: consts.ChartTextColor,
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         consts.MedalsAxisName,
			NameLocation: "center",
			NameGap:      40,
			AxisLabel: &opts.AxisLabel{
				Color: consts.ChartTextColor,
			},
		}),
		charts.WithGridOpts(opts.Grid{
			Left:   "80",
			Bottom: "100",
		}),
	)

	bar.SetXAxis(names).AddSeries(consts.MedalsAxisName, data)
	return bar
}

func buildMedalBreakdownChart(s summary.Summary) *charts.Pie {
	if s.Empty() {
		return nil
	}

	data := make([]opts.PieData, len(s.Breakdown))
	for i, m := range s.Breakdown {
		data[i] = opts.PieData{Name: m.Medal, Value: m.Count}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:           consts.ChartWidth,
			Height:          consts.ChartHeight,
			BackgroundColor: consts.ChartBackgroundColor,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      fmt.Sprintf(consts.PieChartTitle, s.TopAthlete),
			TitleStyle: &opts.TextStyle{Color: consts.ChartTextColor},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: "{b}: {c} ({d}%)",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Right:     "10",
			Orient:    "vertical",
			TextStyle: &opts.TextStyle{Color: consts.ChartTextColor},
		}),
	)

	pie.AddSeries("Medals", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c}",
			}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{"0%", "70%"},
				Center: []string{"45%", "55%"},
			}),
		)

	return pie
}

// chartOptions returns the ECharts option objects for both charts, or nil
// when the summary is empty.
func chartOptions(s summary.Summary, n int) []map[string]interface{} {
	if s.Empty() {
		return nil
	}
	bar := buildTopAthletesChart(s, n)
	bar.Validate()
	pie := buildMedalBreakdownChart(s)
	pie.Validate()
	return []map[string]interface{}{
		{"id": "topAthletes", "options": bar.JSON()},
		{"id": "medalBreakdown", "options": pie.JSON()},
	}
}

// PageHandler renders the two charts for the requested selection as a plain
// go-echarts page.
func PageHandler(src DatasetProvider, o Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, err := src.Dataset()
		if err != nil {
			log.Printf("Error loading dataset: %v", err)
			http.Error(w, "Failed to load data", http.StatusServiceUnavailable)
			return
		}
		_, s := Prepare(ds, requestedSelection(r), o)
		o.observe("page", s.Empty())
		if s.Empty() {
			http.Error(w, consts.EmptyWarning, http.StatusNotFound)
			return
		}

		page := components.NewPage()
		page.PageTitle = consts.BrowserTitle
		page.AddCharts(
			buildTopAthletesChart(s, o.TopAthletes),
			buildMedalBreakdownChart(s),
		)

		w.Header().Set("Content-Type", "text/html")
		_ = page.Render(w)
	}
}

// ExportChartsJSON writes the charts for the default selection, with dataset
// metadata, to outputDir/charts.json.
func ExportChartsJSON(ds *dataset.Dataset, outputDir string, o Options) error {
	if ds.Len() == 0 {
		log.Print("No data to export")
		return nil
	}

	_, s := Prepare(ds, selector.Selection{}, o)
	chartsData := chartOptions(s, o.TopAthletes)
	if chartsData == nil {
		chartsData = []map[string]interface{}{}
	}

	output := map[string]interface{}{
		"totalRecords":   ds.Len(),
		"droppedRecords": ds.Dropped(),
		"selection":      s.Selection,
		"empty":          s.Empty(),
		"lastUpdated":    time.Now().UTC().Format(time.RFC3339),
		"charts":         chartsData,
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, consts.DirPermissions); err != nil {
		return err
	}

	outputPath := filepath.Join(outputDir, consts.ChartsJSONFile)
	if err := os.WriteFile(outputPath, jsonData, consts.FilePermissions); err != nil {
		return err
	}

	log.Printf("Exported charts to %s", outputPath)
	return nil
}
