package charts

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"log"
	"net/http"

	"github.com/navidrome/podium/consts"
	"github.com/navidrome/podium/selector"
	"github.com/navidrome/podium/summary"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/dashboard.html
var templatesFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templatesFS, "templates/dashboard.html"))

type dashboardPage struct {
	Title        string
	BrowserTitle string
	AssetsScript string
	Options      selector.Options
	Summary      summary.Summary
	Records      string
	Dropped      string
	Table        template.HTML
	Warning      string
	Charts       []dashboardChart
}

type dashboardChart struct {
	ID      string
	Options template.JS
}

func formatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// DashboardHandler serves the single-page dashboard. The country and sport
// query parameters select the view; missing or unknown values fall back to
// the defaults.
func DashboardHandler(src DatasetProvider, o Options) http.HandlerFunc {
	var tbl datasetTable
	return func(w http.ResponseWriter, r *http.Request) {
		ds, err := src.Dataset()
		if err != nil {
			log.Printf("Error loading dataset: %v", err)
			http.Error(w, "Data unavailable: "+err.Error(), http.StatusServiceUnavailable)
			return
		}

		choices, s := Prepare(ds, requestedSelection(r), o)
		o.observe("dashboard", s.Empty())

		page := dashboardPage{
			Title:        consts.PageTitle,
			BrowserTitle: consts.BrowserTitle,
			AssetsScript: consts.ChartAssetsScript,
			Options:      choices,
			Summary:      s,
			Records:      formatCount(ds.Len()),
			Dropped:      formatCount(ds.Dropped()),
			Table:        template.HTML(tbl.render(ds)),
		}
		if s.Empty() {
			page.Warning = consts.EmptyWarning
		}
		for _, c := range chartOptions(s, o.TopAthletes) {
			js, err := json.Marshal(c["options"])
			if err != nil {
				log.Printf("Error encoding chart %v: %v", c["id"], err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			page.Charts = append(page.Charts, dashboardChart{ID: c["id"].(string), Options: template.JS(js)})
		}

		var buf bytes.Buffer
		if err := dashboardTemplate.Execute(&buf, page); err != nil {
			log.Printf("Error rendering dashboard: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}

type summaryResponse struct {
	Options selector.Options `json:"options"`
	Summary summary.Summary  `json:"summary"`
	Empty   bool             `json:"empty"`
}

// SummaryHandler serves the resolved selection, the selector choices and the
// aggregated summary as JSON.
func SummaryHandler(src DatasetProvider, o Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, err := src.Dataset()
		if err != nil {
			log.Printf("Error loading dataset: %v", err)
			http.Error(w, "Data unavailable", http.StatusServiceUnavailable)
			return
		}

		choices, s := Prepare(ds, requestedSelection(r), o)
		o.observe("api", s.Empty())

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summaryResponse{Options: choices, Summary: s, Empty: s.Empty()}); err != nil {
			log.Printf("Error encoding summary: %v", err)
		}
	}
}
