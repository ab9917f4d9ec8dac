package charts

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"testing"

	"github.com/navidrome/podium/dataset"
	"github.com/navidrome/podium/selector"
	"github.com/navidrome/podium/summary"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCharts(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Charts Suite")
}

type staticProvider struct {
	ds  *dataset.Dataset
	err error
}

func (p staticProvider) Dataset() (*dataset.Dataset, error) { return p.ds, p.err }

type renderCounter struct {
	calls map[string]int
}

func (c *renderCounter) ObserveRender(view string, empty bool) {
	key := view + ":ok"
	if empty {
		key = view + ":empty"
	}
	c.calls[key]++
}

func rec(athlete, country, sport, medal string) dataset.Record {
	return dataset.Record{Athlete: athlete, Country: country, Sport: sport, Medal: medal, Year: "2012", City: "London"}
}

func sampleDataset() *dataset.Dataset {
	return dataset.New(dataset.KnownColumns, []dataset.Record{
		rec("A", "USA", "Fencing", "Gold"),
		rec("A", "USA", "Fencing", "Gold"),
		rec("B", "USA", "Fencing", "Bronze"),
		rec("C", "USA", "Athletics", "Silver"),
		rec("D <script>", "FRA", "Fencing", "Gold"),
		rec("", "FRA", "Fencing", "Gold"),
	})
}

var _ = Describe("Charts", func() {
	var (
		ds       *dataset.Dataset
		o        Options
		observer *renderCounter
	)

	BeforeEach(func() {
		ds = sampleDataset()
		observer = &renderCounter{calls: map[string]int{}}
		o = Options{PreferredCountry: "USA", TopAthletes: 10, Observer: observer}
	})

	get := func(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		h(w, req)
		return w
	}

	Describe("Prepare", func() {
		It("summarizes the requested selection", func() {
			choices, s := Prepare(ds, selector.Selection{Country: "USA", Sport: "Fencing"}, o)
			Expect(choices.Countries).To(Equal([]string{"FRA", "USA"}))
			Expect(choices.Sports).To(Equal([]string{"Athletics", "Fencing"}))
			Expect(s.Records).To(Equal(3))
			Expect(s.TopAthletes).To(Equal([]summary.AthleteCount{{Athlete: "A", Medals: 2}, {Athlete: "B", Medals: 1}}))
			Expect(s.Breakdown).To(Equal([]summary.MedalCount{{Medal: "Gold", Count: 2}}))
		})

		It("falls back to the preferred country and its first sport", func() {
			_, s := Prepare(ds, selector.Selection{}, o)
			Expect(s.Selection).To(Equal(selector.Selection{Country: "USA", Sport: "Athletics"}))
		})
	})

	Describe("buildTopAthletesChart", func() {
		It("returns nil for an empty summary", func() {
			Expect(buildTopAthletesChart(summary.Summary{}, 10)).To(BeNil())
		})

		It("plots athletes against medal counts", func() {
			_, s := Prepare(ds, selector.Selection{Country: "USA", Sport: "Fencing"}, o)
			chart := buildTopAthletesChart(s, 10)
			Expect(chart).NotTo(BeNil())
			chart.Validate()

			jsonBytes, err := json.Marshal(chart.JSON())
			Expect(err).NotTo(HaveOccurred())
			jsonStr := string(jsonBytes)
			Expect(jsonStr).To(ContainSubstring("Top 10 Athletes by Medal Count"))
			Expect(jsonStr).To(ContainSubstring(`"A"`))
			Expect(jsonStr).To(ContainSubstring(`"B"`))
			Expect(jsonStr).To(ContainSubstring("Total Medals"))
		})
	})

	Describe("buildMedalBreakdownChart", func() {
		It("returns nil for an empty summary", func() {
			Expect(buildMedalBreakdownChart(summary.Summary{})).To(BeNil())
		})

		It("titles the pie after the top athlete", func() {
			s := summary.Summary{
				TopAthletes: []summary.AthleteCount{{Athlete: "PHELPS, Michael", Medals: 3}},
				TopAthlete:  "PHELPS, Michael",
				Breakdown:   []summary.MedalCount{{Medal: "Gold", Count: 2}, {Medal: "Bronze", Count: 1}},
			}
			chart := buildMedalBreakdownChart(s)
			Expect(chart).NotTo(BeNil())
			chart.Validate()

			jsonBytes, err := json.Marshal(chart.JSON())
			Expect(err).NotTo(HaveOccurred())
			jsonStr := string(jsonBytes)
			Expect(jsonStr).To(ContainSubstring("Medal Breakdown for PHELPS, Michael"))
			Expect(jsonStr).To(ContainSubstring("Gold"))
			Expect(jsonStr).To(ContainSubstring("Bronze"))
		})
	})

	Describe("DashboardHandler", func() {
		It("renders the default selection with both charts", func() {
			w := get(DashboardHandler(staticProvider{ds: ds}, o), "/?country=USA&sport=Fencing")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("text/html; charset=utf-8"))
			body := w.Body.String()
			Expect(body).To(ContainSubstring("Who Rules the Podium 1896-2012?"))
			Expect(body).To(ContainSubstring("USA: Fencing"))
			Expect(body).To(ContainSubstring(`id="topAthletes"`))
			Expect(body).To(ContainSubstring(`id="medalBreakdown"`))
			Expect(body).To(ContainSubstring("Medal Breakdown for A"))
			Expect(body).To(ContainSubstring("echarts.min.js"))
			Expect(body).NotTo(ContainSubstring("No data found"))
			Expect(observer.calls["dashboard:ok"]).To(Equal(1))
		})

		It("marks the resolved selection in both selectors", func() {
			w := get(DashboardHandler(staticProvider{ds: ds}, o), "/")
			body := w.Body.String()
			Expect(body).To(ContainSubstring(`<option value="USA" selected>USA</option>`))
			Expect(body).To(ContainSubstring(`<option value="Athletics" selected>Athletics</option>`))
			Expect(body).To(ContainSubstring(`<option value="Fencing">Fencing</option>`))
		})

		It("shows the full table with escaped values and the cleaning summary", func() {
			w := get(DashboardHandler(staticProvider{ds: ds}, o), "/")
			body := w.Body.String()
			Expect(body).To(ContainSubstring(`class="dataset"`))
			Expect(body).To(ContainSubstring("D &lt;script&gt;"))
			Expect(body).NotTo(ContainSubstring("D <script>"))
			Expect(body).To(ContainSubstring("5 medal records."))
			Expect(body).To(ContainSubstring("(1 rows)"))
		})

		It("shows the empty state when nothing matches", func() {
			empty := dataset.New(dataset.RequiredColumns, nil)
			w := get(DashboardHandler(staticProvider{ds: empty}, o), "/?country=France&sport=Fencing")

			Expect(w.Code).To(Equal(http.StatusOK))
			body := w.Body.String()
			Expect(body).To(ContainSubstring("No data found for the selected country and sport."))
			Expect(body).NotTo(ContainSubstring(`id="topAthletes"`))
			Expect(observer.calls["dashboard:empty"]).To(Equal(1))
		})

		It("reports unavailable data as a visible error", func() {
			w := get(DashboardHandler(staticProvider{err: dataset.ErrDataUnavailable}, o), "/")
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
			Expect(w.Body.String()).To(ContainSubstring("Data unavailable"))
		})

		It("formats large record counts", func() {
			records := make([]dataset.Record, 1234)
			for i := range records {
				records[i] = rec("A", "USA", "Fencing", "Gold")
			}
			w := get(DashboardHandler(staticProvider{ds: dataset.New(dataset.RequiredColumns, records)}, o), "/")
			Expect(w.Body.String()).To(ContainSubstring("1,234 medal records."))
		})
	})

	Describe("SummaryHandler", func() {
		It("returns the summary as JSON", func() {
			w := get(SummaryHandler(staticProvider{ds: ds}, o), "/api/summary?country=USA&sport=Fencing")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("application/json"))

			var resp struct {
				Options selector.Options `json:"options"`
				Summary summary.Summary  `json:"summary"`
				Empty   bool             `json:"empty"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Empty).To(BeFalse())
			Expect(resp.Summary.Country).To(Equal("USA"))
			Expect(resp.Summary.TopAthlete).To(Equal("A"))
			Expect(resp.Summary.TopAthletes).To(HaveLen(2))
			Expect(resp.Options.Countries).To(Equal([]string{"FRA", "USA"}))
			Expect(observer.calls["api:ok"]).To(Equal(1))
		})

		It("returns empty arrays for an empty selection", func() {
			empty := dataset.New(dataset.RequiredColumns, nil)
			w := get(SummaryHandler(staticProvider{ds: empty}, o), "/api/summary")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"topAthletes":[]`))
			Expect(w.Body.String()).To(ContainSubstring(`"empty":true`))
		})

		It("returns 503 when the dataset cannot be loaded", func() {
			w := get(SummaryHandler(staticProvider{err: errors.New("boom")}, o), "/api/summary")
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Describe("PageHandler", func() {
		It("returns 404 when the selection is empty", func() {
			empty := dataset.New(dataset.RequiredColumns, nil)
			w := get(PageHandler(staticProvider{ds: empty}, o), "/charts")
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(ContainSubstring("No data found"))
		})

		It("returns HTML with both charts", func() {
			w := get(PageHandler(staticProvider{ds: ds}, o), "/charts?country=USA&sport=Fencing")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("text/html"))
			body := w.Body.String()
			Expect(body).To(ContainSubstring("Olympic Podium Dashboard"))
			Expect(body).To(ContainSubstring("Top 10 Athletes by Medal Count"))
			Expect(body).To(ContainSubstring("Medal Breakdown for A"))
			Expect(body).To(ContainSubstring("echarts"))
		})
	})

	Describe("ExportChartsJSON", func() {
		var outputDir string

		BeforeEach(func() {
			var err error
			outputDir, err = os.MkdirTemp("", "charts-output")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			os.RemoveAll(outputDir)
		})

		It("does nothing for an empty dataset", func() {
			err := ExportChartsJSON(dataset.New(nil, nil), outputDir, o)
			Expect(err).NotTo(HaveOccurred())

			_, err = os.Stat(filepath.Join(outputDir, "charts.json"))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})

		It("exports the default selection's charts", func() {
			err := ExportChartsJSON(ds, outputDir, o)
			Expect(err).NotTo(HaveOccurred())

			data, err := os.ReadFile(filepath.Join(outputDir, "charts.json"))
			Expect(err).NotTo(HaveOccurred())

			var output struct {
				TotalRecords   int                      `json:"totalRecords"`
				DroppedRecords int                      `json:"droppedRecords"`
				Selection      selector.Selection       `json:"selection"`
				Empty          bool                     `json:"empty"`
				LastUpdated    string                   `json:"lastUpdated"`
				Charts         []map[string]interface{} `json:"charts"`
			}
			Expect(json.Unmarshal(data, &output)).To(Succeed())
			Expect(output.TotalRecords).To(Equal(5))
			Expect(output.DroppedRecords).To(Equal(1))
			Expect(output.Selection).To(Equal(selector.Selection{Country: "USA", Sport: "Athletics"}))
			Expect(output.Empty).To(BeFalse())
			Expect(output.LastUpdated).NotTo(BeEmpty())
			Expect(output.Charts).To(HaveLen(2))
			Expect(output.Charts[0]["id"]).To(Equal("topAthletes"))
			Expect(output.Charts[1]["id"]).To(Equal("medalBreakdown"))
		})
	})
})
