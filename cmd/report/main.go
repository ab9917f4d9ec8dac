package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/navidrome/podium/charts"
	"github.com/navidrome/podium/config"
	"github.com/navidrome/podium/dataset"
	_ "github.com/navidrome/podium/db"
	"github.com/navidrome/podium/selector"
	"github.com/navidrome/podium/summary"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

type reportFlags struct {
	data    string
	country string
	sport   string
	top     int
}

func newRootCommand() *cobra.Command {
	var f reportFlags
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the medal summary for a country and sport",
		Long: `Print the top athletes and the medal breakdown of the best of them for one
country and sport. Missing or unknown selections fall back to the same
defaults the dashboard uses.`,
		Example: `  # Default selection
  report

  # Top 5 US swimmers
  report --country USA --sport Aquatics --top 5`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("data") {
				f.data = cfg.DataPath()
			}
			if !cmd.Flags().Changed("top") {
				f.top = cfg.TopAthletes
			}
			ds, err := dataset.Load(f.data)
			if err != nil {
				return err
			}
			o := charts.Options{PreferredCountry: cfg.PreferredCountry, TopAthletes: f.top}
			return runReport(cmd.OutOrStdout(), ds, selector.Selection{Country: f.country, Sport: f.sport}, o)
		},
	}

	cmd.Flags().StringVar(&f.data, "data", "", "Path to the medal data (CSV or SQLite snapshot)")
	cmd.Flags().StringVar(&f.country, "country", "", "Country code to report on")
	cmd.Flags().StringVar(&f.sport, "sport", "", "Sport to report on")
	cmd.Flags().IntVar(&f.top, "top", 0, "Number of athletes to list")
	return cmd
}

func runReport(w io.Writer, ds *dataset.Dataset, requested selector.Selection, o charts.Options) error {
	if o.TopAthletes <= 0 {
		return fmt.Errorf("--top must be positive, got %d", o.TopAthletes)
	}
	choices, s := charts.Prepare(ds, requested, o)

	_, _ = fmt.Fprintf(w, "%s: %s\n", s.Country, s.Sport)
	_, _ = fmt.Fprintf(w, "%d medal records, %d dropped, %d countries, %d sports\n\n",
		ds.Len(), ds.Dropped(), len(choices.Countries), len(choices.Sports))

	if s.Empty() {
		_, _ = fmt.Fprintln(w, "No data found for the selected country and sport.")
		return nil
	}

	_, _ = fmt.Fprintf(w, "Top %d Athletes by Medal Count\n", o.TopAthletes)
	renderTopAthletes(w, s.TopAthletes)
	_, _ = fmt.Fprintf(w, "\nMedal Breakdown for %s\n", s.TopAthlete)
	renderBreakdown(w, s.Breakdown)
	return nil
}

func renderTopAthletes(w io.Writer, athletes []summary.AthleteCount) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Athlete", "Medals"})
	for i, a := range athletes {
		t.AppendRow(table.Row{i + 1, a.Athlete, a.Medals})
	}
	t.Render()
}

func renderBreakdown(w io.Writer, breakdown []summary.MedalCount) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Medal", "Count"})
	var total int
	for _, m := range breakdown {
		t.AppendRow(table.Row{m.Medal, m.Count})
		total += m.Count
	}
	t.AppendFooter(table.Row{"Total", total})
	t.Render()
}
