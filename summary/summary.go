package summary

import (
	"cmp"
	"slices"

	"github.com/navidrome/podium/dataset"
	"github.com/navidrome/podium/selector"
)

// AthleteCount is one row of the top athletes table.
type AthleteCount struct {
	Athlete string `json:"athlete"`
	Medals  int    `json:"medals"`
}

// MedalCount is one slice of the medal breakdown.
type MedalCount struct {
	Medal string `json:"medal"`
	Count int    `json:"count"`
}

type Summary struct {
	selector.Selection
	Records     int            `json:"records"`
	TopAthletes []AthleteCount `json:"topAthletes"`
	TopAthlete  string         `json:"topAthlete,omitempty"`
	Breakdown   []MedalCount   `json:"breakdown"`
}

// Empty reports whether the selection matched no records.
func (s Summary) Empty() bool { return len(s.TopAthletes) == 0 }

// Summarize aggregates a filtered view into the ranked athletes and the medal
// breakdown of the best of them.
func Summarize(view []dataset.Record, sel selector.Selection, n int) Summary {
	s := Summary{
		Selection:   sel,
		Records:     len(view),
		TopAthletes: TopAthletes(view, n),
		Breakdown:   []MedalCount{},
	}
	if s.Empty() {
		return s
	}
	s.TopAthlete = s.TopAthletes[0].Athlete
	s.Breakdown = MedalBreakdown(view, s.TopAthlete)
	return s
}

// TopAthletes counts records per athlete and returns the n athletes with the
// most medals. Athletes with equal counts keep the order in which they first
// appear in view.
func TopAthletes(view []dataset.Record, n int) []AthleteCount {
	if n <= 0 {
		return []AthleteCount{}
	}
	counts := countBy(view, func(r dataset.Record) (string, bool) {
		return r.Athlete, true
	})
	ranked := make([]AthleteCount, len(counts))
	for i, c := range counts {
		ranked[i] = AthleteCount{Athlete: c.key, Medals: c.count}
	}
	slices.SortStableFunc(ranked, func(a, b AthleteCount) int {
		return cmp.Compare(b.Medals, a.Medals)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// MedalBreakdown counts athlete's records in view per medal kind, in order of
// first appearance.
func MedalBreakdown(view []dataset.Record, athlete string) []MedalCount {
	counts := countBy(view, func(r dataset.Record) (string, bool) {
		return r.Medal, r.Athlete == athlete
	})
	breakdown := make([]MedalCount, len(counts))
	for i, c := range counts {
		breakdown[i] = MedalCount{Medal: c.key, Count: c.count}
	}
	return breakdown
}

type keyCount struct {
	key   string
	count int
}

// countBy groups records by key, keeping groups in first-appearance order.
func countBy(view []dataset.Record, key func(dataset.Record) (string, bool)) []keyCount {
	index := make(map[string]int)
	var groups []keyCount
	for _, r := range view {
		k, ok := key(r)
		if !ok {
			continue
		}
		i, seen := index[k]
		if !seen {
			i = len(groups)
			index[k] = i
			groups = append(groups, keyCount{key: k})
		}
		groups[i].count++
	}
	return groups
}
