// Package selector derives the country and sport choices offered by the
// dashboard and narrows the dataset to the chosen pair.
package selector

import (
	"slices"

	"github.com/navidrome/podium/dataset"
)

// Selection is a (country, sport) pair.
type Selection struct {
	Country string `json:"country"`
	Sport   string `json:"sport"`
}

// Options holds the values each selector offers.
type Options struct {
	Countries []string `json:"countries"`
	Sports    []string `json:"sports"`
}

// Countries returns the distinct countries in ds, sorted.
func Countries(ds *dataset.Dataset) []string {
	return distinct(ds, func(r dataset.Record) (string, bool) {
		return r.Country, true
	})
}

// Sports returns the distinct sports with at least one record for country,
// sorted. Unknown countries yield an empty list.
func Sports(ds *dataset.Dataset, country string) []string {
	return distinct(ds, func(r dataset.Record) (string, bool) {
		return r.Sport, r.Country == country
	})
}

func distinct(ds *dataset.Dataset, key func(dataset.Record) (string, bool)) []string {
	seen := make(map[string]struct{})
	values := []string{}
	for r := range ds.All() {
		k, ok := key(r)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		values = append(values, k)
	}
	slices.Sort(values)
	return values
}

// Filter returns the records matching both country and sport, in dataset
// order. No match is a valid, empty result.
func Filter(ds *dataset.Dataset, country, sport string) []dataset.Record {
	view := []dataset.Record{}
	for r := range ds.All() {
		if r.Country == country && r.Sport == sport {
			view = append(view, r)
		}
	}
	return view
}

// DefaultCountry returns preferred when it is offered, else the first
// country, else "".
func DefaultCountry(countries []string, preferred string) string {
	if slices.Contains(countries, preferred) {
		return preferred
	}
	if len(countries) > 0 {
		return countries[0]
	}
	return ""
}

// DefaultSport returns the first sport, or "" when there is none.
func DefaultSport(sports []string) string {
	if len(sports) > 0 {
		return sports[0]
	}
	return ""
}

// Resolve turns a requested selection into one the selectors can display.
// A country that is not offered falls back to DefaultCountry; a sport that is
// not offered for the resolved country falls back to DefaultSport.
func Resolve(ds *dataset.Dataset, requested Selection, preferred string) (Selection, Options) {
	opts := Options{Countries: Countries(ds)}

	sel := Selection{Country: requested.Country}
	if !slices.Contains(opts.Countries, sel.Country) {
		sel.Country = DefaultCountry(opts.Countries, preferred)
	}

	opts.Sports = Sports(ds, sel.Country)
	sel.Sport = requested.Sport
	if !slices.Contains(opts.Sports, sel.Sport) {
		sel.Sport = DefaultSport(opts.Sports)
	}
	return sel, opts
}
