// Package dataset loads the medal records the dashboard explores and keeps them
// in memory for the lifetime of the process.
package dataset

import (
	"iter"
	"slices"
	"strings"

	"github.com/navidrome/podium/consts"
)

// Record is one medal won by one athlete.
type Record struct {
	Athlete string `json:"athlete"`
	Country string `json:"country"`
	Sport   string `json:"sport"`
	Medal   string `json:"medal"`

	// Passthrough columns, kept for the full table view. Empty when the
	// source does not carry them.
	Year       string `json:"year,omitempty"`
	City       string `json:"city,omitempty"`
	Discipline string `json:"discipline,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Event      string `json:"event,omitempty"`
}

// Field returns the value of the named source column.
func (r Record) Field(column string) string {
	switch column {
	case consts.ColumnAthlete:
		return r.Athlete
	case consts.ColumnCountry:
		return r.Country
	case consts.ColumnSport:
		return r.Sport
	case consts.ColumnMedal:
		return r.Medal
	case consts.ColumnYear:
		return r.Year
	case consts.ColumnCity:
		return r.City
	case consts.ColumnDiscipline:
		return r.Discipline
	case consts.ColumnGender:
		return r.Gender
	case consts.ColumnEvent:
		return r.Event
	}
	return ""
}

// Complete reports whether all required fields carry a value.
func (r Record) Complete() bool {
	return !isMissing(r.Athlete) && !isMissing(r.Country) && !isMissing(r.Sport) && !isMissing(r.Medal)
}

// RequiredColumns are the columns every source must provide.
var RequiredColumns = []string{
	consts.ColumnAthlete,
	consts.ColumnCountry,
	consts.ColumnSport,
	consts.ColumnMedal,
}

// KnownColumns lists every column a Record can hold, in summer.csv order.
var KnownColumns = []string{
	consts.ColumnYear,
	consts.ColumnCity,
	consts.ColumnSport,
	consts.ColumnDiscipline,
	consts.ColumnAthlete,
	consts.ColumnCountry,
	consts.ColumnGender,
	consts.ColumnEvent,
	consts.ColumnMedal,
}

// Dataset is an immutable, ordered collection of complete records.
type Dataset struct {
	columns []string
	records []Record
	dropped int
}

// New builds a Dataset from raw records, dropping the incomplete ones.
// columns lists the source columns present, in display order; unknown names
// are ignored.
func New(columns []string, records []Record) *Dataset {
	ds := &Dataset{
		records: make([]Record, 0, len(records)),
	}
	for _, c := range columns {
		if slices.Contains(KnownColumns, c) && !slices.Contains(ds.columns, c) {
			ds.columns = append(ds.columns, c)
		}
	}
	for _, r := range records {
		if !r.Complete() {
			ds.dropped++
			continue
		}
		ds.records = append(ds.records, r)
	}
	return ds
}

// Len returns the number of records kept after cleaning.
func (d *Dataset) Len() int { return len(d.records) }

// Dropped returns how many source rows were excluded for missing values.
func (d *Dataset) Dropped() int { return d.dropped }

// Columns returns the source columns present, in display order.
func (d *Dataset) Columns() []string { return slices.Clone(d.columns) }

// At returns the i-th record.
func (d *Dataset) At(i int) Record { return d.records[i] }

// All iterates over the records in source order.
func (d *Dataset) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, r := range d.records {
			if !yield(r) {
				return
			}
		}
	}
}

// naValues lists the markers that data tools commonly write for missing values.
var naValues = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

func isMissing(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	_, ok := naValues[v]
	return ok
}
