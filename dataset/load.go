package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/navidrome/podium/consts"
)

// ErrDataUnavailable is returned when the source is missing, unreadable or
// lacks the required columns.
var ErrDataUnavailable = errors.New("data unavailable")

// Loader reads a Dataset from the file at path.
type Loader func(path string) (*Dataset, error)

var (
	loadersMu sync.RWMutex
	loaders   = map[string]Loader{}
)

// RegisterLoader makes a Loader available for files with the given extension
// (including the dot, case-insensitive). Storage packages call it from init.
func RegisterLoader(ext string, l Loader) {
	loadersMu.Lock()
	defer loadersMu.Unlock()
	if l == nil {
		panic("dataset: RegisterLoader loader is nil")
	}
	loaders[strings.ToLower(ext)] = l
}

// Load reads the Dataset at path, picking the loader by file extension.
// Files with no registered loader are read as CSV.
func Load(path string) (*Dataset, error) {
	loadersMu.RLock()
	l, ok := loaders[strings.ToLower(filepath.Ext(path))]
	loadersMu.RUnlock()
	if !ok {
		l = LoadCSV
	}
	return l(path)
}

// LoadCSV reads a comma-separated file with a header row. Rows missing any of
// Athlete, Country, Sport or Medal are dropped.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	defer f.Close()

	ds, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ReadCSV parses CSV data from r. Any syntax error fails the whole read.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading CSV header: %w", ErrDataUnavailable, err)
	}

	index := make(map[string]int, len(header))
	columns := make([]string, 0, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if _, dup := index[h]; dup {
			continue
		}
		index[h] = i
		columns = append(columns, h)
	}

	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns %s", ErrDataUnavailable, strings.Join(missing, ", "))
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading CSV row %d: %w", ErrDataUnavailable, line, err)
		}
		var rec Record
		for _, c := range KnownColumns {
			i, ok := index[c]
			if !ok || i >= len(row) {
				continue
			}
			setField(&rec, c, row[i])
		}
		records = append(records, rec)
	}
	return New(columns, records), nil
}

func setField(r *Record, column, value string) {
	switch column {
	case consts.ColumnAthlete:
		r.Athlete = value
	case consts.ColumnCountry:
		r.Country = value
	case consts.ColumnSport:
		r.Sport = value
	case consts.ColumnMedal:
		r.Medal = value
	case consts.ColumnYear:
		r.Year = value
	case consts.ColumnCity:
		r.City = value
	case consts.ColumnDiscipline:
		r.Discipline = value
	case consts.ColumnGender:
		r.Gender = value
	case consts.ColumnEvent:
		r.Event = value
	}
}
