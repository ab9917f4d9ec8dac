package charts

import (
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/navidrome/podium/dataset"
)

// datasetTable caches the HTML rendering of the full table. The dataset is
// immutable, so the rendering only changes when a different dataset arrives.
type datasetTable struct {
	mu   sync.Mutex
	ds   *dataset.Dataset
	html string
}

func (t *datasetTable) render(ds *dataset.Dataset) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ds != ds {
		t.html = renderDatasetTable(ds)
		t.ds = ds
	}
	return t.html
}

func renderDatasetTable(ds *dataset.Dataset) string {
	cols := ds.Columns()

	tw := table.NewWriter()
	tw.Style().HTML = table.HTMLOptions{
		CSSClass:    "dataset",
		EmptyColumn: "&nbsp;",
		EscapeText:  true,
		Newline:     "<br/>",
	}

	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	tw.AppendHeader(header)

	for r := range ds.All() {
		row := make(table.Row, len(cols))
		for i, c := range cols {
			row[i] = r.Field(c)
		}
		tw.AppendRow(row)
	}
	return tw.RenderHTML()
}
