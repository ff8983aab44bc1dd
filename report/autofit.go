package report

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/adnsv/xlreport/xl"
)

const (
	autoFitPadding  = 2
	autoFitMinWidth = 8
	maxColumnWidth  = 255
)

// AutoFitColumns sizes every column of the active worksheet that has no
// explicit width to its widest cell, measured in terminal cells so that
// wide CJK characters count double.
func (w *Writer) AutoFitColumns() *Writer {
	sh := w.active()
	if sh == nil {
		return w
	}
	widths := map[int]int{}
	sh.Rows(func(r *xl.Row) error {
		return r.Cells(func(c *xl.Cell) error {
			widths[c.Column] = max(widths[c.Column], displayWidth(c.Value))
			return nil
		})
	})
	for col, n := range widths {
		if sh.ColumnWidth(col) > 0 || n == 0 {
			continue
		}
		width := min(max(n+autoFitPadding, autoFitMinWidth), maxColumnWidth)
		w.fail(sh.SetColumnWidth(col, float64(width)))
	}
	return w
}

func displayWidth(v xl.Value) int {
	switch v.Type() {
	case xl.CellTypeDate:
		return len("12/31/2006")
	case xl.CellTypeFormula:
		if cached, ok := v.Cached(); ok {
			return displayWidth(cached)
		}
		return autoFitMinWidth
	}
	n := 0
	for _, line := range strings.Split(v.String(), "\n") {
		n = max(n, runewidth.StringWidth(line))
	}
	return n
}
