package report

import "github.com/adnsv/xlreport/xl"

type rowConfig struct {
	height float64
	style  xl.Style
	row    *int
}

// RowOption configures AddRow and AddHeaderRow.
type RowOption func(*rowConfig)

// Height sets the row height in points.
func Height(points float64) RowOption {
	return func(c *rowConfig) { c.height = points }
}

// RowStyle sets the default style of every cell written through the row.
func RowStyle(s xl.Style) RowOption {
	return func(c *rowConfig) { c.style = c.style.Merge(s) }
}

// AtRow moves the cursor to row n instead of the next row. n may be above
// the current row to fill in rows that were skipped.
func AtRow(n int) RowOption {
	return func(c *rowConfig) { c.row = &n }
}

func newRowConfig(opts []RowOption) rowConfig {
	var c rowConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type cellConfig struct {
	width  float64
	format string
	style  xl.Style
}

// CellOption configures a single cell write.
type CellOption func(*cellConfig)

// Width sets the width of the cell's column in character units.
func Width(chars float64) CellOption {
	return func(c *cellConfig) { c.width = chars }
}

// Format sets the number format of the cell. It wins over the number
// format of any row or cell style.
func Format(code string) CellOption {
	return func(c *cellConfig) { c.format = code }
}

// CellStyle is merged over the row style for this cell only.
func CellStyle(s xl.Style) CellOption {
	return func(c *cellConfig) { c.style = c.style.Merge(s) }
}

func newCellConfig(opts []CellOption) cellConfig {
	var c cellConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
