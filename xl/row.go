package xl

// Row is a sparse row of a sheet. Cells are keyed by 1-based column.
type Row struct {
	Height float64 // when Height=0, use default

	cells  map[int]*Cell
	number int // 1-based
}

// Number returns the 1-based row number.
func (r *Row) Number() int { return r.number }

// Cell returns the cell at col, or nil if it was never written.
func (r *Row) Cell(col int) *Cell { return r.cells[col] }

// Len returns the number of populated cells.
func (r *Row) Len() int { return len(r.cells) }

// Cells calls fn for every cell in ascending column order.
func (r *Row) Cells(fn func(c *Cell) error) error {
	return enumerate(r.cells, func(_ int, c *Cell) error {
		return fn(c)
	})
}

func (r *Row) lastColumn() int {
	n := 0
	for col := range r.cells {
		n = max(n, col)
	}
	return n
}
