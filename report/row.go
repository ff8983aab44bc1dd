package report

import (
	"fmt"

	"github.com/adnsv/xlreport/xl"
)

// Row is a handle on one worksheet row with a column cursor. The cursor
// starts before column 1; only Add and AddHeader move it, each writing to
// the column after it. SetAt and SetFormulaAt write to an explicit column
// and leave the cursor alone.
type Row struct {
	w      *Writer
	sheet  *xl.Sheet
	number int
	col    int
	style  xl.Style
	err    error
}

// Number returns the 1-based row number, 0 for a failed row.
func (r *Row) Number() int { return r.number }

// CurrentCol returns the column cursor: the last column written through
// Add or AddHeader, 0 before the first one.
func (r *Row) CurrentCol() int { return r.col }

// Err returns the first error recorded on this row.
func (r *Row) Err() error { return r.err }

func (r *Row) fail(err error) {
	if err == nil {
		return
	}
	if r.err == nil {
		r.err = err
	}
	r.w.fail(err)
}

// AddHeader writes a caption into the next column. Use Width to size the
// column at the same time.
func (r *Row) AddHeader(caption any, opts ...CellOption) *Row {
	return r.Add(caption, opts...)
}

// Add writes v into the next column. v is converted with xl.ValueOf.
func (r *Row) Add(v any, opts ...CellOption) *Row {
	if r.err != nil {
		return r
	}
	col := r.col + 1
	if r.set(col, xl.ValueOf(v), opts); r.err == nil {
		r.col = col
	}
	return r
}

// SetAt writes v into column col. The column cursor does not move.
func (r *Row) SetAt(col int, v any, opts ...CellOption) *Row {
	return r.set(col, xl.ValueOf(v), opts)
}

// SetFormulaAt writes a formula into column col. The leading '=' is
// optional. The column cursor does not move.
func (r *Row) SetFormulaAt(col int, expr string, opts ...CellOption) *Row {
	return r.set(col, xl.Formula(expr), opts)
}

func (r *Row) set(col int, v xl.Value, opts []CellOption) *Row {
	if r.err != nil {
		return r
	}
	cfg := newCellConfig(opts)
	style := r.style.Merge(cfg.style)
	if cfg.format != "" {
		style.NumberFormat = cfg.format
	}
	id := r.sheet.Workbook().InternStyle(style)
	if err := r.sheet.SetCell(r.number, col, v, id); err != nil {
		r.fail(err)
		return r
	}
	if cfg.width > 0 {
		r.fail(r.sheet.SetColumnWidth(col, cfg.width))
	}
	return r
}

// SetBorder sets the edges of every cell written so far in the row and
// of every cell written through the row afterwards.
func (r *Row) SetBorder(left, top, right, bottom xl.BorderStyle) *Row {
	if r.err != nil {
		return r
	}
	border := xl.Border{Left: left, Top: top, Right: right, Bottom: bottom}
	r.style.Border = border

	row := r.sheet.Row(r.number)
	if row == nil {
		return r
	}
	wb := r.sheet.Workbook()
	err := row.Cells(func(c *xl.Cell) error {
		st, ok := wb.Styles.Lookup(c.Style)
		if !ok {
			return fmt.Errorf("%w: %d", xl.ErrDanglingStyle, c.Style)
		}
		st.Border = border
		return r.sheet.SetCellStyle(c.Row, c.Column, wb.InternStyle(st))
	})
	r.fail(err)
	return r
}

// SetMaxFreezeColumn makes the columns up to the cursor the ones
// SetFreezeHeader keeps visible while scrolling sideways.
func (r *Row) SetMaxFreezeColumn() *Row {
	return r.SetMaxFreezeColumnAt(r.col)
}

// SetMaxFreezeColumnAt is SetMaxFreezeColumn for an explicit column.
func (r *Row) SetMaxFreezeColumnAt(col int) *Row {
	r.w.MaxFreezeCol = col
	return r
}

// SetMaxPrintAreaColumn makes the cursor column the last one included by
// SetPrintArea.
func (r *Row) SetMaxPrintAreaColumn() *Row {
	return r.SetMaxPrintAreaColumnAt(r.col)
}

// SetMaxPrintAreaColumnAt is SetMaxPrintAreaColumn for an explicit
// column.
func (r *Row) SetMaxPrintAreaColumnAt(col int) *Row {
	r.w.MaxPrintAreaCol = col
	return r
}
