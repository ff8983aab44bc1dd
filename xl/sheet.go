package xl

import (
	"fmt"
	"strings"
)

// Sheet is a sparse grid of cells plus worksheet-level settings.
//
// Settings are plain metadata: setters may be called any number of times,
// the last call wins, and consistency is checked only when the workbook
// is serialized.
type Sheet struct {
	Name    string
	Columns map[int]*Column // 1-based

	PrintArea      *Range
	Freeze         *Pane
	Orientation    Orientation
	FitToPage      bool
	FitToWidth     int // pages across, 0 = automatic
	FitToHeight    int // pages down, 0 = automatic
	PrintGridLines bool
	HideGridLines  bool
	HeaderRows     RowRange // rows registered as header rows
	RepeatHeader   bool     // print HeaderRows on every page
	Footer         HeaderFooter

	workbook *Workbook
	rows     map[int]*Row
}

// Column holds per-column overrides.
type Column struct {
	Width float64
}

// Pane is the top-left cell of the scrolling region of a frozen view.
// Row 1 / Col 1 means nothing is frozen in that direction.
type Pane struct {
	Row, Col int
}

// RowRange is an inclusive range of row numbers. The zero value is empty.
type RowRange struct {
	First, Last int
}

// Empty reports whether the range holds no rows.
func (r RowRange) Empty() bool { return r.First < 1 || r.Last < r.First }

// Orientation is the printed page orientation.
type Orientation string

const (
	OrientationDefault   Orientation = ""
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// HeaderFooter holds the three footer text slots. The text uses the
// spreadsheet header/footer codes (&P page number, &N page count, &&
// literal ampersand).
type HeaderFooter struct {
	Left, Center, Right string
}

func (h HeaderFooter) empty() bool { return h == HeaderFooter{} }

// code renders the slots as a single oddFooter string.
func (h HeaderFooter) code() string {
	var sb strings.Builder
	if h.Left != "" {
		sb.WriteString("&L")
		sb.WriteString(h.Left)
	}
	if h.Center != "" {
		sb.WriteString("&C")
		sb.WriteString(h.Center)
	}
	if h.Right != "" {
		sb.WriteString("&R")
		sb.WriteString(h.Right)
	}
	return sb.String()
}

// Workbook returns the workbook that owns the sheet.
func (s *Sheet) Workbook() *Workbook { return s.workbook }

// SetCell writes v at (row, col), replacing whatever was there.
// Writing an empty value with the default style removes the cell.
func (s *Sheet) SetCell(row, col int, v Value, style StyleID) error {
	if err := CheckCoord(row, col); err != nil {
		return cellError(s.Name, row, col, err)
	}
	if err := v.validate(); err != nil {
		return cellError(s.Name, row, col, err)
	}
	if _, ok := s.workbook.Styles.Lookup(style); !ok {
		return cellError(s.Name, row, col, fmt.Errorf("%w: %d", ErrDanglingStyle, style))
	}
	if v.IsEmpty() && style == DefaultStyle {
		s.ClearCell(row, col)
		return nil
	}
	switch v.typ {
	case CellTypeSharedString:
		s.workbook.strings.Intern(v.str)
	case CellTypeDate:
		style = s.workbook.dateStyle(style)
	}
	r := s.row(row)
	r.cells[col] = &Cell{Row: row, Column: col, Value: v, Style: style}
	return nil
}

// SetValue is SetCell with ValueOf conversion.
func (s *Sheet) SetValue(row, col int, v any, style StyleID) error {
	return s.SetCell(row, col, ValueOf(v), style)
}

// SetCellStyle replaces the style of an existing cell, or creates a styled
// empty cell.
func (s *Sheet) SetCellStyle(row, col int, style StyleID) error {
	v := Empty()
	if c := s.Cell(row, col); c != nil {
		v = c.Value
	}
	return s.SetCell(row, col, v, style)
}

// ClearCell removes the cell at (row, col).
func (s *Sheet) ClearCell(row, col int) {
	r, ok := s.rows[row]
	if !ok {
		return
	}
	delete(r.cells, col)
	if len(r.cells) == 0 && r.Height == 0 {
		delete(s.rows, row)
	}
}

// Cell returns the cell at (row, col), or nil if it is unset.
func (s *Sheet) Cell(row, col int) *Cell {
	r, ok := s.rows[row]
	if !ok {
		return nil
	}
	return r.cells[col]
}

// Row returns the row with the given number, or nil if it holds nothing.
func (s *Sheet) Row(n int) *Row { return s.rows[n] }

// Rows calls fn for every non-empty row in ascending order.
func (s *Sheet) Rows(fn func(r *Row) error) error {
	return enumerate(s.rows, func(_ int, r *Row) error {
		return fn(r)
	})
}

// Extent returns the last used row and column; (0, 0) for an empty sheet.
func (s *Sheet) Extent() (lastRow, lastCol int) {
	for n, r := range s.rows {
		if len(r.cells) == 0 {
			continue
		}
		lastRow = max(lastRow, n)
		lastCol = max(lastCol, r.lastColumn())
	}
	return lastRow, lastCol
}

func (s *Sheet) row(n int) *Row {
	r, ok := s.rows[n]
	if !ok {
		r = &Row{number: n, cells: map[int]*Cell{}}
		s.rows[n] = r
	}
	return r
}

// SetColumnWidth sets the width of a column in character units; w <= 0
// restores the default width.
func (s *Sheet) SetColumnWidth(colNumber int, w float64) error {
	if colNumber < 1 || colNumber > MaxColumns {
		return sheetError(s.Name, fmt.Errorf("%w: column %d", ErrInvalidCoordinate, colNumber))
	}
	if w <= 0.0 {
		delete(s.Columns, colNumber)
	} else {
		c, exists := s.Columns[colNumber]
		if !exists {
			c = &Column{
				Width: w,
			}
		} else {
			c.Width = w
		}
		s.Columns[colNumber] = c
	}
	return nil
}

// ColumnWidth returns the custom width of a column, 0 if none.
func (s *Sheet) ColumnWidth(colNumber int) float64 {
	if c, ok := s.Columns[colNumber]; ok {
		return c.Width
	}
	return 0
}

// SetRowHeight sets the height of a row in points; h <= 0 restores the
// default height.
func (s *Sheet) SetRowHeight(rowNumber int, h float64) error {
	if rowNumber < 1 || rowNumber > MaxRows {
		return sheetError(s.Name, fmt.Errorf("%w: row %d", ErrInvalidCoordinate, rowNumber))
	}
	if h <= 0 {
		if r, ok := s.rows[rowNumber]; ok {
			r.Height = 0
			if len(r.cells) == 0 {
				delete(s.rows, rowNumber)
			}
		}
		return nil
	}
	s.row(rowNumber).Height = h
	return nil
}

// SetPrintArea restricts printing to r.
func (s *Sheet) SetPrintArea(r Range) *Sheet {
	s.PrintArea = &r
	return s
}

// ClearPrintArea prints the whole used range again.
func (s *Sheet) ClearPrintArea() *Sheet {
	s.PrintArea = nil
	return s
}

// SetFreezePanes freezes the rows above row and the columns left of col.
// SetFreezePanes(1, 1) unfreezes.
func (s *Sheet) SetFreezePanes(row, col int) *Sheet {
	if row <= 1 && col <= 1 {
		s.Freeze = nil
		return s
	}
	s.Freeze = &Pane{Row: max(row, 1), Col: max(col, 1)}
	return s
}

// SetOrientation sets the printed page orientation.
func (s *Sheet) SetOrientation(o Orientation) *Sheet {
	s.Orientation = o
	return s
}

// SetFitToPage scales printing down to a single page.
func (s *Sheet) SetFitToPage(on bool) *Sheet {
	s.FitToPage = on
	if on {
		s.FitToWidth, s.FitToHeight = 1, 1
	}
	return s
}

// SetFitToWidth fits the printout to the given number of pages across,
// with as many pages down as needed.
func (s *Sheet) SetFitToWidth(pages int) *Sheet {
	s.FitToPage = true
	s.FitToWidth = max(pages, 0)
	s.FitToHeight = 0
	return s
}

// SetPrintGridLines prints cell grid lines.
func (s *Sheet) SetPrintGridLines(on bool) *Sheet {
	s.PrintGridLines = on
	return s
}

// SetShowGridLines toggles grid lines in the sheet view.
func (s *Sheet) SetShowGridLines(on bool) *Sheet {
	s.HideGridLines = !on
	return s
}

// ExpandHeaderRows adds row to the tracked header-row range.
func (s *Sheet) ExpandHeaderRows(row int) *Sheet {
	if row < 1 {
		return s
	}
	if s.HeaderRows.Empty() {
		s.HeaderRows = RowRange{First: row, Last: row}
		return s
	}
	s.HeaderRows.First = min(s.HeaderRows.First, row)
	s.HeaderRows.Last = max(s.HeaderRows.Last, row)
	return s
}

// SetRepeatRows prints rows first..last at the top of every page.
func (s *Sheet) SetRepeatRows(first, last int) *Sheet {
	s.HeaderRows = RowRange{First: first, Last: last}
	s.RepeatHeader = true
	return s
}

// SetFooter sets the three footer slots at once.
func (s *Sheet) SetFooter(left, center, right string) *Sheet {
	s.Footer = HeaderFooter{Left: left, Center: center, Right: right}
	return s
}

// validate checks everything that is only checked at serialization time.
func (s *Sheet) validate() error {
	if err := validateSheetName(s.Name); err != nil {
		return sheetError(s.Name, err)
	}
	lastRow, lastCol := s.Extent()
	if s.PrintArea != nil {
		if err := s.PrintArea.validate(); err != nil {
			return sheetError(s.Name, fmt.Errorf("print area: %w", err))
		}
		if s.PrintArea.ToRow > lastRow || s.PrintArea.ToCol > lastCol {
			return sheetError(s.Name, fmt.Errorf("%w: print area %s exceeds used range %s",
				ErrInvalidCoordinate, s.PrintArea, Range{FromRow: 1, FromCol: 1, ToRow: max(lastRow, 1), ToCol: max(lastCol, 1)}))
		}
	}
	if s.Freeze != nil {
		if err := CheckCoord(s.Freeze.Row, s.Freeze.Col); err != nil {
			return sheetError(s.Name, fmt.Errorf("freeze pane: %w", err))
		}
	}
	if s.RepeatHeader && !s.HeaderRows.Empty() {
		if err := CheckCoord(s.HeaderRows.Last, 1); err != nil {
			return sheetError(s.Name, fmt.Errorf("repeated rows: %w", err))
		}
	}
	for n, c := range s.Columns {
		if n < 1 || n > MaxColumns || c == nil {
			return sheetError(s.Name, fmt.Errorf("%w: column %d", ErrInvalidCoordinate, n))
		}
	}
	return s.Rows(func(r *Row) error {
		return r.Cells(func(c *Cell) error {
			if err := CheckCoord(c.Row, c.Column); err != nil {
				return cellError(s.Name, c.Row, c.Column, err)
			}
			if _, ok := s.workbook.Styles.Lookup(c.Style); !ok {
				return cellError(s.Name, c.Row, c.Column, fmt.Errorf("%w: %d", ErrDanglingStyle, c.Style))
			}
			if err := c.Value.validate(); err != nil {
				return cellError(s.Name, c.Row, c.Column, err)
			}
			return nil
		})
	})
}
