// Package report builds formatted workbooks row by row.
//
// A Writer keeps a row cursor per worksheet; AddRow and AddHeaderRow move
// it down and return a Row whose column cursor moves right with every Add.
// Methods meant for chaining do not return errors: the first failure is
// recorded on the Row and on the Writer, later calls on the failed row
// are ignored, and the Writer refuses to serialize while an error is
// recorded. Err reports it; ClearErr drops it.
package report

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/adnsv/xlreport/xl"
)

// ErrNoWorksheet is reported when a sheet operation runs before any
// worksheet was added or selected.
var ErrNoWorksheet = errors.New("no active worksheet")

// Writer is a stateful report builder over one workbook. It is not safe
// for concurrent use; build independent Writers instead.
type Writer struct {
	// MaxFreezeCol is the number of leading columns SetFreezeHeader keeps
	// visible while scrolling sideways.
	MaxFreezeCol int
	// MaxPrintAreaCol is the last column SetPrintArea includes; zero
	// disables SetPrintArea.
	MaxPrintAreaCol int

	wb          *xl.Workbook
	sheet       *xl.Sheet
	cursors     map[*xl.Sheet]int // current row per sheet, 0 = before row 1
	headerStyle xl.Style
	title       string
	log         *slog.Logger
	err         error
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sends debug events to l.
func WithLogger(l *slog.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.log = l
		}
	}
}

// WithAppName records the producing application in the package
// properties.
func WithAppName(name string) Option {
	return func(w *Writer) { w.wb.AppName = name }
}

// WithTitle sets the report title used by PrintTitleInFooter.
func WithTitle(title string) Option {
	return func(w *Writer) {
		w.title = title
		w.wb.Title = title
	}
}

// New returns a Writer over an empty workbook.
func New(opts ...Option) *Writer {
	return newWriter(xl.NewWorkbook(), opts)
}

// Open continues an existing .xlsx package. Every sheet's cursor is placed
// on its last used row, so the next AddRow appends below the existing
// content; the workbook's active tab becomes the active worksheet.
func Open(r io.Reader, title string, opts ...Option) (*Writer, error) {
	wb, err := xl.Open(r)
	if err != nil {
		return nil, err
	}
	w := newWriter(wb, append([]Option{WithTitle(title)}, opts...))
	for _, sh := range wb.Sheets {
		lastRow, _ := sh.Extent()
		w.cursors[sh] = lastRow
	}
	if len(wb.Sheets) > 0 {
		w.sheet = wb.Sheets[wb.ActiveSheet()]
	}
	w.log.Debug("opened workbook", "sheets", len(wb.Sheets))
	return w, nil
}

func newWriter(wb *xl.Workbook, opts []Option) *Writer {
	w := &Writer{
		wb:      wb,
		cursors: map[*xl.Sheet]int{},
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Workbook exposes the underlying workbook.
func (w *Writer) Workbook() *xl.Workbook { return w.wb }

// Sheet returns the active worksheet, nil before the first AddWorksheet.
func (w *Writer) Sheet() *xl.Sheet { return w.sheet }

// Err returns the first error recorded by a chained call.
func (w *Writer) Err() error { return w.err }

// ClearErr forgets a recorded error, after the caller has dealt with it.
func (w *Writer) ClearErr() { w.err = nil }

func (w *Writer) fail(err error) {
	if err == nil {
		return
	}
	w.log.Debug("report error", "error", err)
	if w.err == nil {
		w.err = err
	}
}

// AddWorksheet appends a worksheet and makes it active. Its cursor starts
// before row 1.
func (w *Writer) AddWorksheet(name string) error {
	sh, err := w.wb.AddSheet(name)
	if err != nil {
		return err
	}
	w.sheet = sh
	w.cursors[sh] = 0
	w.log.Debug("added worksheet", "name", name, "index", len(w.wb.Sheets)-1)
	return nil
}

// UseWorksheet makes the named worksheet active, keeping its cursor.
func (w *Writer) UseWorksheet(name string) error {
	sh, err := w.wb.Sheet(name)
	if err != nil {
		return err
	}
	w.sheet = sh
	return nil
}

// UseWorksheetAt makes the worksheet at the 0-based tab index active.
func (w *Writer) UseWorksheetAt(index int) error {
	sh, err := w.wb.SheetAt(index)
	if err != nil {
		return err
	}
	w.sheet = sh
	return nil
}

// CurrentRow returns the row the cursor of the active sheet is on; 0
// before the first row.
func (w *Writer) CurrentRow() int {
	if w.sheet == nil {
		return 0
	}
	return w.cursors[w.sheet]
}

// SetHeaderStyle sets the default style of rows added by AddHeaderRow.
func (w *Writer) SetHeaderStyle(style xl.Style) *Writer {
	w.headerStyle = style
	return w
}

// AddHeaderRow moves the cursor to the next row (or the AtRow row), adds
// the row to the sheet's header range and returns it. Cells of the row
// use the header style merged with the RowStyle option.
func (w *Writer) AddHeaderRow(opts ...RowOption) *Row {
	cfg := newRowConfig(opts)
	row := w.advance(cfg, w.headerStyle.Merge(cfg.style))
	if row.err == nil {
		w.sheet.ExpandHeaderRows(row.number)
	}
	return row
}

// AddRow moves the cursor to the next row (or the AtRow row) and returns
// it.
func (w *Writer) AddRow(opts ...RowOption) *Row {
	cfg := newRowConfig(opts)
	return w.advance(cfg, cfg.style)
}

// AddRowValue is AddRow followed by Add(v).
func (w *Writer) AddRowValue(v any, opts ...RowOption) *Row {
	return w.AddRow(opts...).Add(v)
}

// SetHeaderRow moves the cursor to row n and counts it as a header row
// without writing anything.
func (w *Writer) SetHeaderRow(n int) *Writer {
	if w.sheet == nil {
		w.fail(ErrNoWorksheet)
		return w
	}
	if err := xl.CheckCoord(n, 1); err != nil {
		w.fail(fmt.Errorf("sheet '%s': %w", w.sheet.Name, err))
		return w
	}
	w.cursors[w.sheet] = n
	w.sheet.ExpandHeaderRows(n)
	return w
}

// SetTitle writes title into the first cell of a new row and remembers it
// for PrintTitleInFooter.
func (w *Writer) SetTitle(title string, style xl.Style) *Row {
	row := w.AddRow().Add(title, CellStyle(style))
	w.title = title
	if w.wb.Title == "" {
		w.wb.Title = title
	}
	return row
}

// Title returns the report title.
func (w *Writer) Title() string { return w.title }

func (w *Writer) advance(cfg rowConfig, style xl.Style) *Row {
	if w.sheet == nil {
		w.fail(ErrNoWorksheet)
		return &Row{w: w, err: ErrNoWorksheet}
	}
	n := w.cursors[w.sheet] + 1
	if cfg.row != nil {
		n = *cfg.row
	}
	if err := xl.CheckCoord(n, 1); err != nil {
		err = fmt.Errorf("sheet '%s': %w", w.sheet.Name, err)
		w.fail(err)
		return &Row{w: w, sheet: w.sheet, err: err}
	}
	w.cursors[w.sheet] = n
	row := &Row{w: w, sheet: w.sheet, number: n, style: style}
	if cfg.height > 0 {
		row.fail(w.sheet.SetRowHeight(n, cfg.height))
	}
	return row
}
