package report

import (
	"fmt"
	"strings"

	"github.com/adnsv/xlreport/xl"
)

// Page and view settings of the active worksheet. Each call overwrites the
// previous value; nothing is validated until the workbook is written.

func (w *Writer) active() *xl.Sheet {
	if w.sheet == nil {
		w.fail(ErrNoWorksheet)
	}
	return w.sheet
}

// SetPrintArea prints rows 1 through the current row and columns 1
// through MaxPrintAreaCol. It does nothing while MaxPrintAreaCol is 0.
func (w *Writer) SetPrintArea() *Writer {
	if w.MaxPrintAreaCol <= 0 {
		return w
	}
	return w.SetPrintAreaRange(1, 1, w.CurrentRow(), w.MaxPrintAreaCol)
}

// SetPrintAreaTo prints from A1 through (toRow, toCol).
func (w *Writer) SetPrintAreaTo(toRow, toCol int) *Writer {
	return w.SetPrintAreaRange(1, 1, toRow, toCol)
}

// SetPrintAreaRange prints the given inclusive cell range.
func (w *Writer) SetPrintAreaRange(fromRow, fromCol, toRow, toCol int) *Writer {
	if sh := w.active(); sh != nil {
		sh.SetPrintArea(xl.Range{FromRow: fromRow, FromCol: fromCol, ToRow: toRow, ToCol: toCol})
	}
	return w
}

// SetFreezeHeader freezes everything above the last header row's
// successor and left of column MaxFreezeCol+1. Without header rows it
// does nothing.
func (w *Writer) SetFreezeHeader() *Writer {
	sh := w.active()
	if sh == nil || sh.HeaderRows.Empty() {
		return w
	}
	sh.SetFreezePanes(sh.HeaderRows.Last+1, w.MaxFreezeCol+1)
	return w
}

// SetFreezePanes freezes the rows above row and the columns left of col.
func (w *Writer) SetFreezePanes(row, col int) *Writer {
	if sh := w.active(); sh != nil {
		sh.SetFreezePanes(row, col)
	}
	return w
}

// SetOrientation sets the printed page orientation.
func (w *Writer) SetOrientation(o xl.Orientation) *Writer {
	if sh := w.active(); sh != nil {
		sh.SetOrientation(o)
	}
	return w
}

// SetFitOnePage scales the printout down to a single page.
func (w *Writer) SetFitOnePage() *Writer {
	if sh := w.active(); sh != nil {
		sh.SetFitToPage(true)
	}
	return w
}

// SetFitToWidth scales the printout to the given number of pages across.
func (w *Writer) SetFitToWidth(pages int) *Writer {
	if sh := w.active(); sh != nil {
		sh.SetFitToWidth(pages)
	}
	return w
}

// PrintGridLines toggles printed grid lines.
func (w *Writer) PrintGridLines(on bool) *Writer {
	if sh := w.active(); sh != nil {
		sh.SetPrintGridLines(on)
	}
	return w
}

// ShowGridLines toggles grid lines on screen.
func (w *Writer) ShowGridLines(on bool) *Writer {
	if sh := w.active(); sh != nil {
		sh.SetShowGridLines(on)
	}
	return w
}

// PrintHeaderOnEachPage repeats the header rows at the top of every
// printed page. Without header rows it does nothing.
func (w *Writer) PrintHeaderOnEachPage() *Writer {
	sh := w.active()
	if sh == nil || sh.HeaderRows.Empty() {
		return w
	}
	sh.SetRepeatRows(sh.HeaderRows.First, sh.HeaderRows.Last)
	return w
}

// PrintPageNumberInFooter puts a page counter in the right footer slot.
// format receives the page number and the page count as its two %s
// verbs, e.g. "Page %s of %s".
func (w *Writer) PrintPageNumberInFooter(format string) *Writer {
	if sh := w.active(); sh != nil {
		sh.Footer.Right = fmt.Sprintf(escapeFooter(format), "&P", "&N")
	}
	return w
}

// PrintTitleInFooter puts the report title in the left footer slot.
func (w *Writer) PrintTitleInFooter() *Writer {
	if sh := w.active(); sh != nil {
		sh.Footer.Left = escapeFooter(w.title)
	}
	return w
}

// PrintCenteredTextInFooter puts text in the center footer slot.
func (w *Writer) PrintCenteredTextInFooter(text string) *Writer {
	if sh := w.active(); sh != nil {
		sh.Footer.Center = escapeFooter(text)
	}
	return w
}

// escapeFooter keeps literal ampersands from being read as footer codes.
func escapeFooter(s string) string {
	return strings.ReplaceAll(s, "&", "&&")
}
