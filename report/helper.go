package report

import (
	"time"

	"github.com/adnsv/xlreport/xl"
)

// Number formats used by typical reports.
const (
	FormatMoney      = "$###,###,##0.00"
	FormatAccounting = `_("$"* #,##0.00_);_("$"* \(#,##0.00\);_("$"* "-"??_);_(@_)`
	FormatDate       = "M/d/yyyy"
	FormatPercent1   = "#0.0%"
)

// Styles used by ApplyDefaultStyling.
var (
	DefaultHeaderStyle = xl.Style{
		Font: xl.Font{Bold: true, Underline: xl.UnderlineSingle, Color: xl.ColorWhite},
		Fill: xl.Fill{Pattern: xl.PatternSolid, Color: xl.ColorBlue},
	}
	DefaultTitleStyle = xl.Style{
		Font: xl.Font{Bold: true, Size: 24},
	}
)

// ApplyDefaultStyling adds a worksheet, sets the default header style and
// writes reportTitle as the first row.
func ApplyDefaultStyling(w *Writer, worksheetName, reportTitle string) error {
	if err := w.AddWorksheet(worksheetName); err != nil {
		return err
	}
	w.SetHeaderStyle(DefaultHeaderStyle)
	return w.SetTitle(reportTitle, DefaultTitleStyle).Err()
}

// ApplyDefaultReportSettings applies the usual print setup to the active
// worksheet: print area, orientation, fit to one page wide, frozen
// header, grid lines, repeated header rows, and a footer holding the
// title, the generation time and the page counter.
func ApplyDefaultReportSettings(w *Writer, generated time.Time, o xl.Orientation) *Writer {
	return w.SetPrintArea().
		SetOrientation(o).
		SetFitToWidth(1).
		SetFreezeHeader().
		PrintGridLines(true).
		PrintHeaderOnEachPage().
		PrintTitleInFooter().
		PrintCenteredTextInFooter("Generated " + generated.Format("1/2/2006 3:04 PM MST")).
		PrintPageNumberInFooter("Page %s of %s")
}
