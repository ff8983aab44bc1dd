package report

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/xuri/excelize/v2"

	"github.com/adnsv/xlreport/xl"
)

type transaction struct {
	ID     int
	Name   string
	Date   time.Time
	Amount float64
}

var transactions = []transaction{
	{1, "Alice", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 10.5},
	{2, "Bob", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 1234.25},
	{3, "Carol & Co", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), -7},
}

func transactionsReport(t *testing.T) *Writer {
	t.Helper()
	w := New(WithAppName("xlreport"))
	w.Workbook().Created = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := ApplyDefaultStyling(w, "Transactions", "Transaction Report"); err != nil {
		t.Fatal(err)
	}
	w.AddHeaderRow().
		AddHeader("Id", Width(8)).
		SetMaxFreezeColumn().
		AddHeader("Name", Width(30)).
		AddHeader("Date", Width(12)).
		AddHeader("Amount", Width(15)).
		SetMaxPrintAreaColumn()
	for _, tr := range transactions {
		w.AddRow().
			Add(tr.ID).
			Add(tr.Name).
			Add(tr.Date, Format(FormatDate)).
			Add(tr.Amount, Format(FormatMoney))
	}
	ApplyDefaultReportSettings(w, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), xl.OrientationLandscape)
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}
	return w
}

func openBytes(t *testing.T, blob []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("excelize cannot open the package: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func raw(t *testing.T, f *excelize.File, sheet, axis string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("%s!%s: %v", sheet, axis, err)
	}
	return v
}

func zipPart(t *testing.T, blob []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		return string(b)
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func TestTransactionsReport(t *testing.T) {
	blob, err := transactionsReport(t).Bytes()
	if err != nil {
		t.Fatal(err)
	}
	f := openBytes(t, blob)

	want := map[string]string{
		"A1": "Transaction Report",
		"A2": "Id", "B2": "Name", "C2": "Date", "D2": "Amount",
		"A3": "1", "B3": "Alice", "C3": "45306", "D3": "10.5",
		"B5": "Carol & Co", "D5": "-7",
	}
	for axis, w := range want {
		if got := raw(t, f, "Transactions", axis); got != w {
			t.Errorf("Transactions!%s = %q, want %q", axis, got, w)
		}
	}

	idx, err := f.GetCellStyle("Transactions", "B2")
	if err != nil {
		t.Fatal(err)
	}
	st, err := f.GetStyle(idx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Font == nil || !st.Font.Bold || st.Font.Underline != "single" {
		t.Fatalf("header style: %s", spew.Sdump(st))
	}

	idx, err = f.GetCellStyle("Transactions", "D4")
	if err != nil {
		t.Fatal(err)
	}
	st, err = f.GetStyle(idx)
	if err != nil {
		t.Fatal(err)
	}
	if st.CustomNumFmt == nil || *st.CustomNumFmt != FormatMoney {
		t.Fatalf("money style: %s", spew.Sdump(st))
	}

	if w, err := f.GetColWidth("Transactions", "B"); err != nil || w != 30 {
		t.Fatalf("column B width = %v, %v", w, err)
	}

	wbXML := zipPart(t, blob, "xl/workbook.xml")
	for _, s := range []string{`'Transactions'!$A$1:$D$5`, `'Transactions'!$2:$2`} {
		if !strings.Contains(wbXML, s) {
			t.Errorf("workbook.xml lacks %s:\n%s", s, wbXML)
		}
	}
	sheetXML := zipPart(t, blob, "xl/worksheets/sheet1.xml")
	for _, s := range []string{
		`xSplit="1"`,
		`ySplit="2"`,
		`topLeftCell="B3"`,
		`orientation="landscape"`,
		`fitToWidth="1"`,
		`gridLines="1"`,
		`&amp;LTransaction Report&amp;CGenerated 5/1/2024 12:00 PM UTC&amp;RPage &amp;P of &amp;N`,
	} {
		if !strings.Contains(sheetXML, s) {
			t.Errorf("sheet1.xml lacks %s:\n%s", s, sheetXML)
		}
	}
}

func TestRowCursor(t *testing.T) {
	w := New()
	if err := w.AddWorksheet("Data"); err != nil {
		t.Fatal(err)
	}
	for want := 1; want <= 3; want++ {
		if r := w.AddRow(); r.Number() != want || w.CurrentRow() != want {
			t.Fatalf("AddRow() = row %d, cursor %d, want %d", r.Number(), w.CurrentRow(), want)
		}
	}

	r := w.AddRow(AtRow(10)).Add("ten")
	if r.Number() != 10 || r.CurrentCol() != 1 {
		t.Fatalf("AtRow(10) = row %d col %d", r.Number(), r.CurrentCol())
	}
	w.AddRow(AtRow(5)).Add("five")
	if r := w.AddRow(); r.Number() != 6 {
		t.Fatalf("row after backfill = %d, want 6", r.Number())
	}
	if c := w.Sheet().Cell(10, 1); c == nil || c.Value != xl.Text("ten") {
		t.Fatalf("row 10 lost after backfill: %+v", c)
	}

	r = w.AddRow().Add(1).Add(2).SetAt(5, "five").Add("six")
	if r.CurrentCol() != 3 {
		t.Fatalf("CurrentCol() = %d, want 3", r.CurrentCol())
	}
	if c := w.Sheet().Cell(r.Number(), 3); c == nil || c.Value != xl.Text("six") {
		t.Fatalf("Add after SetAt wrote %+v into column 3", c)
	}
	if c := w.Sheet().Cell(r.Number(), 5); c == nil || c.Value != xl.Text("five") {
		t.Fatalf("column 5 = %+v", c)
	}
	if c := w.Sheet().Cell(r.Number(), 6); c != nil {
		t.Fatalf("column 6 = %+v, want unset", c)
	}

	r = w.AddRow().Add("a").SetAt(5, "e").SetFormulaAt(6, "A1").Add("b")
	if c := w.Sheet().Cell(r.Number(), 2); c == nil || c.Value != xl.Text("b") || r.CurrentCol() != 2 {
		t.Fatalf("column 2 = %+v, cursor %d", c, r.CurrentCol())
	}
	r.SetFormulaAt(7, "=SUM(A7:B7)")
	if c := w.Sheet().Cell(r.Number(), 7); c == nil || c.Value.FormulaText() != "SUM(A7:B7)" {
		t.Fatalf("formula cell = %+v", c)
	}

	w.AddRowValue("single", Height(30))
	sh := w.Sheet()
	if row := sh.Row(w.CurrentRow()); row == nil || row.Height != 30 {
		t.Fatalf("AddRowValue row = %+v", row)
	}
}

func TestHeaderRowsAndFreeze(t *testing.T) {
	w := New()
	if err := w.AddWorksheet("Data"); err != nil {
		t.Fatal(err)
	}
	w.SetFreezeHeader().PrintHeaderOnEachPage()
	if w.Sheet().Freeze != nil || w.Sheet().RepeatHeader {
		t.Fatal("settings applied without header rows")
	}

	w.AddRow().Add("title")
	w.AddRow()
	w.AddHeaderRow().AddHeader("a")
	w.AddHeaderRow().AddHeader("b").AddHeader("c").SetMaxFreezeColumn()
	w.AddRow().Add(1)

	sh := w.Sheet()
	if sh.HeaderRows != (xl.RowRange{First: 3, Last: 4}) {
		t.Fatalf("HeaderRows = %+v", sh.HeaderRows)
	}
	w.SetFreezeHeader().PrintHeaderOnEachPage()
	if sh.Freeze == nil || *sh.Freeze != (xl.Pane{Row: 5, Col: 3}) {
		t.Fatalf("Freeze = %+v", sh.Freeze)
	}
	if !sh.RepeatHeader {
		t.Fatal("header rows not repeated")
	}

	w.SetHeaderRow(8)
	if sh.HeaderRows.Last != 8 || w.CurrentRow() != 8 {
		t.Fatalf("SetHeaderRow(8): %+v, cursor %d", sh.HeaderRows, w.CurrentRow())
	}
}

func TestMaxColumnsFollowCursor(t *testing.T) {
	w := New()
	if err := w.AddWorksheet("Data"); err != nil {
		t.Fatal(err)
	}
	r := w.AddHeaderRow().AddHeader("a").AddHeader("b").SetMaxFreezeColumn().
		AddHeader("c").SetAt(9, "far").SetMaxPrintAreaColumn()
	if w.MaxFreezeCol != 2 || w.MaxPrintAreaCol != 3 {
		t.Fatalf("freeze %d, print area %d", w.MaxFreezeCol, w.MaxPrintAreaCol)
	}
	r.SetMaxFreezeColumnAt(1).SetMaxPrintAreaColumnAt(9)
	if w.MaxFreezeCol != 1 || w.MaxPrintAreaCol != 9 {
		t.Fatalf("explicit: freeze %d, print area %d", w.MaxFreezeCol, w.MaxPrintAreaCol)
	}
	w.SetPrintArea()
	if pa := w.Sheet().PrintArea; pa == nil || pa.ToCol != 9 || pa.ToRow != 1 {
		t.Fatalf("PrintArea = %+v", pa)
	}
}

func TestHeaderStyleMerge(t *testing.T) {
	w := New()
	if err := w.AddWorksheet("Data"); err != nil {
		t.Fatal(err)
	}
	w.SetHeaderStyle(xl.Style{Font: xl.Font{Bold: true}})
	w.AddHeaderRow(RowStyle(xl.Style{Font: xl.Font{Italic: true}})).
		AddHeader("h", CellStyle(xl.Style{Alignment: xl.Alignment{Horizontal: xl.HAlignCenter}}))
	w.AddRow(RowStyle(xl.Style{NumberFormat: "0.00"})).
		Add(1.5, Format("0.000"))

	styles := w.Workbook().Styles
	st, _ := styles.Lookup(w.Sheet().Cell(1, 1).Style)
	if !st.Font.Bold || !st.Font.Italic || st.Alignment.Horizontal != xl.HAlignCenter {
		t.Fatalf("header cell style = %+v", st)
	}
	st, _ = styles.Lookup(w.Sheet().Cell(2, 1).Style)
	if st.NumberFormat != "0.000" || st.Font.Bold {
		t.Fatalf("data cell style = %+v", st)
	}
}

func TestSetBorder(t *testing.T) {
	w := New()
	if err := w.AddWorksheet("Data"); err != nil {
		t.Fatal(err)
	}
	r := w.AddRow().Add("before", CellStyle(xl.Style{Font: xl.Font{Bold: true}}))
	r.SetBorder(xl.BorderThin, xl.BorderNone, xl.BorderThin, xl.BorderDouble).Add("after")

	styles := w.Workbook().Styles
	want := xl.Border{Left: xl.BorderThin, Right: xl.BorderThin, Bottom: xl.BorderDouble}
	for col := 1; col <= 2; col++ {
		st, _ := styles.Lookup(w.Sheet().Cell(1, col).Style)
		if st.Border != want {
			t.Errorf("column %d border = %+v", col, st.Border)
		}
	}
	st, _ := styles.Lookup(w.Sheet().Cell(1, 1).Style)
	if !st.Font.Bold {
		t.Fatal("SetBorder dropped the cell font")
	}
}

func TestStickyError(t *testing.T) {
	w := New()
	if err := w.AddWorksheet("Data"); err != nil {
		t.Fatal(err)
	}
	w.AddRow().Add("ok")

	bad := w.AddRow(AtRow(0)).Add("lost")
	if !errors.Is(bad.Err(), xl.ErrInvalidCoordinate) {
		t.Fatalf("AtRow(0) = %v", bad.Err())
	}
	if w.CurrentRow() != 1 {
		t.Fatalf("failed row moved the cursor to %d", w.CurrentRow())
	}
	w.AddRow().SetAt(xl.MaxColumns+1, "too far")
	if !errors.Is(w.Err(), xl.ErrInvalidCoordinate) {
		t.Fatalf("Err() = %v", w.Err())
	}

	if _, err := w.Bytes(); !errors.Is(err, xl.ErrInvalidCoordinate) {
		t.Fatalf("Bytes() = %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := w.Save(path); err == nil {
		t.Fatal("Save succeeded with a recorded error")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file written despite error: %v", err)
	}
	var buf bytes.Buffer
	if n, err := w.WriteTo(&buf); err == nil || n != 0 || buf.Len() != 0 {
		t.Fatalf("WriteTo() = %d, %v", n, err)
	}

	w.ClearErr()
	if err := w.Save(path); err != nil {
		t.Fatal(err)
	}
}

func TestNoWorksheet(t *testing.T) {
	w := New()
	if r := w.AddRow().Add(1); !errors.Is(r.Err(), ErrNoWorksheet) {
		t.Fatalf("AddRow without sheet: %v", r.Err())
	}
	if !errors.Is(w.Err(), ErrNoWorksheet) {
		t.Fatalf("Err() = %v", w.Err())
	}
	w.ClearErr()
	w.SetOrientation(xl.OrientationPortrait)
	if !errors.Is(w.Err(), ErrNoWorksheet) {
		t.Fatalf("settings without sheet: %v", w.Err())
	}
}

func TestUseWorksheet(t *testing.T) {
	w := New()
	for _, name := range []string{"One", "Two"} {
		if err := w.AddWorksheet(name); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.AddWorksheet("one"); !errors.Is(err, xl.ErrDuplicateSheetName) {
		t.Fatalf("duplicate sheet: %v", err)
	}
	w.AddRow()
	w.AddRow()

	if err := w.UseWorksheet("ONE"); err != nil {
		t.Fatal(err)
	}
	if r := w.AddRow(); r.Number() != 1 {
		t.Fatalf("first row of sheet One = %d", r.Number())
	}
	if err := w.UseWorksheetAt(1); err != nil {
		t.Fatal(err)
	}
	if r := w.AddRow(); r.Number() != 3 {
		t.Fatalf("sheet Two cursor = %d, want 3", r.Number())
	}
	if err := w.UseWorksheet("Three"); !errors.Is(err, xl.ErrUnknownSheet) {
		t.Fatalf("UseWorksheet(Three) = %v", err)
	}
	if err := w.UseWorksheetAt(7); !errors.Is(err, xl.ErrUnknownSheet) {
		t.Fatalf("UseWorksheetAt(7) = %v", err)
	}
}

func TestOpenResumesCursor(t *testing.T) {
	blob, err := transactionsReport(t).Bytes()
	if err != nil {
		t.Fatal(err)
	}
	w, err := Open(bytes.NewReader(blob), "Transaction Report")
	if err != nil {
		t.Fatal(err)
	}
	if w.Sheet() == nil || w.Sheet().Name != "Transactions" {
		t.Fatalf("active sheet = %v", w.Sheet())
	}
	if w.CurrentRow() != 5 {
		t.Fatalf("cursor after Open = %d", w.CurrentRow())
	}
	r := w.AddRow().Add(4).Add("Dave")
	if r.Number() != 6 {
		t.Fatalf("appended row = %d", r.Number())
	}

	again, err := w.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	f := openBytes(t, again)
	if got := raw(t, f, "Transactions", "B6"); got != "Dave" {
		t.Fatalf("B6 = %q", got)
	}
	if got := raw(t, f, "Transactions", "B3"); got != "Alice" {
		t.Fatalf("B3 = %q", got)
	}
	// formatting of the reopened rows is kept
	idx, err := f.GetCellStyle("Transactions", "D3")
	if err != nil {
		t.Fatal(err)
	}
	st, err := f.GetStyle(idx)
	if err != nil {
		t.Fatal(err)
	}
	if st.CustomNumFmt == nil || *st.CustomNumFmt != FormatMoney {
		t.Fatalf("D3 format after reopen = %v", st.CustomNumFmt)
	}
	if c := w.Sheet().Cell(3, 3); c == nil || c.Value.Type() != xl.CellTypeDate {
		t.Fatalf("C3 after reopen = %+v", c)
	}

	if _, err := Open(strings.NewReader("garbage"), ""); err == nil {
		t.Fatal("Open accepted garbage")
	}
}

func TestSaveTemp(t *testing.T) {
	path, err := transactionsReport(t).SaveTemp()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(path)
	if filepath.Ext(path) != ".xlsx" {
		t.Fatalf("temp path %q", path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if got := f.GetSheetList(); len(got) != 1 || got[0] != "Transactions" {
		t.Fatalf("sheets = %v", got)
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	w := New(WithLogger(log))
	if err := w.AddWorksheet("Data"); err != nil {
		t.Fatal(err)
	}
	w.AddRow(AtRow(-1))
	for _, s := range []string{"added worksheet", "name=Data", "report error"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("log lacks %q:\n%s", s, buf.String())
		}
	}
}
