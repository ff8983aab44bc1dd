package xl

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenImportsValues(t *testing.T) {
	src := sampleWorkbook(t)
	must(t, src.SetActiveSheet(1))
	blob, err := src.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	wb, err := Open(bytes.NewReader(blob))
	if err != nil {
		t.Fatal(err)
	}
	if len(wb.Sheets) != 2 || wb.Sheets[0].Name != "Transactions" || wb.Sheets[1].Name != "Other's" {
		t.Fatalf("sheets = %v", wb.Sheets)
	}
	if wb.ActiveSheet() != 1 {
		t.Fatalf("active sheet = %d", wb.ActiveSheet())
	}

	sh := wb.Sheets[0]
	if lr, lc := sh.Extent(); lr != 4 || lc != 4 {
		t.Fatalf("Extent() = %d, %d", lr, lc)
	}
	if c := sh.Cell(2, 2); c == nil || c.Value != Text("Alice") {
		t.Fatalf("B2 = %+v", c)
	}
	if c := sh.Cell(2, 3); c == nil || c.Value != Number(10.5) {
		t.Fatalf("C2 = %+v", c)
	}
	if c := sh.Cell(4, 1); c == nil || c.Value != Bool(true) {
		t.Fatalf("A4 = %+v", c)
	}
	c := sh.Cell(3, 3)
	if c == nil || c.Value.Type() != CellTypeFormula || c.Value.FormulaText() != "SUM(C2:C2)" {
		t.Fatalf("C3 = %+v", c)
	}

	other := wb.Sheets[1]
	if lr, _ := other.Extent(); lr != 10 {
		t.Fatalf("second sheet extent = %d", lr)
	}

	// the imported workbook can be extended and written again
	must(t, sh.SetCell(5, 1, Text("appended"), DefaultStyle))
	again, err := wb.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	f := openBytes(t, again)
	if got := raw(t, f, "Transactions", "A5"); got != "appended" {
		t.Fatalf("A5 = %q", got)
	}
	if got := raw(t, f, "Transactions", "B2"); got != "Alice" {
		t.Fatalf("B2 = %q", got)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.xlsx")
	must(t, sampleWorkbook(t).SaveAs(path))
	wb, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(wb.Sheets) != 2 {
		t.Fatalf("%d sheets", len(wb.Sheets))
	}

	if _, err := OpenFile(filepath.Join(t.TempDir(), "nope.xlsx")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: %v", err)
	}
	if _, err := Open(bytes.NewReader([]byte("not a zip"))); err == nil {
		t.Fatal("garbage accepted")
	}
}

func TestOpenSparseSheet(t *testing.T) {
	src := NewWorkbook()
	sh, err := src.AddSheet("Sparse")
	must(t, err)
	must(t, sh.SetCell(1, 1, Text("first"), DefaultStyle))
	must(t, sh.SetCell(50000, 200, Formula("A1"), DefaultStyle))
	must(t, sh.SetCell(50000, 201, Number(7), DefaultStyle))
	blob, err := src.Bytes()
	must(t, err)

	wb, err := Open(bytes.NewReader(blob))
	must(t, err)
	got := wb.Sheets[0]
	if lr, lc := got.Extent(); lr != 50000 || lc != 201 {
		t.Fatalf("Extent() = %d, %d", lr, lc)
	}
	if c := got.Cell(1, 1); c == nil || c.Value != Text("first") {
		t.Fatalf("A1 = %+v", c)
	}
	if c := got.Cell(50000, 200); c == nil || c.Value.FormulaText() != "A1" {
		t.Fatalf("GR50000 = %+v", c)
	}
	if c := got.Cell(50000, 201); c == nil || c.Value != Number(7) {
		t.Fatalf("GS50000 = %+v", c)
	}
	if c := got.Cell(50000, 1); c != nil {
		t.Fatalf("A50000 = %+v, want unset", c)
	}
}

func TestOpenImportsStyles(t *testing.T) {
	src := sampleWorkbook(t)
	sh := src.Sheets[0]
	day := src.InternStyle(Style{NumberFormat: "yyyy-mm-dd", Border: Border{Bottom: BorderDouble}})
	must(t, sh.SetCell(6, 1, DateSerial(45413), day))
	must(t, sh.SetCell(6, 2, Number(0.25), src.InternStyle(Style{NumberFormat: "0.00%"})))
	blob, err := src.Bytes()
	must(t, err)

	wb, err := Open(bytes.NewReader(blob))
	must(t, err)
	got := wb.Sheets[0]
	style := func(row, col int) Style {
		t.Helper()
		c := got.Cell(row, col)
		if c == nil {
			t.Fatalf("cell %s missing", CellCoordAsString(col, row))
		}
		st, ok := wb.Styles.Lookup(c.Style)
		if !ok {
			t.Fatalf("cell %s has dangling style %d", CellCoordAsString(col, row), c.Style)
		}
		return st
	}

	if st := style(2, 3); st.NumberFormat != "$###,###,##0.00" {
		t.Fatalf("C2 format = %q", st.NumberFormat)
	}
	if st := style(3, 3); st.NumberFormat != "$###,###,##0.00" {
		t.Fatalf("C3 format = %q", st.NumberFormat)
	}
	if st := style(6, 2); st.NumberFormat != "0.00%" {
		t.Fatalf("B6 format = %q", st.NumberFormat)
	}
	hdr := style(1, 1)
	if !hdr.Font.Bold || hdr.Font.Underline != UnderlineSingle || hdr.Fill.Pattern != PatternSolid {
		t.Fatalf("A1 style = %+v", hdr)
	}
	if hdr != style(1, 2) {
		t.Fatal("header cells do not share a style")
	}
	if st := style(2, 1); st != (Style{}) {
		t.Fatalf("A2 style = %+v", st)
	}

	date := got.Cell(6, 1)
	if date.Value.Type() != CellTypeDate || date.Value != DateSerial(45413) {
		t.Fatalf("A6 = %+v", date.Value)
	}
	if st := style(6, 1); st.NumberFormat != "yyyy-mm-dd" || st.Border.Bottom != BorderDouble {
		t.Fatalf("A6 style = %+v", st)
	}

	// the imported styles survive another write
	again, err := wb.Bytes()
	must(t, err)
	f := openBytes(t, again)
	idx, err := f.GetCellStyle("Transactions", "C2")
	must(t, err)
	xs, err := f.GetStyle(idx)
	must(t, err)
	if xs.CustomNumFmt == nil || *xs.CustomNumFmt != "$###,###,##0.00" {
		t.Fatalf("rewritten C2 format = %v", xs.CustomNumFmt)
	}
}

func TestOpenActiveTabOutOfRange(t *testing.T) {
	blob, err := sampleWorkbook(t).Bytes()
	must(t, err)
	blob = rewritePart(t, blob, "xl/workbook.xml", `activeTab="0"`, `activeTab="7"`)

	wb, err := Open(bytes.NewReader(blob))
	must(t, err)
	if wb.ActiveSheet() != 0 {
		t.Fatalf("active sheet = %d", wb.ActiveSheet())
	}
}

// rewritePart copies a package, replacing old with new inside one part.
func rewritePart(t *testing.T, blob []byte, name, old, new string) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	must(t, err)
	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	found := false
	for _, f := range zr.File {
		rc, err := f.Open()
		must(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		must(t, err)
		if f.Name == name {
			if !strings.Contains(string(data), old) {
				t.Fatalf("%s does not contain %s", name, old)
			}
			data = []byte(strings.Replace(string(data), old, new, 1))
			found = true
		}
		w, err := zw.Create(f.Name)
		must(t, err)
		_, err = w.Write(data)
		must(t, err)
	}
	must(t, zw.Close())
	if !found {
		t.Fatalf("no part %s", name)
	}
	return out.Bytes()
}
