package xl

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Open reads an existing .xlsx package far enough to continue writing to
// it: sheets in tab order, cell values and formulas, the cell formatting
// this package can express, and the active tab. Column widths and print
// settings are not imported.
func Open(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	wb := NewWorkbook()
	if props, err := f.GetDocProps(); err == nil && props != nil {
		wb.Creator = props.Creator
		wb.Title = props.Title
	}

	im := importer{f: f, wb: wb, styles: map[int]StyleID{}}
	names := f.GetSheetList()
	for _, name := range names {
		sh, err := wb.AddSheet(name)
		if err != nil {
			return nil, err
		}
		if err := im.sheet(sh); err != nil {
			return nil, err
		}
	}
	if active := f.GetActiveSheetIndex(); active < len(names) {
		if err := wb.SetActiveSheet(active); err != nil {
			return nil, err
		}
	}
	return wb, nil
}

// OpenFile is Open on a file path.
func OpenFile(path string) (*Workbook, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Open(fh)
}

type importer struct {
	f      *excelize.File
	wb     *Workbook
	styles map[int]StyleID // excelize style index -> interned style
}

// sheet streams the rows of one worksheet. Only cells present in the row
// XML are looked at, so sparse sheets with far away cells stay cheap.
func (im *importer) sheet(sh *Sheet) error {
	rows, err := im.f.Rows(sh.Name)
	if err != nil {
		return sheetError(sh.Name, err)
	}
	defer rows.Close()

	for r := 1; rows.Next(); r++ {
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return sheetError(sh.Name, err)
		}
		for i, raw := range cols {
			if err := im.cell(sh, r, i+1, raw); err != nil {
				return err
			}
		}
	}
	if err := rows.Error(); err != nil {
		return sheetError(sh.Name, err)
	}
	return nil
}

func (im *importer) cell(sh *Sheet, row, col int, raw string) error {
	axis := CellCoordAsString(col, row)
	// an empty entry is either a gap or a formula without a cached value
	formula, err := im.f.GetCellFormula(sh.Name, axis)
	if err != nil {
		return sheetError(sh.Name, err)
	}
	if raw == "" && formula == "" {
		return nil
	}

	style, err := im.style(sh.Name, axis)
	if err != nil {
		return err
	}
	v := Empty()
	if raw != "" {
		typ, err := im.f.GetCellType(sh.Name, axis)
		if err != nil {
			return sheetError(sh.Name, err)
		}
		v = importValue(typ, raw)
		if v.typ == CellTypeNumber && style != DefaultStyle {
			if st, _ := im.wb.Styles.Lookup(style); IsDateFormat(st.NumberFormat) && v.num >= 0 {
				v = DateSerial(v.num)
			}
		}
	}
	if formula != "" {
		v = FormulaWithResult(formula, v)
	}
	return sh.SetCell(row, col, v, style)
}

func (im *importer) style(sheet, axis string) (StyleID, error) {
	idx, err := im.f.GetCellStyle(sheet, axis)
	if err != nil {
		return DefaultStyle, sheetError(sheet, err)
	}
	if idx == 0 {
		return DefaultStyle, nil
	}
	if id, ok := im.styles[idx]; ok {
		return id, nil
	}
	st, err := im.f.GetStyle(idx)
	if err != nil {
		return DefaultStyle, sheetError(sheet, err)
	}
	id := im.wb.InternStyle(importStyle(st))
	im.styles[idx] = id
	return id, nil
}

// importStyle keeps what Style can express and drops the rest.
func importStyle(src *excelize.Style) Style {
	var st Style
	if src.CustomNumFmt != nil {
		st.NumberFormat = *src.CustomNumFmt
	} else if code, ok := builtinNumFmtCode(src.NumFmt); ok && src.NumFmt != 0 {
		st.NumberFormat = code
	}
	if ValidateNumberFormat(st.NumberFormat) != nil {
		st.NumberFormat = ""
	}

	if fnt := src.Font; fnt != nil {
		st.Font = Font{
			Bold:          fnt.Bold,
			Italic:        fnt.Italic,
			Strikethrough: fnt.Strike,
		}
		switch u := UnderlineType(fnt.Underline); u {
		case UnderlineSingle, UnderlineDouble, UnderlineSingleAccounting, UnderlineDoubleAccounting:
			st.Font.Underline = u
		}
		if fnt.Family != defaultFontFamily {
			st.Font.Family = fnt.Family
		}
		if fnt.Size != defaultFontSize {
			st.Font.Size = fnt.Size
		}
		if c, err := normalizeColor(fnt.Color); err == nil {
			st.Font.Color = c
		}
	}

	if src.Fill.Type == "pattern" && src.Fill.Pattern == 1 && len(src.Fill.Color) > 0 {
		if c, err := normalizeColor(src.Fill.Color[0]); err == nil {
			st.Fill = Fill{Pattern: PatternSolid, Color: c}
		}
	}

	for _, b := range src.Border {
		edge := importBorderStyle(b.Style)
		switch b.Type {
		case "left":
			st.Border.Left = edge
		case "right":
			st.Border.Right = edge
		case "top":
			st.Border.Top = edge
		case "bottom":
			st.Border.Bottom = edge
		}
	}

	if a := src.Alignment; a != nil {
		switch h := HAlign(a.Horizontal); h {
		case HAlignLeft, HAlignCenter, HAlignRight, HAlignFill, HAlignJustify:
			st.Alignment.Horizontal = h
		}
		switch v := VAlign(a.Vertical); v {
		case VAlignTop, VAlignCenter:
			st.Alignment.Vertical = v
		}
		st.Alignment.WrapText = a.WrapText
	}
	return st
}

// importBorderStyle maps excelize's border style index.
func importBorderStyle(n int) BorderStyle {
	switch n {
	case 1:
		return BorderThin
	case 2:
		return BorderMedium
	case 3:
		return BorderDashed
	case 4:
		return BorderDotted
	case 5:
		return BorderThick
	case 6:
		return BorderDouble
	}
	return BorderNone
}

func importValue(typ excelize.CellType, raw string) Value {
	switch typ {
	case excelize.CellTypeBool:
		return Bool(raw == "1" || strings.EqualFold(raw, "TRUE"))
	case excelize.CellTypeError:
		return ErrorValue(raw)
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return Text(raw)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return Number(f)
	}
	return Text(raw)
}
