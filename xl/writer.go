package xl

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/adnsv/srw/xml"
	"github.com/valyala/bytebufferpool"

	"golang.org/x/exp/constraints"
)

// Writer serializes a Workbook into OOXML parts. A Writer is single use:
// create one per Write call.
type Writer struct {
	out            Storage
	lastGlobalId   int
	lastWorkbookId int

	GlobalRels          map[string]RelInfo // maps id to absolute path
	WorkbookRels        map[string]RelInfo // maps id to absolute paths
	DefaultContentTypes map[string]string  // maps path extension to content-type
	PartContentTypes    map[string]string  // maps path partname to content-type

	sharedStrings *SharedStrings
	styles        *styleSheet
}

type RelInfo struct {
	Type   string // url to schema type
	Target string // relative path
}

func NewWriter(s Storage) *Writer {
	w := &Writer{
		out:                 s,
		GlobalRels:          map[string]RelInfo{},
		WorkbookRels:        map[string]RelInfo{},
		DefaultContentTypes: map[string]string{},
		PartContentTypes:    map[string]string{},

		sharedStrings: NewSharedStrings(),
	}

	w.DefaultContentTypes["xml"] = "application/xml"
	w.DefaultContentTypes["rels"] = "application/vnd.openxmlformats-package.relationships+xml"

	return w
}

func (w *Writer) nextGlobalID() (int, string) {
	w.lastGlobalId++
	return w.lastGlobalId, fmt.Sprintf("rId%d", w.lastGlobalId)
}
func (w *Writer) nextWorkbookID() (int, string) {
	w.lastWorkbookId++
	return w.lastWorkbookId, fmt.Sprintf("rId%d", w.lastWorkbookId)
}

// Write validates wb and emits every part of the package. On a validation
// error nothing is written to the storage.
func (w *Writer) Write(wb *Workbook) error {
	var err error

	if err = wb.Validate(); err != nil {
		return err
	}
	w.styles, err = buildStyleSheet(wb.Styles)
	if err != nil {
		return err
	}

	err = w.writeWorkbook(wb)
	if err != nil {
		return err
	}

	err = w.writeStyles()
	if err != nil {
		return err
	}

	if w.sharedStrings.Len() > 0 {
		err = w.writeSharedStrings()
		if err != nil {
			return err
		}
	}

	err = w.writeCoreProperties(wb)
	if err != nil {
		return err
	}
	err = w.writeExtendedProperties(wb)
	if err != nil {
		return err
	}

	err = w.writeRels("/xl/_rels/workbook.xml.rels", w.WorkbookRels)
	if err != nil {
		return err
	}

	err = w.writeRels("/_rels/.rels", w.GlobalRels)
	if err != nil {
		return err
	}

	return w.writeContentTypes()
}

// part renders one XML part into a pooled buffer and stores it.
func (w *Writer) part(abspath string, render func(x *xml.Writer) error) error {
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	x := xml.NewWriter(bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()
	if err := render(x); err != nil {
		return err
	}
	return ioError(w.out.WriteBlob(abspath, bb.Bytes()))
}

func (w *Writer) writeCoreProperties(wb *Workbook) error {
	_, rid := w.nextGlobalID()

	relpath := "docProps/core.xml"
	abspath := "/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-package.core-properties+xml"
	w.GlobalRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties",
		Target: relpath,
	}

	return w.part(abspath, func(x *xml.Writer) error {
		x.OTag("cp:coreProperties")
		x.Attr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
		x.Attr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
		x.Attr("xmlns:dcterms", "http://purl.org/dc/terms/")
		x.Attr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
		x.Attr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

		if wb.Title != "" {
			x.OTag("+dc:title").String(escapeXString(wb.Title)).CTag()
		}
		if wb.Creator != "" {
			x.OTag("+dc:creator").String(escapeXString(wb.Creator)).CTag()
		}
		if !wb.Created.IsZero() {
			x.OTag("+dcterms:created")
			x.Attr("xsi:type", "dcterms:W3CDTF")
			x.Write(wb.Created.UTC().Format(time.RFC3339))
			x.CTag()
		}

		x.CTag()
		return nil
	})
}

func (w *Writer) writeExtendedProperties(wb *Workbook) error {
	_, rid := w.nextGlobalID()

	relpath := "docProps/app.xml"
	abspath := "/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	w.GlobalRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties",
		Target: relpath,
	}

	return w.part(abspath, func(x *xml.Writer) error {
		x.OTag("Properties")
		x.Attr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
		x.Attr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")

		if wb.AppName != "" {
			x.OTag("+Application").String(escapeXString(wb.AppName)).CTag()
		}

		x.CTag()
		return nil
	})
}

func (w *Writer) writeContentTypes() error {
	return w.part("/[Content_Types].xml", func(x *xml.Writer) error {
		x.OTag("Types")
		x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")
		enumerate(w.DefaultContentTypes, func(ext, ctype string) error {
			x.OTag("+Default").Attr("Extension", ext).Attr("ContentType", ctype).CTag()
			return nil
		})
		enumerate(w.PartContentTypes, func(abspath, ctype string) error {
			x.OTag("+Override").Attr("PartName", abspath).Attr("ContentType", ctype).CTag()
			return nil
		})

		x.CTag()
		return nil
	})
}

func (w *Writer) writeWorkbook(wb *Workbook) error {
	_, rid := w.nextGlobalID()

	relpath := "xl/workbook.xml"
	abspath := "/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	w.GlobalRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument",
		Target: relpath,
	}

	// sheets first: they fill the shared string table in sheet, row,
	// column order and take the low relationship ids
	sheetRIDs := make([]string, len(wb.Sheets))
	for i, sheet := range wb.Sheets {
		_, sheetRIDs[i] = w.nextWorkbookID()
		if err := w.writeSheet(wb, i, sheet, sheetRIDs[i]); err != nil {
			return err
		}
	}

	return w.part(abspath, func(x *xml.Writer) error {
		x.OTag("workbook")
		x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
		x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

		x.OTag("+bookViews")
		x.OTag("+workbookView")
		x.Attr("activeTab", wb.active)
		x.CTag()
		x.CTag()

		x.OTag("+sheets")
		for i, sheet := range wb.Sheets {
			x.OTag("+sheet")
			x.Attr("name", sheet.Name)
			x.Attr("sheetId", i+1)
			x.Attr("r:id", sheetRIDs[i])
			x.CTag()
		}
		x.CTag()

		if names := definedNames(wb); len(names) > 0 {
			x.OTag("+definedNames")
			for _, dn := range names {
				x.OTag("+definedName")
				x.Attr("name", dn.name)
				x.Attr("localSheetId", dn.sheet)
				x.String(dn.ref)
				x.CTag()
			}
			x.CTag()
		}

		x.CTag()
		return nil
	})
}

type definedName struct {
	name  string
	sheet int
	ref   string
}

func definedNames(wb *Workbook) []definedName {
	var names []definedName
	for i, sh := range wb.Sheets {
		qname := quoteSheetName(sh.Name)
		if sh.PrintArea != nil {
			names = append(names, definedName{
				name:  "_xlnm.Print_Area",
				sheet: i,
				ref:   qname + "!" + sh.PrintArea.absolute(),
			})
		}
		if sh.RepeatHeader && !sh.HeaderRows.Empty() {
			names = append(names, definedName{
				name:  "_xlnm.Print_Titles",
				sheet: i,
				ref:   fmt.Sprintf("%s!$%d:$%d", qname, sh.HeaderRows.First, sh.HeaderRows.Last),
			})
		}
	}
	return names
}

func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func (w *Writer) writeSheet(wb *Workbook, index int, sh *Sheet, rid string) error {
	relpath := fmt.Sprintf("worksheets/sheet%d.xml", index+1)
	abspath := "/xl/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	w.WorkbookRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet",
		Target: relpath,
	}

	return w.part(abspath, func(x *xml.Writer) error {
		x.OTag("worksheet")
		x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
		x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

		if sh.FitToPage {
			x.OTag("+sheetPr")
			x.OTag("+pageSetUpPr").Attr("fitToPage", 1).CTag()
			x.CTag()
		}

		lastRow, lastCol := sh.Extent()
		dim := "A1"
		if lastRow > 0 {
			dim = Range{FromRow: 1, FromCol: 1, ToRow: lastRow, ToCol: lastCol}.String()
		}
		x.OTag("+dimension").Attr("ref", dim).CTag()

		w.writeSheetView(x, sh, index == wb.active)

		x.OTag("+sheetFormatPr").Attr("defaultRowHeight", "15").CTag()

		if len(sh.Columns) > 0 {
			x.OTag("+cols")
			enumerate(sh.Columns, func(n int, v *Column) error {
				x.OTag("+col").Attr("min", n).Attr("max", n)
				if v.Width > 0 {
					x.Attr("width", formatFloat(v.Width)).Attr("customWidth", 1)
				}
				x.CTag()
				return nil
			})
			x.CTag()
		}

		x.OTag("+sheetData")
		err := sh.Rows(func(row *Row) error {
			x.OTag("+row").Attr("r", row.number)
			if row.Height > 0 {
				x.Attr("ht", formatFloat(row.Height)).Attr("customHeight", 1)
			}
			err := row.Cells(func(cell *Cell) error {
				return w.writeCell(x, sh, cell)
			})
			x.CTag() // row
			return err
		})
		if err != nil {
			return err
		}
		x.CTag() // sheetData

		if sh.PrintGridLines {
			x.OTag("+printOptions").Attr("gridLines", 1).CTag()
		}

		x.OTag("+pageMargins")
		x.Attr("left", "0.7").Attr("right", "0.7")
		x.Attr("top", "0.75").Attr("bottom", "0.75")
		x.Attr("header", "0.3").Attr("footer", "0.3")
		x.CTag()

		if sh.Orientation != OrientationDefault || sh.FitToPage {
			x.OTag("+pageSetup")
			if sh.Orientation != OrientationDefault {
				x.Attr("orientation", string(sh.Orientation))
			}
			if sh.FitToPage {
				x.Attr("fitToWidth", sh.FitToWidth)
				x.Attr("fitToHeight", sh.FitToHeight)
			}
			x.CTag()
		}

		if !sh.Footer.empty() {
			x.OTag("+headerFooter")
			x.OTag("+oddFooter").String(escapeXString(sh.Footer.code())).CTag()
			x.CTag()
		}

		x.CTag() // worksheet
		return nil
	})
}

func (w *Writer) writeSheetView(x *xml.Writer, sh *Sheet, selected bool) {
	x.OTag("+sheetViews")
	x.OTag("+sheetView")
	if selected {
		x.Attr("tabSelected", 1)
	}
	if sh.HideGridLines {
		x.Attr("showGridLines", 0)
	}
	x.Attr("workbookViewId", 0)

	if p := sh.Freeze; p != nil {
		xSplit, ySplit := p.Col-1, p.Row-1
		pane := "bottomRight"
		switch {
		case xSplit == 0:
			pane = "bottomLeft"
		case ySplit == 0:
			pane = "topRight"
		}
		topLeft := CellCoordAsString(p.Col, p.Row)
		x.OTag("+pane")
		if xSplit > 0 {
			x.Attr("xSplit", xSplit)
		}
		if ySplit > 0 {
			x.Attr("ySplit", ySplit)
		}
		x.Attr("topLeftCell", topLeft)
		x.Attr("activePane", pane)
		x.Attr("state", "frozen")
		x.CTag()
		x.OTag("+selection").Attr("pane", pane).Attr("activeCell", topLeft).Attr("sqref", topLeft).CTag()
	}

	x.CTag() // sheetView
	x.CTag() // sheetViews
}

func (w *Writer) writeCell(x *xml.Writer, sh *Sheet, cell *Cell) error {
	if _, ok := w.styles.xfIndex(cell.Style); !ok {
		return cellError(sh.Name, cell.Row, cell.Column, fmt.Errorf("%w: %d", ErrDanglingStyle, cell.Style))
	}

	x.OTag("+c").Attr("r", cell.Coord())
	if cell.Style != DefaultStyle {
		x.Attr("s", int(cell.Style))
	}

	v := cell.Value
	switch v.typ {
	case CellTypeBool:
		x.Attr("t", "b")
		x.OTag("v").Write(boolDigit(v.Bool())).CTag()
	case CellTypeNumber, CellTypeDate:
		x.OTag("v").Write(formatFloat(v.num)).CTag()
	case CellTypeError:
		x.Attr("t", "e")
		x.OTag("v").String(escapeXString(v.str)).CTag()
	case CellTypeSharedString:
		x.Attr("t", "s")
		x.OTag("v").Write(w.sharedStrings.Intern(v.str)).CTag()
	case CellTypeFormula:
		result, hasResult := v.Cached()
		switch result.typ {
		case CellTypeSharedString:
			x.Attr("t", "str")
		case CellTypeBool:
			x.Attr("t", "b")
		case CellTypeError:
			x.Attr("t", "e")
		}
		x.OTag("f").String(v.formula).CTag()
		if hasResult {
			switch result.typ {
			case CellTypeSharedString, CellTypeError:
				x.OTag("v").String(escapeXString(result.str)).CTag()
			case CellTypeBool:
				x.OTag("v").Write(boolDigit(result.Bool())).CTag()
			default:
				x.OTag("v").Write(formatFloat(result.num)).CTag()
			}
		}
	}
	x.CTag() // c
	return nil
}

func boolDigit(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (w *Writer) writeSharedStrings() error {
	_, rid := w.nextWorkbookID()

	relpath := "sharedStrings.xml"
	abspath := "/xl/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	w.WorkbookRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings",
		Target: relpath,
	}

	return w.part(abspath, func(x *xml.Writer) error {
		x.OTag("sst")
		x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
		x.Attr("count", w.sharedStrings.Len())
		x.Attr("uniqueCount", w.sharedStrings.Len())

		for i := 0; i < w.sharedStrings.Len(); i++ {
			s := w.sharedStrings.At(i)
			x.OTag("+si")
			x.OTag("t")
			if strings.TrimSpace(s) != s {
				x.Attr("xml:space", "preserve")
			}
			x.String(escapeXString(s))
			x.CTag() // t
			x.CTag() // si
		}

		x.CTag()
		return nil
	})
}

func (w *Writer) writeRels(path string, rels map[string]RelInfo) error {
	return w.part(path, func(x *xml.Writer) error {
		x.OTag("Relationships")
		x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")
		err := enumerate(rels, func(rid string, info RelInfo) error {
			x.OTag("+Relationship").Attr("Id", rid).Attr("Type", info.Type).Attr("Target", info.Target)
			x.CTag()

			return nil
		})
		if err != nil {
			return err
		}
		x.CTag()
		return nil
	})
}

// enumerate walks m in ascending key order. Relationship ids sort as
// strings, so "rId10" precedes "rId2"; the order only has to be stable.
func enumerate[M ~map[K]V, K constraints.Ordered, V any](m M, callback func(k K, v V) error) error {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		err := callback(k, m[k])
		if err != nil {
			return err
		}
	}
	return nil
}
