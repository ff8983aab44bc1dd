package xl

import (
	"fmt"

	"github.com/adnsv/srw/xml"
)

// styleSheet is the styles.xml view of a StyleTable: fonts, fills and
// borders deduplicated into their own lists, one cellXfs entry per
// StyleID.
type styleSheet struct {
	numFmts   []numFmt
	numFmtIDs map[string]int

	fonts   []Font
	fontIDs map[Font]int

	fills   []Fill
	fillIDs map[Fill]int

	borders   []Border
	borderIDs map[Border]int

	xfs []xf
}

type numFmt struct {
	id   int
	code string
}

type xf struct {
	numFmt, font, fill, border int
	align                      Alignment
}

func validateStyle(st Style) error {
	if st.Font.Color != "" {
		if _, err := normalizeColor(st.Font.Color); err != nil {
			return fmt.Errorf("font: %w", err)
		}
	}
	if st.Fill.Color != "" {
		if _, err := normalizeColor(st.Fill.Color); err != nil {
			return fmt.Errorf("fill: %w", err)
		}
	}
	return ValidateNumberFormat(st.NumberFormat)
}

func buildStyleSheet(t *StyleTable) (*styleSheet, error) {
	ss := &styleSheet{
		numFmtIDs: map[string]int{},
		fontIDs:   map[Font]int{},
		fillIDs:   map[Fill]int{},
		borderIDs: map[Border]int{},
	}
	// reserved entries every consumer expects
	ss.font(Font{})
	ss.fill(Fill{})
	ss.fill(Fill{Pattern: PatternGray125})
	ss.border(Border{})

	for id := 0; id < t.Len(); id++ {
		st, _ := t.Lookup(StyleID(id))
		if err := validateStyle(st); err != nil {
			return nil, fmt.Errorf("style %d: %w", id, err)
		}
		st.Font.Color, _ = normalizeColor(st.Font.Color)
		fill := st.Fill
		if fill.Color != "" {
			fill.Color, _ = normalizeColor(fill.Color)
			if fill.Pattern == PatternNone {
				fill.Pattern = PatternSolid
			}
		}
		ss.xfs = append(ss.xfs, xf{
			numFmt: ss.numFmt(st.NumberFormat),
			font:   ss.font(st.Font),
			fill:   ss.fill(fill),
			border: ss.border(st.Border),
			align:  st.Alignment,
		})
	}
	return ss, nil
}

func (ss *styleSheet) xfIndex(id StyleID) (int, bool) {
	if id < 0 || int(id) >= len(ss.xfs) {
		return 0, false
	}
	return int(id), true
}

func (ss *styleSheet) numFmt(code string) int {
	if code == "" {
		return 0
	}
	if id, ok := builtinNumFmts[code]; ok {
		return id
	}
	if id, ok := ss.numFmtIDs[code]; ok {
		return id
	}
	id := firstCustomNumFmt + len(ss.numFmts)
	ss.numFmts = append(ss.numFmts, numFmt{id: id, code: code})
	ss.numFmtIDs[code] = id
	return id
}

func (ss *styleSheet) font(f Font) int {
	if id, ok := ss.fontIDs[f]; ok {
		return id
	}
	id := len(ss.fonts)
	ss.fonts = append(ss.fonts, f)
	ss.fontIDs[f] = id
	return id
}

func (ss *styleSheet) fill(f Fill) int {
	if id, ok := ss.fillIDs[f]; ok {
		return id
	}
	id := len(ss.fills)
	ss.fills = append(ss.fills, f)
	ss.fillIDs[f] = id
	return id
}

func (ss *styleSheet) border(b Border) int {
	if id, ok := ss.borderIDs[b]; ok {
		return id
	}
	id := len(ss.borders)
	ss.borders = append(ss.borders, b)
	ss.borderIDs[b] = id
	return id
}

func (w *Writer) writeStyles() error {
	_, rid := w.nextWorkbookID()

	relpath := "styles.xml"
	abspath := "/xl/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	w.WorkbookRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles",
		Target: relpath,
	}

	ss := w.styles
	return w.part(abspath, func(x *xml.Writer) error {
		x.OTag("styleSheet")
		x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")

		if len(ss.numFmts) > 0 {
			x.OTag("+numFmts").Attr("count", len(ss.numFmts))
			for _, nf := range ss.numFmts {
				x.OTag("+numFmt").Attr("numFmtId", nf.id).Attr("formatCode", nf.code).CTag()
			}
			x.CTag()
		}

		x.OTag("+fonts").Attr("count", len(ss.fonts))
		for _, f := range ss.fonts {
			writeFont(x, f)
		}
		x.CTag()

		x.OTag("+fills").Attr("count", len(ss.fills))
		for _, f := range ss.fills {
			writeFill(x, f)
		}
		x.CTag()

		x.OTag("+borders").Attr("count", len(ss.borders))
		for _, b := range ss.borders {
			writeBorder(x, b)
		}
		x.CTag()

		x.OTag("+cellStyleXfs").Attr("count", 1)
		x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", 0).Attr("fillId", 0).Attr("borderId", 0).CTag()
		x.CTag()

		x.OTag("+cellXfs").Attr("count", len(ss.xfs))
		for _, e := range ss.xfs {
			writeXf(x, e)
		}
		x.CTag()

		x.OTag("+cellStyles").Attr("count", 1)
		x.OTag("+cellStyle").Attr("name", "Normal").Attr("xfId", 0).Attr("builtinId", 0).CTag()
		x.CTag()

		x.CTag() // styleSheet
		return nil
	})
}

func writeFont(x *xml.Writer, f Font) {
	x.OTag("+font")
	if f.Bold {
		x.OTag("+b").CTag()
	}
	if f.Italic {
		x.OTag("+i").CTag()
	}
	if f.Strikethrough {
		x.OTag("+strike").CTag()
	}
	if f.Underline != UnderlineNone {
		x.OTag("+u").Attr("val", string(f.Underline)).CTag()
	}
	x.OTag("+sz").Attr("val", formatFloat(f.size())).CTag()
	if f.Color != "" {
		x.OTag("+color").Attr("rgb", f.Color).CTag()
	} else {
		x.OTag("+color").Attr("theme", 1).CTag()
	}
	x.OTag("+name").Attr("val", f.family()).CTag()
	if f.Family == "" {
		x.OTag("+family").Attr("val", 2).CTag()
		x.OTag("+scheme").Attr("val", "minor").CTag()
	}
	x.CTag()
}

func writeFill(x *xml.Writer, f Fill) {
	x.OTag("+fill")
	x.OTag("+patternFill")
	if f.Pattern == PatternNone {
		x.Attr("patternType", "none")
	} else {
		x.Attr("patternType", string(f.Pattern))
	}
	if f.Color != "" {
		x.OTag("+fgColor").Attr("rgb", f.Color).CTag()
		x.OTag("+bgColor").Attr("indexed", 64).CTag()
	}
	x.CTag() // patternFill
	x.CTag() // fill
}

func writeBorder(x *xml.Writer, b Border) {
	x.OTag("+border")
	x.OTag("+left")
	borderEdge(x, b.Left)
	x.CTag()
	x.OTag("+right")
	borderEdge(x, b.Right)
	x.CTag()
	x.OTag("+top")
	borderEdge(x, b.Top)
	x.CTag()
	x.OTag("+bottom")
	borderEdge(x, b.Bottom)
	x.CTag()
	x.OTag("+diagonal").CTag()
	x.CTag()
}

// borderEdge writes the attributes and content of an already opened edge
// element.
func borderEdge(x *xml.Writer, s BorderStyle) {
	if s == BorderNone {
		return
	}
	x.Attr("style", string(s))
	x.OTag("+color").Attr("indexed", 64).CTag()
}

func writeXf(x *xml.Writer, e xf) {
	x.OTag("+xf")
	x.Attr("numFmtId", e.numFmt).Attr("fontId", e.font).Attr("fillId", e.fill).Attr("borderId", e.border)
	x.Attr("xfId", 0)
	if e.numFmt != 0 {
		x.Attr("applyNumberFormat", 1)
	}
	if e.font != 0 {
		x.Attr("applyFont", 1)
	}
	if e.fill != 0 {
		x.Attr("applyFill", 1)
	}
	if e.border != 0 {
		x.Attr("applyBorder", 1)
	}
	if e.align != (Alignment{}) {
		x.Attr("applyAlignment", 1)
		x.OTag("+alignment")
		if e.align.Horizontal != HAlignGeneral {
			x.Attr("horizontal", string(e.align.Horizontal))
		}
		if e.align.Vertical != VAlignBottom {
			x.Attr("vertical", string(e.align.Vertical))
		}
		if e.align.WrapText {
			x.Attr("wrapText", 1)
		}
		x.CTag()
	}
	x.CTag()
}
