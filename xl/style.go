package xl

// Style is the complete formatting of a cell. Styles are plain values:
// two Styles with equal fields are the same style, and interning them in
// a StyleTable yields the same StyleID.
type Style struct {
	Font         Font
	Fill         Fill
	Border       Border
	Alignment    Alignment
	NumberFormat string // format code, e.g. "0.00" or "@"; empty = General
}

// Fill is the cell background.
type Fill struct {
	Pattern PatternType
	Color   string // RGB or ARGB hex of the pattern foreground
}

// PatternType is an ECMA-376 ST_PatternType value.
type PatternType string

const (
	PatternNone      PatternType = ""
	PatternSolid     PatternType = "solid"
	PatternGray125   PatternType = "gray125"
	PatternGray0625  PatternType = "gray0625"
	PatternDarkGray  PatternType = "darkGray"
	PatternLightGray PatternType = "lightGray"
)

// Border holds the line style of each cell edge.
type Border struct {
	Left, Right, Top, Bottom BorderStyle
}

// BorderStyle is an ECMA-376 ST_BorderStyle value.
type BorderStyle string

const (
	BorderNone   BorderStyle = ""
	BorderThin   BorderStyle = "thin"
	BorderMedium BorderStyle = "medium"
	BorderThick  BorderStyle = "thick"
	BorderDashed BorderStyle = "dashed"
	BorderDotted BorderStyle = "dotted"
	BorderDouble BorderStyle = "double"
)

// Alignment positions the cell content.
type Alignment struct {
	Horizontal HAlign
	Vertical   VAlign
	WrapText   bool
}

// HAlign is a horizontal alignment.
type HAlign string

const (
	HAlignGeneral HAlign = ""
	HAlignLeft    HAlign = "left"
	HAlignCenter  HAlign = "center"
	HAlignRight   HAlign = "right"
	HAlignFill    HAlign = "fill"
	HAlignJustify HAlign = "justify"
)

// VAlign is a vertical alignment.
type VAlign string

const (
	VAlignBottom VAlign = "" // spreadsheet default
	VAlignTop    VAlign = "top"
	VAlignCenter VAlign = "center"
)

// Merge returns s with every non-zero field of override applied on top.
// Booleans can only be switched on by an override.
func (s Style) Merge(override Style) Style {
	s.Font = s.Font.merge(override.Font)
	if override.Fill.Pattern != PatternNone {
		s.Fill.Pattern = override.Fill.Pattern
	}
	if override.Fill.Color != "" {
		s.Fill.Color = override.Fill.Color
		if s.Fill.Pattern == PatternNone {
			s.Fill.Pattern = PatternSolid
		}
	}
	if override.Border.Left != BorderNone {
		s.Border.Left = override.Border.Left
	}
	if override.Border.Right != BorderNone {
		s.Border.Right = override.Border.Right
	}
	if override.Border.Top != BorderNone {
		s.Border.Top = override.Border.Top
	}
	if override.Border.Bottom != BorderNone {
		s.Border.Bottom = override.Border.Bottom
	}
	if override.Alignment.Horizontal != HAlignGeneral {
		s.Alignment.Horizontal = override.Alignment.Horizontal
	}
	if override.Alignment.Vertical != VAlignBottom {
		s.Alignment.Vertical = override.Alignment.Vertical
	}
	s.Alignment.WrapText = s.Alignment.WrapText || override.Alignment.WrapText
	if override.NumberFormat != "" {
		s.NumberFormat = override.NumberFormat
	}
	return s
}

// StyleID references a style interned in a StyleTable. The zero StyleID
// is the default style.
type StyleID int

// DefaultStyle is the id of the zero Style in every StyleTable.
const DefaultStyle StyleID = 0

// StyleTable deduplicates styles and hands out sequential ids. The zero
// value is ready to use and holds only the default style.
type StyleTable struct {
	styles []Style
	ids    map[Style]StyleID
}

// NewStyleTable returns a table that holds only the default style.
func NewStyleTable() *StyleTable {
	t := &StyleTable{}
	t.init()
	return t
}

func (t *StyleTable) init() {
	if t.ids != nil {
		return
	}
	t.ids = map[Style]StyleID{}
	for i, s := range t.styles {
		t.ids[s] = StyleID(i)
	}
	if len(t.styles) == 0 {
		t.styles = append(t.styles, Style{})
		t.ids[Style{}] = DefaultStyle
	}
}

// Intern returns the id of s, allocating the next id when no equal style
// has been interned before.
func (t *StyleTable) Intern(s Style) StyleID {
	t.init()
	if id, ok := t.ids[s]; ok {
		return id
	}
	id := StyleID(len(t.styles))
	t.styles = append(t.styles, s)
	t.ids[s] = id
	return id
}

// Lookup returns the style registered under id.
func (t *StyleTable) Lookup(id StyleID) (Style, bool) {
	t.init()
	if id < 0 || int(id) >= len(t.styles) {
		return Style{}, false
	}
	return t.styles[id], true
}

// Len returns the number of distinct styles, the default included.
func (t *StyleTable) Len() int {
	t.init()
	return len(t.styles)
}
