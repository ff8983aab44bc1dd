package xl

// Font represents font formatting properties for cell content.
// These properties correspond to the OpenXML font element as defined in ECMA-376.
type Font struct {
	Family        string        // Font name (empty = use default Calibri)
	Size          float64       // Font size in points (0 = use default of 11)
	Bold          bool          // Bold text
	Italic        bool          // Italic text
	Underline     UnderlineType // Underline style
	Strikethrough bool          // Strikethrough text
	Color         string        // RGB or ARGB hex, empty = automatic
}

// UnderlineType represents the type of underline formatting.
type UnderlineType string

// Underline type constants as defined in ECMA-376 (ST_UnderlineValues).
const (
	UnderlineNone             UnderlineType = ""                 // No underline (default)
	UnderlineSingle           UnderlineType = "single"           // Single underline
	UnderlineDouble           UnderlineType = "double"           // Double underline
	UnderlineSingleAccounting UnderlineType = "singleAccounting" // Single accounting underline
	UnderlineDoubleAccounting UnderlineType = "doubleAccounting" // Double accounting underline
)

const (
	defaultFontFamily = "Calibri"
	defaultFontSize   = 11
)

// IsDefault returns true if the font uses all default properties.
func (f *Font) IsDefault() bool {
	return *f == Font{}
}

// merge returns f with every non-zero field of o applied on top.
func (f Font) merge(o Font) Font {
	if o.Family != "" {
		f.Family = o.Family
	}
	if o.Size != 0 {
		f.Size = o.Size
	}
	f.Bold = f.Bold || o.Bold
	f.Italic = f.Italic || o.Italic
	if o.Underline != UnderlineNone {
		f.Underline = o.Underline
	}
	f.Strikethrough = f.Strikethrough || o.Strikethrough
	if o.Color != "" {
		f.Color = o.Color
	}
	return f
}

func (f Font) family() string {
	if f.Family == "" {
		return defaultFontFamily
	}
	return f.Family
}

func (f Font) size() float64 {
	if f.Size <= 0 {
		return defaultFontSize
	}
	return f.Size
}
