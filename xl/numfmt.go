package xl

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/nfp"
)

// Built-in number formats every consumer knows by id; they are referenced
// without a numFmt record in styles.xml.
var builtinNumFmts = map[string]int{
	"General":                  0,
	"0":                        1,
	"0.00":                     2,
	"#,##0":                    3,
	"#,##0.00":                 4,
	"0%":                       9,
	"0.00%":                    10,
	"0.00E+00":                 11,
	"# ?/?":                    12,
	"# ??/??":                  13,
	"mm-dd-yy":                 14,
	"d-mmm-yy":                 15,
	"d-mmm":                    16,
	"mmm-yy":                   17,
	"h:mm AM/PM":               18,
	"h:mm:ss AM/PM":            19,
	"h:mm":                     20,
	"h:mm:ss":                  21,
	"m/d/yy h:mm":              22,
	"#,##0 ;(#,##0)":           37,
	"#,##0 ;[Red](#,##0)":      38,
	"#,##0.00;(#,##0.00)":      39,
	"#,##0.00;[Red](#,##0.00)": 40,
	"mm:ss":                    45,
	"[h]:mm:ss":                46,
	"mmss.0":                   47,
	"##0.0E+0":                 48,
	"@":                        49,
}

const (
	firstCustomNumFmt = 164
	maxNumFmtLen      = 255
	dateNumFmtID      = 14
)

// FormatDateBuiltin is the format applied to date cells written without
// a number format.
const FormatDateBuiltin = "mm-dd-yy"

// ValidateNumberFormat checks that a format code is well formed: balanced
// quotes and brackets, no dangling escape, at most four sections.
func ValidateNumberFormat(code string) error {
	if code == "" {
		return nil
	}
	if _, ok := builtinNumFmts[code]; ok {
		return nil
	}
	if utf8.RuneCountInString(code) > maxNumFmtLen {
		return fmt.Errorf("%w: longer than %d characters", ErrMalformedNumberFormat, maxNumFmtLen)
	}
	if hasControlChar(code) {
		return fmt.Errorf("%w: %q has a control character", ErrMalformedNumberFormat, code)
	}
	inQuote, inBracket := false, false
	sections := 1
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case c == '"':
			inQuote = true
		case c == '\\' || c == '_' || c == '*':
			if i == len(code)-1 {
				return fmt.Errorf("%w: %q ends with %q", ErrMalformedNumberFormat, code, c)
			}
			i++
		case c == '[':
			if inBracket {
				return fmt.Errorf("%w: %q has nested '['", ErrMalformedNumberFormat, code)
			}
			inBracket = true
		case c == ']':
			if !inBracket {
				return fmt.Errorf("%w: %q has unmatched ']'", ErrMalformedNumberFormat, code)
			}
			inBracket = false
		case c == ';' && !inBracket:
			sections++
		}
	}
	if inQuote {
		return fmt.Errorf("%w: %q has an unterminated quote", ErrMalformedNumberFormat, code)
	}
	if inBracket {
		return fmt.Errorf("%w: %q has an unterminated '['", ErrMalformedNumberFormat, code)
	}
	if sections > 4 {
		return fmt.Errorf("%w: %q has %d sections, at most 4 allowed", ErrMalformedNumberFormat, code, sections)
	}
	return nil
}

// IsDateFormat reports whether a format code renders numbers as dates or
// times.
func IsDateFormat(code string) bool {
	if code == "" || code == "General" || code == "@" {
		return false
	}
	p := nfp.NumberFormatParser()
	for _, section := range p.Parse(code) {
		for _, tok := range section.Items {
			if tok.TType == nfp.TokenTypeDateTimes || tok.TType == nfp.TokenTypeElapsedDateTimes {
				return true
			}
		}
	}
	return false
}

// builtinNumFmtCode returns the format code of a built-in id.
func builtinNumFmtCode(id int) (string, bool) {
	for code, n := range builtinNumFmts {
		if n == id {
			return code, true
		}
	}
	return "", false
}
