package xl

import (
	"fmt"
	"strings"
)

// escapeXString encodes the characters XML 1.0 cannot carry as _xHHHH_,
// the escape spreadsheet consumers decode in ST_Xstring content. A literal
// "_xHHHH_" in s gets its underscore escaped so it survives decoding.
// Carriage returns are escaped too, XML parsers would fold them into LF.
func escapeXString(s string) string {
	if !needsXStringEscape(s) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 16)
	for i, r := range s {
		switch {
		case r == '_' && isXStringEscape(s[i:]):
			sb.WriteString("_x005F")
		case illegalXMLRune(r):
			fmt.Fprintf(&sb, "_x%04X_", r)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func needsXStringEscape(s string) bool {
	for i, r := range s {
		if illegalXMLRune(r) || r == '_' && isXStringEscape(s[i:]) {
			return true
		}
	}
	return false
}

// illegalXMLRune reports runes with no XML 1.0 representation, plus CR
// which parsers fold into LF.
func illegalXMLRune(r rune) bool {
	return r < 0x20 && r != '\t' && r != '\n' || r == 0xFFFE || r == 0xFFFF
}

// isXStringEscape reports whether s starts with _xHHHH_.
func isXStringEscape(s string) bool {
	if len(s) < 7 || s[0] != '_' || s[1] != 'x' || s[6] != '_' {
		return false
	}
	for _, c := range []byte(s[2:6]) {
		if !isHex(c) {
			return false
		}
	}
	return true
}

// hasControlChar reports characters that have no XML 1.0 representation
// and no escape in attribute or formula context.
func hasControlChar(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return r != '\r' && illegalXMLRune(r)
	}) >= 0
}
