package xl

import (
	"fmt"
	"strings"
)

// Common colors in ARGB notation.
const (
	ColorBlack  = "FF000000"
	ColorWhite  = "FFFFFFFF"
	ColorRed    = "FFFF0000"
	ColorGreen  = "FF00FF00"
	ColorBlue   = "FF0000FF"
	ColorYellow = "FFFFFF00"
	ColorGray   = "FF808080"
)

// normalizeColor accepts RRGGBB, #RRGGBB and AARRGGBB and returns the
// upper-case ARGB form.
func normalizeColor(c string) (string, error) {
	s := strings.TrimPrefix(c, "#")
	switch len(s) {
	case 6:
		s = "FF" + s
	case 8:
	default:
		return "", fmt.Errorf("%w: %q", ErrMalformedColor, c)
	}
	for i := 0; i < len(s); i++ {
		if !isHex(s[i]) {
			return "", fmt.Errorf("%w: %q", ErrMalformedColor, c)
		}
	}
	return strings.ToUpper(s), nil
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
