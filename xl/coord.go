package xl

import (
	"fmt"
	"strconv"
	"strings"
)

// Worksheet limits of the OOXML spreadsheet format.
const (
	MaxColumns = 16384
	MaxRows    = 1_048_576
)

// ColumnNumberAsLetters converts a 1-based column number into its column
// letters: 1 -> "A", 27 -> "AA". It panics on n < 1.
func ColumnNumberAsLetters(n int) string {
	if n < 1 {
		panic("invalid column number")
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte((n-1)%26 + 'A')
		n = (n - 1) / 26
	}
	return string(buf[i:])
}

// CellCoordAsString formats a 1-based column/row pair as an A1 reference.
func CellCoordAsString(col, row int) string {
	if row < 0 {
		panic("invalid row number")
	}
	return ColumnNumberAsLetters(col) + strconv.Itoa(row)
}

// CheckCoord reports ErrInvalidCoordinate when row or col is outside
// the 1-based worksheet bounds.
func CheckCoord(row, col int) error {
	if row < 1 || row > MaxRows {
		return fmt.Errorf("%w: row %d out of range 1..%d", ErrInvalidCoordinate, row, MaxRows)
	}
	if col < 1 || col > MaxColumns {
		return fmt.Errorf("%w: column %d out of range 1..%d", ErrInvalidCoordinate, col, MaxColumns)
	}
	return nil
}

// ParseCellCoord parses an A1 reference; "$" markers are accepted and
// ignored. It returns 1-based column and row.
func ParseCellCoord(ref string) (col, row int, err error) {
	s := strings.ReplaceAll(ref, "$", "")
	i := 0
	for i < len(s) && isLetter(s[i]) {
		col = col*26 + int(upper(s[i])-'A'+1)
		if col > MaxColumns {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, ref)
		}
		i++
	}
	if i == 0 || i == len(s) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, ref)
	}
	row, err = strconv.Atoi(s[i:])
	if err != nil || s[i] == '+' || s[i] == '-' {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, ref)
	}
	if err = CheckCoord(row, col); err != nil {
		return 0, 0, err
	}
	return col, row, nil
}

// Range is a rectangular block of cells, inclusive on both ends.
type Range struct {
	FromRow, FromCol int
	ToRow, ToCol     int
}

func (r Range) validate() error {
	if err := CheckCoord(r.FromRow, r.FromCol); err != nil {
		return err
	}
	if err := CheckCoord(r.ToRow, r.ToCol); err != nil {
		return err
	}
	if r.FromRow > r.ToRow || r.FromCol > r.ToCol {
		return fmt.Errorf("%w: inverted range %s", ErrInvalidCoordinate, r.String())
	}
	return nil
}

// String returns the range in A1:B2 notation.
func (r Range) String() string {
	return coordLabel(r.FromCol, r.FromRow) + ":" + coordLabel(r.ToCol, r.ToRow)
}

// absolute returns the range as $A$1:$B$2.
func (r Range) absolute() string {
	return "$" + ColumnNumberAsLetters(r.FromCol) + "$" + strconv.Itoa(r.FromRow) +
		":$" + ColumnNumberAsLetters(r.ToCol) + "$" + strconv.Itoa(r.ToRow)
}

func isLetter(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
