package xl

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Cell is a single populated coordinate of a sheet.
type Cell struct {
	Row    int // 1-based
	Column int // 1-based
	Value  Value
	Style  StyleID
}

// Coord returns the A1 reference of the cell.
func (c *Cell) Coord() string {
	return CellCoordAsString(c.Column, c.Row)
}

// CellType is the type of cell value type.
type CellType int

// Cell value types enumeration.
const (
	CellTypeUnset CellType = iota
	CellTypeBool
	CellTypeDate
	CellTypeError
	CellTypeFormula
	CellTypeNumber
	CellTypeSharedString
)

func (t CellType) String() string {
	switch t {
	case CellTypeUnset:
		return "empty"
	case CellTypeBool:
		return "bool"
	case CellTypeDate:
		return "date"
	case CellTypeError:
		return "error"
	case CellTypeFormula:
		return "formula"
	case CellTypeNumber:
		return "number"
	case CellTypeSharedString:
		return "text"
	}
	return "CellType(" + strconv.Itoa(int(t)) + ")"
}

// Value is the content of a cell. The zero Value is empty.
//
// Formula values keep the expression verbatim and may carry a cached
// result which is written as the cell's last computed value; nothing is
// ever evaluated.
type Value struct {
	typ     CellType
	num     float64
	str     string
	formula string
	cached  CellType // result type of a formula, CellTypeUnset if none
}

// Empty returns the empty value.
func Empty() Value { return Value{} }

// Number returns a numeric value.
func Number(v float64) Value { return Value{typ: CellTypeNumber, num: v} }

// Int returns a numeric value from an integer.
func Int(v int64) Value { return Value{typ: CellTypeNumber, num: float64(v)} }

// Text returns a string value, stored in the shared string table.
func Text(s string) Value { return Value{typ: CellTypeSharedString, str: s} }

// Bool returns a boolean value.
func Bool(v bool) Value {
	if v {
		return Value{typ: CellTypeBool, num: 1}
	}
	return Value{typ: CellTypeBool}
}

// DateSerial returns a date value from a 1900-system serial number.
func DateSerial(serial float64) Value { return Value{typ: CellTypeDate, num: serial} }

// DateTime returns a date value. The wall clock of t is used, its
// location is ignored. Times before 1900-01-01 produce an invalid value
// that SetCell rejects.
func DateTime(t time.Time) Value {
	serial, ok := TimeToSerial(t)
	if !ok {
		return Value{typ: CellTypeDate, num: math.NaN()}
	}
	return DateSerial(serial)
}

// ErrorValue returns an error literal such as "#N/A" or "#DIV/0!".
func ErrorValue(code string) Value { return Value{typ: CellTypeError, str: code} }

// Formula returns a formula value with no cached result. A leading '='
// is dropped.
func Formula(expr string) Value {
	return Value{typ: CellTypeFormula, formula: strings.TrimPrefix(expr, "=")}
}

// FormulaWithResult returns a formula value that carries a cached result.
// Formula and empty results are ignored.
func FormulaWithResult(expr string, result Value) Value {
	v := Formula(expr)
	switch result.typ {
	case CellTypeNumber, CellTypeDate, CellTypeBool, CellTypeSharedString, CellTypeError:
		v.cached = result.typ
		v.num = result.num
		v.str = result.str
	}
	return v
}

// Type reports the active variant.
func (v Value) Type() CellType { return v.typ }

// IsEmpty reports whether v is the empty value.
func (v Value) IsEmpty() bool { return v.typ == CellTypeUnset }

// Float returns the numeric payload of number, date and bool values, and
// the cached numeric result of formulas.
func (v Value) Float() float64 { return v.num }

// Str returns the string payload of text and error values, and the cached
// string result of formulas.
func (v Value) Str() string { return v.str }

// Bool reports the payload of a boolean value.
func (v Value) Bool() bool { return v.num != 0 }

// FormulaText returns the formula expression without the leading '='.
func (v Value) FormulaText() string { return v.formula }

// Cached returns the cached result of a formula value; ok is false when
// v is not a formula or carries no result.
func (v Value) Cached() (result Value, ok bool) {
	if v.typ != CellTypeFormula || v.cached == CellTypeUnset {
		return Value{}, false
	}
	return Value{typ: v.cached, num: v.num, str: v.str}, true
}

// String renders the value the way it is displayed without number
// formatting; formulas render as "=expr".
func (v Value) String() string {
	switch v.typ {
	case CellTypeNumber, CellTypeDate:
		return formatFloat(v.num)
	case CellTypeBool:
		if v.Bool() {
			return "TRUE"
		}
		return "FALSE"
	case CellTypeSharedString, CellTypeError:
		return v.str
	case CellTypeFormula:
		return "=" + v.formula
	}
	return ""
}

func (v Value) validate() error {
	switch v.typ {
	case CellTypeNumber, CellTypeDate:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return fmt.Errorf("%w: %s %v", ErrInvalidValue, v.typ, v.num)
		}
		if v.typ == CellTypeDate && v.num < 0 {
			return fmt.Errorf("%w: negative date serial %v", ErrInvalidValue, v.num)
		}
	case CellTypeError:
		if !strings.HasPrefix(v.str, "#") {
			return fmt.Errorf("%w: error literal %q", ErrInvalidValue, v.str)
		}
	case CellTypeFormula:
		if v.formula == "" {
			return fmt.Errorf("%w: empty formula", ErrInvalidValue)
		}
		if hasControlChar(v.formula) {
			return fmt.Errorf("%w: control character in formula %q", ErrInvalidValue, v.formula)
		}
		return checkFormulaRefs(v.formula)
	}
	return nil
}

func formatFloat(f float64) string {
	if a := math.Abs(f); a == 0 || (a >= 1e-4 && a < 1e15) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'E', -1, 64)
}
