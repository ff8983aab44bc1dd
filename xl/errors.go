package xl

import (
	"errors"
	"fmt"
)

// Error kinds reported by the workbook model and the serializer. Use
// errors.Is to test for them; located failures are wrapped in *CellError.
var (
	ErrInvalidCoordinate     = errors.New("invalid coordinate")
	ErrInvalidSheetName      = errors.New("invalid sheet name")
	ErrDuplicateSheetName    = errors.New("duplicate sheet name")
	ErrUnknownSheet          = errors.New("unknown sheet reference")
	ErrDanglingStyle         = errors.New("dangling style reference")
	ErrSerializationIO       = errors.New("serialization i/o failure")
	ErrMalformedNumberFormat = errors.New("malformed number format")
	ErrMalformedColor        = errors.New("malformed color")
	ErrInvalidValue          = errors.New("invalid cell value")
)

// CellError identifies the sheet and, when known, the cell that caused a
// failure.
type CellError struct {
	Sheet string
	Cell  string // A1-style reference, empty for sheet-level errors
	Err   error
}

func (e *CellError) Error() string {
	switch {
	case e.Sheet == "" && e.Cell == "":
		return e.Err.Error()
	case e.Cell == "":
		return fmt.Sprintf("sheet '%s': %v", e.Sheet, e.Err)
	case e.Sheet == "":
		return fmt.Sprintf("cell %s: %v", e.Cell, e.Err)
	}
	return fmt.Sprintf("sheet '%s' cell %s: %v", e.Sheet, e.Cell, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

func sheetError(sheet string, err error) error {
	return &CellError{Sheet: sheet, Err: err}
}

func cellError(sheet string, row, col int, err error) error {
	return &CellError{Sheet: sheet, Cell: coordLabel(col, row), Err: err}
}

// coordLabel is CellCoordAsString that tolerates out-of-range input, for
// use in error messages.
func coordLabel(col, row int) string {
	if col < 1 || col > MaxColumns || row < 1 {
		return fmt.Sprintf("R%dC%d", row, col)
	}
	return CellCoordAsString(col, row)
}

func ioError(err error) error {
	if err == nil || errors.Is(err, ErrSerializationIO) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrSerializationIO, err)
}
