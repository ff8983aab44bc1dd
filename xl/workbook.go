package xl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

// Workbook is an ordered collection of sheets sharing one style table and
// one string table. A Workbook is not safe for concurrent mutation.
type Workbook struct {
	AppName string
	Creator string
	Title   string
	Created time.Time // written to docProps/core.xml; zero omits it
	Sheets  []*Sheet
	Styles  *StyleTable

	// Compression is the deflate level used for the package, 0 selects
	// the default.
	Compression int

	strings  *SharedStrings
	sheetMap map[string]*Sheet // keyed by lower-cased name
	active   int
}

func NewWorkbook() *Workbook {
	return &Workbook{
		Created:  time.Now().UTC().Truncate(time.Second),
		Styles:   NewStyleTable(),
		strings:  NewSharedStrings(),
		sheetMap: map[string]*Sheet{},
	}
}

func (wb *Workbook) AddSheet(name string) (*Sheet, error) {
	if err := validateSheetName(name); err != nil {
		return nil, sheetError(name, err)
	}

	key := strings.ToLower(name)
	if _, exists := wb.sheetMap[key]; exists {
		return nil, sheetError(name, ErrDuplicateSheetName)
	}

	sheet := &Sheet{
		workbook: wb,
		Name:     name,
		Columns:  map[int]*Column{},
		rows:     map[int]*Row{},
	}

	wb.Sheets = append(wb.Sheets, sheet)
	wb.sheetMap[key] = sheet

	return sheet, nil
}

// Sheet returns the sheet with the given name, compared case-insensitively
// as spreadsheet applications do.
func (wb *Workbook) Sheet(name string) (*Sheet, error) {
	if sh, ok := wb.sheetMap[strings.ToLower(name)]; ok && strings.EqualFold(sh.Name, name) {
		return sh, nil
	}
	// names may have been edited through the exported field
	for _, sh := range wb.Sheets {
		if strings.EqualFold(sh.Name, name) {
			return sh, nil
		}
	}
	return nil, sheetError(name, ErrUnknownSheet)
}

// SheetAt returns the sheet at the 0-based tab index.
func (wb *Workbook) SheetAt(index int) (*Sheet, error) {
	if index < 0 || index >= len(wb.Sheets) {
		return nil, fmt.Errorf("%w: index %d of %d sheets", ErrUnknownSheet, index, len(wb.Sheets))
	}
	return wb.Sheets[index], nil
}

// SheetIndex returns the tab index of sh, or -1.
func (wb *Workbook) SheetIndex(sh *Sheet) int {
	for i, s := range wb.Sheets {
		if s == sh {
			return i
		}
	}
	return -1
}

// SetActiveSheet selects the tab shown when the file is opened.
func (wb *Workbook) SetActiveSheet(index int) error {
	if _, err := wb.SheetAt(index); err != nil {
		return err
	}
	wb.active = index
	return nil
}

// ActiveSheet returns the index of the active tab.
func (wb *Workbook) ActiveSheet() int { return wb.active }

// InternStyle registers s in the workbook style table.
func (wb *Workbook) InternStyle(s Style) StyleID { return wb.Styles.Intern(s) }

// SharedStrings returns the string table of the workbook.
func (wb *Workbook) SharedStrings() *SharedStrings { return wb.strings }

// dateStyle returns a style that displays dates, derived from id.
func (wb *Workbook) dateStyle(id StyleID) StyleID {
	st, ok := wb.Styles.Lookup(id)
	if !ok || st.NumberFormat != "" {
		return id
	}
	st.NumberFormat = FormatDateBuiltin
	return wb.Styles.Intern(st)
}

// Validate runs every check the serializer runs, without producing output.
func (wb *Workbook) Validate() error {
	if len(wb.Sheets) == 0 {
		return fmt.Errorf("%w: workbook has no sheets", ErrUnknownSheet)
	}
	seen := map[string]bool{}
	for _, sh := range wb.Sheets {
		if sh.workbook != wb {
			return sheetError(sh.Name, errors.New("sheet belongs to another workbook"))
		}
		key := strings.ToLower(sh.Name)
		if seen[key] {
			return sheetError(sh.Name, ErrDuplicateSheetName)
		}
		seen[key] = true
		if err := sh.validate(); err != nil {
			return err
		}
	}
	if wb.active < 0 || wb.active >= len(wb.Sheets) {
		return fmt.Errorf("%w: active sheet %d", ErrUnknownSheet, wb.active)
	}
	for id := 0; id < wb.Styles.Len(); id++ {
		st, _ := wb.Styles.Lookup(StyleID(id))
		if err := validateStyle(st); err != nil {
			return fmt.Errorf("style %d: %w", id, err)
		}
	}
	return nil
}

// WriteTo serializes the workbook as an .xlsx package. Nothing is written
// to w unless serialization succeeds as a whole.
func (wb *Workbook) WriteTo(w io.Writer) (int64, error) {
	blob, err := wb.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(blob)
	return int64(n), ioError(err)
}

// Bytes serializes the workbook into memory.
func (wb *Workbook) Bytes() ([]byte, error) {
	var bb bytes.Buffer
	zs := NewZipStorage(&bb)
	zs.SetLevel(wb.Compression)
	if err := NewWriter(zs).Write(wb); err != nil {
		zs.Close()
		return nil, err
	}
	if err := zs.Close(); err != nil {
		return nil, ioError(err)
	}
	return bb.Bytes(), nil
}

func validateSheetName(s string) error {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return fmt.Errorf("%w: empty sheet name is not allowed", ErrInvalidSheetName)
	} else if n > 31 {
		return fmt.Errorf("%w: the sheet name is too long", ErrInvalidSheetName)
	}
	if strings.HasPrefix(s, "'") || strings.HasSuffix(s, "'") {
		return fmt.Errorf("%w: the first or last character of the sheet name can not be a single quote", ErrInvalidSheetName)
	}
	if hasControlChar(s) || strings.ContainsAny(s, "\r\n\t") {
		return fmt.Errorf("%w: control character in sheet name %q", ErrInvalidSheetName, s)
	}
	if strings.ContainsAny(s, ":\\/?*[]") {
		return fmt.Errorf("%w: the sheet can not contain any of the characters :\\/?*[]", ErrInvalidSheetName)
	}
	return nil
}
