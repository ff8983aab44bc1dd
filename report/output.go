package report

import (
	"fmt"
	"io"
)

func (w *Writer) ready() error {
	if w.err != nil {
		return fmt.Errorf("report has errors: %w", w.err)
	}
	return nil
}

// Bytes serializes the workbook.
func (w *Writer) Bytes() ([]byte, error) {
	if err := w.ready(); err != nil {
		return nil, err
	}
	return w.wb.Bytes()
}

// WriteTo serializes the workbook into out. Nothing is written when the
// report or the workbook has errors.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	if err := w.ready(); err != nil {
		return 0, err
	}
	n, err := w.wb.WriteTo(out)
	w.log.Debug("wrote workbook", "bytes", n, "error", err)
	return n, err
}

// Save writes the workbook to path, replacing any existing file only
// after the new one is complete.
func (w *Writer) Save(path string) error {
	if err := w.ready(); err != nil {
		return err
	}
	if err := w.wb.SaveAs(path); err != nil {
		return err
	}
	w.log.Debug("saved workbook", "path", path)
	return nil
}

// SaveTemp writes the workbook to a new temporary file and returns its
// path. The caller owns the file.
func (w *Writer) SaveTemp() (string, error) {
	if err := w.ready(); err != nil {
		return "", err
	}
	path, err := w.wb.SaveTemp()
	if err != nil {
		return "", err
	}
	w.log.Debug("saved workbook", "path", path)
	return path, nil
}
