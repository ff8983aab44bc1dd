package xl

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SaveAs writes the workbook to path. The package is written to a
// temporary file next to path and renamed over it only after it has been
// fully written and synced; on failure no file is left behind and an
// existing file at path is untouched.
func (wb *Workbook) SaveAs(path string) error {
	blob, err := wb.Bytes()
	if err != nil {
		return err
	}
	return writeFileAtomic(path, blob)
}

func writeFileAtomic(path string, blob []byte) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp := filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		return ioError(err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	_, err = f.Write(blob)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return ioError(err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return ioError(err)
	}
	return nil
}

// SaveTemp writes the workbook to a new file in the system temporary
// directory and returns its path.
func (wb *Workbook) SaveTemp() (string, error) {
	path := filepath.Join(os.TempDir(), uuid.NewString()+".xlsx")
	if err := wb.SaveAs(path); err != nil {
		return "", err
	}
	return path, nil
}

// IsSerializationIO reports whether err is an output failure rather than
// a problem with the workbook content.
func IsSerializationIO(err error) bool {
	return errors.Is(err, ErrSerializationIO)
}
