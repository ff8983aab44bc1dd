package xl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// Storage receives the package parts produced by the serializer. Paths are
// absolute part names such as "/xl/workbook.xml".
type Storage interface {
	WriteBlob(path string, blob []byte) error
}

// ZipStorage packs parts into a zip container, i.e. an .xlsx file.
// Entries carry no modification time so equal workbooks produce equal
// bytes.
type ZipStorage struct {
	z     *zip.Writer
	names map[string]bool
}

// NewZipStorage returns a ZipStorage writing to out. Close must be called
// once all parts are written.
func NewZipStorage(out io.Writer) *ZipStorage {
	return &ZipStorage{z: zip.NewWriter(out), names: map[string]bool{}}
}

// SetLevel selects the deflate level (1..9, -1 default, -2 huffman only)
// for the parts written after the call. 0 leaves the default.
func (zs *ZipStorage) SetLevel(level int) {
	if level == 0 {
		return
	}
	zs.z.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})
}

// WriteBlob adds one part. Writing the same part twice is an error.
func (zs *ZipStorage) WriteBlob(path string, blob []byte) error {
	name := partName(path)
	if zs.names[name] {
		return fmt.Errorf("duplicate part %s", name)
	}
	zs.names[name] = true
	f, err := zs.z.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = f.Write(blob)
	return err
}

// Close writes the zip central directory.
func (zs *ZipStorage) Close() error {
	return zs.z.Close()
}

// DirStorage writes every part as a plain file below Dir, which makes the
// generated XML easy to inspect.
type DirStorage struct {
	Dir string
}

// NewDirStorage returns a DirStorage rooted at dir; missing directories
// are created on demand.
func NewDirStorage(dir string) *DirStorage {
	return &DirStorage{Dir: dir}
}

func (ds *DirStorage) WriteBlob(path string, blob []byte) error {
	fn := filepath.Join(ds.Dir, filepath.FromSlash(partName(path)))
	if err := os.MkdirAll(filepath.Dir(fn), 0777); err != nil {
		return err
	}
	return os.WriteFile(fn, blob, 0666)
}

func partName(path string) string {
	return strings.TrimPrefix(path, "/")
}
