// Package localfile reads documents off the local disk for upload.
// The backend only accepts PDFs, so unsupported extensions are rejected here
// before any bytes are read.
package localfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/0xcro3dile/neurosync-go/internal/domain/entities"
)

// Reader loads upload candidates from local paths.
type Reader struct {
	extensions []string
}

// NewReader creates a reader accepting the given extensions.
func NewReader(extensions []string) *Reader {
	if len(extensions) == 0 {
		extensions = []string{".pdf"}
	}
	return &Reader{extensions: extensions}
}

// Read returns the file's bytes and its base name for upload.
func (r *Reader) Read(path string) (data []byte, filename string, err error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !r.supported(ext) {
		return nil, "", &entities.ValidationError{
			Field:  "file",
			Reason: fmt.Sprintf("unsupported type %q, expected one of %s", ext, strings.Join(r.extensions, ", ")),
		}
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return data, filepath.Base(path), nil
}

// SupportedExtensions returns the accepted file extensions.
func (r *Reader) SupportedExtensions() []string {
	exts := make([]string, len(r.extensions))
	copy(exts, r.extensions)
	return exts
}

func (r *Reader) supported(ext string) bool {
	for _, e := range r.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
