// Package filex handles the local file I/O boundary for uploads: reading an
// attachment from disk, enforcing a size limit, and sniffing its content type.
package filex

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// ErrTooLarge is returned when a file exceeds the limit passed to
// LoadAttachment. Callers format the user-facing message.
var ErrTooLarge = errors.New("file too large")

// Attachment is an in-memory file ready to be packaged as a multipart part.
type Attachment struct {
	// Name is the base file name (no directory components).
	Name string
	// ContentType is sniffed from the first bytes of the file.
	ContentType string
	Data        []byte
}

// LoadAttachment reads the file at path into memory. If maxSize > 0 and the
// file is larger, ErrTooLarge is returned before any read happens.
func LoadAttachment(path string, maxSize int64) (*Attachment, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if maxSize > 0 && fi.Size() > maxSize {
		return nil, fmt.Errorf("%s is %d bytes: %w", filepath.Base(path), fi.Size(), ErrTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &Attachment{
		Name:        filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}
