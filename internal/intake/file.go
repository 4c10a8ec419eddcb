// Package intake models the user-selected log file and the rules for accepting it.
package intake

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MediaTypeJSON is the only declared media type accepted for upload
const MediaTypeJSON = "application/json"

// DefaultMaxFileSize is the advertised upload limit (5MB)
const DefaultMaxFileSize int64 = 5 << 20

// File is a selected file: a display name, a declared media type and a way to read it.
// The declared media type is whatever the caller claims; it is never sniffed from content.
type File struct {
	Name      string
	MediaType string
	Size      int64

	open func() (io.ReadCloser, error)
}

// New creates a file backed by an opener
func New(name, mediaType string, size int64, open func() (io.ReadCloser, error)) *File {
	return &File{
		Name:      name,
		MediaType: mediaType,
		Size:      size,
		open:      open,
	}
}

// FromBytes creates a file from in-memory content
func FromBytes(name, mediaType string, data []byte) *File {
	return New(name, mediaType, int64(len(data)), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

// FromPath creates a file for a path on disk. If mediaType is empty it is
// derived from the file extension, the way a browser declares an upload's type.
func FromPath(path, mediaType string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty file path")
	}
	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, must be a file", path)
	}

	if mediaType == "" {
		mediaType = DetectMediaType(cleanPath)
	}

	return New(filepath.Base(cleanPath), mediaType, info.Size(), func() (io.ReadCloser, error) {
		// #nosec G304 - path is chosen by the user on purpose
		return os.Open(cleanPath)
	}), nil
}

// DetectMediaType returns the media type registered for the file extension,
// without parameters. Unknown extensions yield an empty string.
func DetectMediaType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	mediaType := mime.TypeByExtension(ext)
	if mediaType == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		return parsed
	}
	return mediaType
}

// utf8BOM is dropped from the start of the content, as text decoders do
var utf8BOM = []byte("\xEF\xBB\xBF")

// ReadText reads the whole file as UTF-8 text. A leading byte order mark is
// dropped and invalid byte sequences are replaced with U+FFFD rather than
// failing the read.
func (f *File) ReadText() (string, error) {
	if f.open == nil {
		return "", fmt.Errorf("file %q has no content source", f.Name)
	}

	rc, err := f.open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", f.Name, err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return strings.ToValidUTF8(string(data), "�"), nil
	}
	return string(data), nil
}
