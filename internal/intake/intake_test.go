package intake

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name      string
		candidate *File
		maxSize   int64
		wantErr   error
	}{
		{
			name:      "json accepted",
			candidate: FromBytes("log.json", "application/json", []byte(`[]`)),
			maxSize:   DefaultMaxFileSize,
		},
		{
			name:      "plain text rejected",
			candidate: FromBytes("log.txt", "text/plain", []byte(`[]`)),
			maxSize:   DefaultMaxFileSize,
			wantErr:   &Error{Reason: ReasonMediaType},
		},
		{
			name:      "media type with parameters is not an exact match",
			candidate: FromBytes("log.json", "application/json; charset=utf-8", []byte(`[]`)),
			maxSize:   DefaultMaxFileSize,
			wantErr:   &Error{Reason: ReasonMediaType},
		},
		{
			name:      "empty media type rejected",
			candidate: FromBytes("log", "", []byte(`[]`)),
			maxSize:   DefaultMaxFileSize,
			wantErr:   &Error{Reason: ReasonMediaType},
		},
		{
			name:      "too large rejected",
			candidate: New("big.json", "application/json", DefaultMaxFileSize+1, nil),
			maxSize:   DefaultMaxFileSize,
			wantErr:   &Error{Reason: ReasonTooLarge},
		},
		{
			name:      "size limit disabled",
			candidate: New("big.json", "application/json", DefaultMaxFileSize+1, nil),
			maxSize:   0,
		},
		{
			name:    "nil candidate",
			maxSize: DefaultMaxFileSize,
			wantErr: ErrNoFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidator(tt.maxSize).Validate(tt.candidate)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	err := NewValidator(10).Validate(FromBytes("a.txt", "text/plain", nil))
	if !IsMediaTypeError(err) {
		t.Errorf("Expected media type error, got %v", err)
	}
	if IsTooLargeError(err) {
		t.Error("Media type error should not be a size error")
	}

	err = NewValidator(1).Validate(FromBytes("a.json", "application/json", []byte("[1]")))
	if !IsTooLargeError(err) {
		t.Errorf("Expected size error, got %v", err)
	}
}

func TestDetectMediaType(t *testing.T) {
	tests := map[string]string{
		"log.json":  "application/json",
		"LOG.JSON":  "application/json",
		"notes.txt": "text/plain",
		"noext":     "",
	}
	for name, want := range tests {
		if got := DetectMediaType(name); got != want {
			t.Errorf("DetectMediaType(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.json")
	content := `[{"user":"u1","pc":"pc1"}]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	f, err := FromPath(path, "")
	if err != nil {
		t.Fatalf("FromPath failed: %v", err)
	}
	if f.Name != "log.json" {
		t.Errorf("Expected name 'log.json', got %q", f.Name)
	}
	if f.MediaType != MediaTypeJSON {
		t.Errorf("Expected media type %q, got %q", MediaTypeJSON, f.MediaType)
	}
	if f.Size != int64(len(content)) {
		t.Errorf("Expected size %d, got %d", len(content), f.Size)
	}

	text, err := f.ReadText()
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if text != content {
		t.Errorf("Expected content %q, got %q", content, text)
	}

	override, err := FromPath(path, "text/plain")
	if err != nil {
		t.Fatalf("FromPath with override failed: %v", err)
	}
	if override.MediaType != "text/plain" {
		t.Errorf("Expected overridden media type, got %q", override.MediaType)
	}

	if _, err := FromPath(dir, ""); err == nil {
		t.Error("Expected error for directory")
	}
	if _, err := FromPath(filepath.Join(dir, "missing.json"), ""); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestReadText_Failures(t *testing.T) {
	failing := New("broken.json", MediaTypeJSON, 3, func() (io.ReadCloser, error) {
		return nil, errors.New("permission denied")
	})
	if _, err := failing.ReadText(); err == nil || !strings.Contains(err.Error(), "permission denied") {
		t.Errorf("Expected open error, got %v", err)
	}

	noSource := New("empty.json", MediaTypeJSON, 0, nil)
	if _, err := noSource.ReadText(); err == nil {
		t.Error("Expected error for file without a content source")
	}
}

func TestReadText_StripsByteOrderMark(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"leading mark", "\xEF\xBB\xBF[{\"user\":\"u1\"}]", `[{"user":"u1"}]`},
		{"only the first mark", "\xEF\xBB\xBF\xEF\xBB\xBF[]", "\uFEFF[]"},
		{"mark inside content kept", "[\"\xEF\xBB\xBF\"]", "[\"\uFEFF\"]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := FromBytes("log.json", MediaTypeJSON, []byte(tt.data)).ReadText()
			if err != nil {
				t.Fatalf("ReadText failed: %v", err)
			}
			if text != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, text)
			}
		})
	}
}

func TestReadText_InvalidUTF8(t *testing.T) {
	f := FromBytes("bad.json", MediaTypeJSON, []byte{'"', 0xff, '"'})
	text, err := f.ReadText()
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if text != "\"�\"" {
		t.Errorf("Expected replacement character, got %q", text)
	}
}

func TestFormatSize(t *testing.T) {
	tests := map[int64]string{
		DefaultMaxFileSize: "5MB",
		3 << 19:            "1.5MB",
		2048:               "2KB",
		12:                 "12B",
	}
	for n, want := range tests {
		if got := FormatSize(n); got != want {
			t.Errorf("FormatSize(%d) = %q, want %q", n, got, want)
		}
	}
}
