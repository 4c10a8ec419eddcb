package intake

import (
	"errors"
	"fmt"
)

// ErrNoFile is returned when a file is required but none was chosen
var ErrNoFile = errors.New("no file selected")

// Reason tells why a candidate was rejected
type Reason string

const (
	// ReasonMediaType means the declared media type is not JSON
	ReasonMediaType Reason = "media_type"

	// ReasonTooLarge means the file exceeds the size limit
	ReasonTooLarge Reason = "too_large"
)

// Error describes a rejected candidate
type Error struct {
	Reason    Reason `json:"reason"`
	Name      string `json:"name"`
	MediaType string `json:"media_type,omitempty"`
	Size      int64  `json:"size,omitempty"`
	Limit     int64  `json:"limit,omitempty"`
}

func (e *Error) Error() string {
	switch e.Reason {
	case ReasonTooLarge:
		return fmt.Sprintf("file %q is %d bytes, limit is %d", e.Name, e.Size, e.Limit)
	default:
		mediaType := e.MediaType
		if mediaType == "" {
			mediaType = "unknown"
		}
		return fmt.Sprintf("file %q has media type %s, want %s", e.Name, mediaType, MediaTypeJSON)
	}
}

// Is matches another *Error with the same reason
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Reason == t.Reason
	}
	return false
}

// Validator decides whether a candidate may become the selected file
type Validator struct {
	// MaxSize is the size limit in bytes; zero or negative disables the check
	MaxSize int64
}

// NewValidator returns a validator enforcing maxSize
func NewValidator(maxSize int64) *Validator {
	return &Validator{MaxSize: maxSize}
}

// Validate accepts the candidate only if its declared media type is exactly
// application/json and it fits the size limit.
func (v *Validator) Validate(candidate *File) error {
	if candidate == nil {
		return ErrNoFile
	}
	if candidate.MediaType != MediaTypeJSON {
		return &Error{Reason: ReasonMediaType, Name: candidate.Name, MediaType: candidate.MediaType}
	}
	if v.MaxSize > 0 && candidate.Size > v.MaxSize {
		return &Error{Reason: ReasonTooLarge, Name: candidate.Name, Size: candidate.Size, Limit: v.MaxSize}
	}
	return nil
}

// IsMediaTypeError reports whether err is a media type rejection
func IsMediaTypeError(err error) bool {
	return errors.Is(err, &Error{Reason: ReasonMediaType})
}

// IsTooLargeError reports whether err is a size rejection
func IsTooLargeError(err error) bool {
	return errors.Is(err, &Error{Reason: ReasonTooLarge})
}

// FormatSize renders a byte count the way the upload hint does ("5MB")
func FormatSize(n int64) string {
	const mb = 1 << 20
	const kb = 1 << 10
	switch {
	case n >= mb && n%mb == 0:
		return fmt.Sprintf("%dMB", n/mb)
	case n >= mb:
		return fmt.Sprintf("%.1fMB", float64(n)/mb)
	case n >= kb:
		return fmt.Sprintf("%dKB", n/kb)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
