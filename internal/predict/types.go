// Package predict talks to the remote prediction endpoint.
package predict

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a raw JSON value from a result record, kept exactly as received
type Value json.RawMessage

// Text renders the value for display: strings unquoted, numbers in plain
// decimal form, null or missing as empty, anything else as compact JSON.
func (v Value) Text() string {
	raw := bytes.TrimSpace(v)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case '{', '[':
		var b bytes.Buffer
		if err := json.Compact(&b, raw); err == nil {
			return b.String()
		}
	default:
		if f, ok := v.Number(); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return string(raw)
}

// Number returns the value as a float64 if it is a JSON number
func (v Value) Number() (float64, bool) {
	raw := bytes.TrimSpace(v)
	if len(raw) == 0 {
		return 0, false
	}
	if raw[0] != '-' && (raw[0] < '0' || raw[0] > '9') {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// MarshalJSON emits the raw value, or null when empty
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return []byte(v), nil
}

// UnmarshalJSON stores a copy of the raw value
func (v *Value) UnmarshalJSON(data []byte) error {
	*v = append((*v)[0:0], data...)
	return nil
}

// Record is one classified log record returned by the prediction service.
// Status is an opaque label chosen by the service and is never derived locally.
type Record struct {
	User        string `json:"user"`
	PC          string `json:"pc"`
	Size        Value  `json:"size"`
	Attachments Value  `json:"attachments"`
	Anomaly     Value  `json:"anomaly"`
	Status      string `json:"status"`

	// Raw is the complete record as received, including fields not listed above
	Raw json.RawMessage `json:"-"`
}

// IsAnomaly reports whether the service flagged the record. Only the number 1 counts.
func (r *Record) IsAnomaly() bool {
	f, ok := r.Anomaly.Number()
	return ok && f == 1
}

// UnmarshalJSON decodes a record object, tolerating unexpected field types
func (r *Record) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("result record must be a JSON object, got %s", describeJSON(trimmed))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return err
	}

	*r = Record{
		User:        Value(fields["user"]).Text(),
		PC:          Value(fields["pc"]).Text(),
		Size:        Value(fields["size"]),
		Attachments: Value(fields["attachments"]),
		Anomaly:     Value(fields["anomaly"]),
		Status:      Value(fields["status"]).Text(),
		Raw:         append(json.RawMessage(nil), trimmed...),
	}
	return nil
}

// MarshalJSON re-emits the record as received when possible
func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	type plain Record
	return json.Marshal(plain(r))
}

// Summary counts flagged and normal records
type Summary struct {
	Total   int `json:"total"`
	Flagged int `json:"flagged"`
	Normal  int `json:"normal"`
}

// Summarize counts the records by anomaly flag
func Summarize(records []Record) Summary {
	s := Summary{Total: len(records)}
	for i := range records {
		if records[i].IsAnomaly() {
			s.Flagged++
		}
	}
	s.Normal = s.Total - s.Flagged
	return s
}

func describeJSON(raw []byte) string {
	if len(raw) == 0 {
		return "nothing"
	}
	switch raw[0] {
	case '{':
		return "an object"
	case '[':
		return "an array"
	case '"':
		return "a string"
	case 't', 'f':
		return "a boolean"
	case 'n':
		return "null"
	default:
		return "a number"
	}
}
