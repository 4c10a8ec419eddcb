package formatter

import (
	"encoding/json"
	"time"

	"github.com/yildizm/SysSecura/internal/predict"
)

// jsonFormatter emits the records as received plus a summary
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

type jsonOutput struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Summary     predict.Summary  `json:"summary"`
	Results     []predict.Record `json:"results"`
}

func (f *jsonFormatter) Format(records []predict.Record) ([]byte, error) {
	if records == nil {
		records = []predict.Record{}
	}
	output := jsonOutput{
		GeneratedAt: time.Now(),
		Summary:     predict.Summarize(records),
		Results:     records,
	}
	return json.MarshalIndent(output, "", "  ")
}
