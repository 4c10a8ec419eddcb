package formatter

import (
	"fmt"

	"github.com/yildizm/SysSecura/internal/emoji"
	"github.com/yildizm/SysSecura/internal/predict"
)

// Formatter renders a result set
type Formatter interface {
	Format(records []predict.Record) ([]byte, error)
}

// Headers are the result table columns, in display order
var Headers = []string{"User", "PC", "Size", "Attachments", "Status"}

// Row is one rendered result line. Alert is decided solely by the record's
// anomaly flag; Status is the service's label, untouched.
type Row struct {
	User        string
	PC          string
	Size        string
	Attachments string
	Status      string
	Alert       bool
}

// Cells returns the row's values in Headers order
func (r Row) Cells() []string {
	return []string{r.User, r.PC, r.Size, r.Attachments, r.Status}
}

// Icon returns the status icon for the row
func (r Row) Icon() string {
	return emoji.Status(r.Alert)
}

// BuildRows maps records to rows, one per record, in order
func BuildRows(records []predict.Record) []Row {
	rows := make([]Row, 0, len(records))
	for i := range records {
		rec := &records[i]
		rows = append(rows, Row{
			User:        rec.User,
			PC:          rec.PC,
			Size:        rec.Size.Text(),
			Attachments: rec.Attachments.Text(),
			Status:      rec.Status,
			Alert:       rec.IsAnomaly(),
		})
	}
	return rows
}

// New returns the formatter for an output format name
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "", "text":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "csv":
		return NewCSV(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (must be one of: text, json, markdown, csv)", format)
	}
}
