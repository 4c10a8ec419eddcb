package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/yildizm/SysSecura/internal/predict"
)

// csvFormatter formats results as CSV
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

func (f *csvFormatter) Format(records []predict.Record) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	headers := append(append([]string{}, Headers...), "Anomaly")
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range BuildRows(records) {
		cells := row.Cells()
		for i := range cells {
			cells[i] = escapeCSVString(cells[i])
		}
		anomaly := "0"
		if row.Alert {
			anomaly = "1"
		}
		if err := writer.Write(append(cells, anomaly)); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}

// escapeCSVString flattens newlines so every record stays on one line
func escapeCSVString(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
