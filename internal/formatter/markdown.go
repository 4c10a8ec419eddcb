package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/SysSecura/internal/predict"
)

// markdownFormatter formats results as a Markdown report
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(records []predict.Record) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Analysis Results\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	f.writeSummaryTable(&b, predict.Summarize(records))

	if len(records) > 0 {
		f.writeResultsTable(&b, BuildRows(records))
	}

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, summary predict.Summary) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	b.WriteString(fmt.Sprintf("| Records | %d |\n", summary.Total))
	b.WriteString(fmt.Sprintf("| Flagged | %d |\n", summary.Flagged))
	b.WriteString(fmt.Sprintf("| Normal | %d |\n\n", summary.Normal))
}

func (f *markdownFormatter) writeResultsTable(b *strings.Builder, rows []Row) {
	b.WriteString("## Records\n\n")
	b.WriteString("| " + strings.Join(Headers, " | ") + " |\n")
	b.WriteString(strings.Repeat("|---", len(Headers)) + "|\n")

	for _, row := range rows {
		cells := row.Cells()
		for i := range cells {
			cells[i] = escapeMarkdownCell(cells[i])
		}
		status := cells[len(cells)-1]
		if row.Alert {
			status = "**" + status + "**"
		}
		cells[len(cells)-1] = row.Icon() + " " + status
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
}

func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
