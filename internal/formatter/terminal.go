package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/SysSecura/internal/emoji"
	"github.com/yildizm/SysSecura/internal/predict"
)

// Palette holds the colors of the result table
type Palette struct {
	Header    lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
	Normal    lipgloss.TerminalColor
	Alert     lipgloss.TerminalColor
	AlertRow  lipgloss.TerminalColor
	AlertText lipgloss.TerminalColor
}

// DefaultPalette mirrors the web page: red-tinted alert rows, green normal status
var DefaultPalette = Palette{
	Header:    lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"},
	Border:    lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"},
	Normal:    lipgloss.AdaptiveColor{Light: "#059669", Dark: "#4ADE80"},
	Alert:     lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"},
	AlertRow:  lipgloss.AdaptiveColor{Light: "#FEE2E2", Dark: "#450A0A"},
	AlertText: lipgloss.AdaptiveColor{Light: "#7F1D1D", Dark: "#FECACA"},
}

// terminalFormatter renders a styled table followed by a summary tree
type terminalFormatter struct {
	color   bool
	palette Palette
	opts    *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{color: color, palette: DefaultPalette, opts: opts}
}

func (f *terminalFormatter) Format(records []predict.Record) ([]byte, error) {
	if len(records) == 0 {
		return nil, nil
	}

	var b strings.Builder
	b.WriteString(RenderTable(BuildRows(records), f.palette, f.color))
	b.WriteString("\n\n")
	f.writeSummary(&b, predict.Summarize(records))
	return []byte(b.String()), nil
}

// RenderTable draws the result rows as a bordered table. With color off the
// alert treatment falls back to the status icon alone.
func RenderTable(rows []Row, palette Palette, color bool) string {
	if len(rows) == 0 {
		return ""
	}

	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := row.Cells()
		cells[len(cells)-1] = row.Icon() + " " + row.Status
		data = append(data, cells)
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	statusCol := len(Headers) - 1

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(Headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if !color {
				if row == table.HeaderRow {
					return cell.Bold(true)
				}
				return cell
			}
			if row == table.HeaderRow {
				return cell.Bold(true).Foreground(palette.Header)
			}
			if row < 0 || row >= len(rows) {
				return cell
			}

			style := cell
			if rows[row].Alert {
				style = style.Background(palette.AlertRow).Foreground(palette.AlertText)
				if col == statusCol {
					style = style.Bold(true).Foreground(palette.Alert)
				}
				return style
			}
			if col == statusCol {
				style = style.Bold(true).Foreground(palette.Normal)
			}
			return style
		})

	if color {
		t = t.BorderStyle(lipgloss.NewStyle().Foreground(palette.Border))
	}

	return t.String()
}

func (f *terminalFormatter) writeSummary(b *strings.Builder, summary predict.Summary) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Summary\n")

	items := []termfmt.TreeItem{
		{Label: "Records", Value: fmt.Sprintf("%d", summary.Total)},
		{Label: "Flagged", Value: fmt.Sprintf("%d (%.1f%%)", summary.Flagged, percent(summary.Flagged, summary.Total))},
		{Label: "Normal", Value: fmt.Sprintf("%d", summary.Normal), Last: true},
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts))
	b.WriteString("\n")
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
