package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/SysSecura/internal/emoji"
	"github.com/yildizm/SysSecura/internal/predict"
)

// StatsCard represents a statistics card component
type StatsCard struct {
	Title       string
	Value       string
	Description string
	Status      string // "success", "warning", "error", "info"
	Icon        string
	Width       int
	Height      int
}

// NewStatsCard creates a new stats card
func NewStatsCard(title, value, description string) *StatsCard {
	return &StatsCard{
		Title:       title,
		Value:       value,
		Description: description,
		Status:      "info",
		Width:       20,
		Height:      4,
	}
}

// SetStatus sets the status color of the card
func (s *StatsCard) SetStatus(status string) *StatsCard {
	s.Status = status
	return s
}

// SetIcon sets the icon for the card
func (s *StatsCard) SetIcon(icon string) *StatsCard {
	s.Icon = icon
	return s
}

// SetSize sets the size of the card
func (s *StatsCard) SetSize(width, height int) *StatsCard {
	s.Width = width
	s.Height = height
	return s
}

// Render renders the stats card
func (s *StatsCard) Render() string {
	infoColor := lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	bodyColor := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

	var valueColor lipgloss.TerminalColor
	switch s.Status {
	case "success":
		valueColor = lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"}
	case "warning":
		valueColor = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"}
	case "error":
		valueColor = lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"}
	case "info":
		valueColor = infoColor
	default:
		valueColor = bodyColor
	}

	titleStyle := lipgloss.NewStyle().Foreground(infoColor).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(bodyColor)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(bodyColor).Padding(0, 1)

	title := titleStyle.Render(s.Title)
	if s.Icon != "" {
		title = s.Icon + " " + title
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		lipgloss.NewStyle().Foreground(valueColor).Bold(true).Render(s.Value),
		mutedStyle.Render(s.Description),
	)

	return boxStyle.
		Width(s.Width).
		Height(s.Height).
		Render(content)
}

// StatsDashboard lays stats cards out in rows
type StatsDashboard struct {
	cards      []*StatsCard
	columns    int
	cardWidth  int
	cardHeight int
}

// NewStatsDashboard creates a new stats dashboard
func NewStatsDashboard(columns int) *StatsDashboard {
	if columns < 1 {
		columns = 1
	}
	return &StatsDashboard{
		columns:    columns,
		cardWidth:  20,
		cardHeight: 3,
	}
}

// AddCard adds a stats card to the dashboard
func (d *StatsDashboard) AddCard(card *StatsCard) {
	card.SetSize(d.cardWidth, d.cardHeight)
	d.cards = append(d.cards, card)
}

// Len returns the number of cards
func (d *StatsDashboard) Len() int {
	return len(d.cards)
}

// Render renders the stats dashboard
func (d *StatsDashboard) Render() string {
	if len(d.cards) == 0 {
		return ""
	}

	var rows []string
	for i := 0; i < len(d.cards); i += d.columns {
		end := min(i+d.columns, len(d.cards))

		rowCards := make([]string, 0, end-i)
		for _, card := range d.cards[i:end] {
			rowCards = append(rowCards, card.Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowCards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// NewSummaryDashboard builds the records / flagged / normal cards for a result set
func NewSummaryDashboard(summary predict.Summary) *StatsDashboard {
	dashboard := NewStatsDashboard(3)

	dashboard.AddCard(NewStatsCard("Records", formatNumber(summary.Total), "analyzed").
		SetIcon(emoji.GetEmoji("results")))

	flagged := NewStatsCard("Flagged", formatNumber(summary.Flagged), flaggedDescription(summary)).
		SetIcon(emoji.GetEmoji("alert")).
		SetStatus("success")
	if summary.Flagged > 0 {
		flagged.SetStatus("error")
	}
	dashboard.AddCard(flagged)

	dashboard.AddCard(NewStatsCard("Normal", formatNumber(summary.Normal), "no anomaly").
		SetIcon(emoji.GetEmoji("shield")).
		SetStatus("success"))

	return dashboard
}

func flaggedDescription(summary predict.Summary) string {
	if summary.Total == 0 {
		return "of 0"
	}
	return fmt.Sprintf("%.1f%% of records", float64(summary.Flagged)/float64(summary.Total)*100)
}

// formatNumber groups thousands with commas
func formatNumber(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
