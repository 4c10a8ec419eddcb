package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/SysSecura/internal/formatter"
)

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor

	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor

	Border     lipgloss.AdaptiveColor
	Foreground lipgloss.AdaptiveColor
	Muted      lipgloss.AdaptiveColor

	// result rows flagged as anomalous
	AlertRow  lipgloss.AdaptiveColor
	AlertText lipgloss.AdaptiveColor
}

func buildTheme(name string, primary, secondary, success, warning, errorColor, border, foreground, muted, alertRow, alertText [2]string) Theme {
	return Theme{
		Name:       name,
		Primary:    lipgloss.AdaptiveColor{Light: primary[0], Dark: primary[1]},
		Secondary:  lipgloss.AdaptiveColor{Light: secondary[0], Dark: secondary[1]},
		Success:    lipgloss.AdaptiveColor{Light: success[0], Dark: success[1]},
		Warning:    lipgloss.AdaptiveColor{Light: warning[0], Dark: warning[1]},
		Error:      lipgloss.AdaptiveColor{Light: errorColor[0], Dark: errorColor[1]},
		Border:     lipgloss.AdaptiveColor{Light: border[0], Dark: border[1]},
		Foreground: lipgloss.AdaptiveColor{Light: foreground[0], Dark: foreground[1]},
		Muted:      lipgloss.AdaptiveColor{Light: muted[0], Dark: muted[1]},
		AlertRow:   lipgloss.AdaptiveColor{Light: alertRow[0], Dark: alertRow[1]},
		AlertText:  lipgloss.AdaptiveColor{Light: alertText[0], Dark: alertText[1]},
	}
}

// Available themes
var (
	DefaultTheme = buildTheme("default",
		[2]string{"#1E40AF", "#3B82F6"}, [2]string{"#6B7280", "#9CA3AF"},
		[2]string{"#059669", "#10B981"}, [2]string{"#D97706", "#F59E0B"}, [2]string{"#DC2626", "#EF4444"},
		[2]string{"#D1D5DB", "#374151"}, [2]string{"#111827", "#F9FAFB"}, [2]string{"#6B7280", "#9CA3AF"},
		[2]string{"#FEE2E2", "#450A0A"}, [2]string{"#7F1D1D", "#FECACA"})

	HighContrastTheme = buildTheme("high-contrast",
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"},
		[2]string{"#006600", "#00FF00"}, [2]string{"#CC6600", "#FFAA00"}, [2]string{"#CC0000", "#FF4444"},
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"},
		[2]string{"#FFCCCC", "#660000"}, [2]string{"#000000", "#FFFFFF"})

	MinimalTheme = buildTheme("minimal",
		[2]string{"#2D3748", "#E2E8F0"}, [2]string{"#718096", "#A0AEC0"},
		[2]string{"#2F855A", "#68D391"}, [2]string{"#C05621", "#F6AD55"}, [2]string{"#C53030", "#FC8181"},
		[2]string{"#E2E8F0", "#2D3748"}, [2]string{"#2D3748", "#F7FAFC"}, [2]string{"#A0AEC0", "#718096"},
		[2]string{"#FFF5F5", "#3B1414"}, [2]string{"#742A2A", "#FED7D7"})
)

var currentTheme = DefaultTheme

// GetTheme returns the current active theme
func GetTheme() Theme {
	return currentTheme
}

// SetThemeByName sets the theme by name
func SetThemeByName(name string) bool {
	switch name {
	case "", "default":
		currentTheme = DefaultTheme
	case "high-contrast":
		currentTheme = HighContrastTheme
	case "minimal":
		currentTheme = MinimalTheme
	default:
		return false
	}
	return true
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// Palette maps the theme onto the result table colors
func (t Theme) Palette() formatter.Palette {
	return formatter.Palette{
		Header:    t.Foreground,
		Border:    t.Border,
		Normal:    t.Success,
		Alert:     t.Error,
		AlertRow:  t.AlertRow,
		AlertText: t.AlertText,
	}
}

// Styles contains all the styled components
type Styles struct {
	Theme Theme

	Title   lipgloss.Style
	Header  lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
	Input          lipgloss.Style
	Box            lipgloss.Style
}

// GetStyles builds the styles for the current theme
func GetStyles() *Styles {
	theme := GetTheme()

	return &Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 1),

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),

		Button: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}).
			Background(theme.Primary).
			Bold(true).
			Padding(0, 2),

		ButtonDisabled: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Border).
			Padding(0, 2),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),
	}
}
