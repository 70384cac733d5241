package tui

import "github.com/charmbracelet/lipgloss"

// Color palette (ANSI 256).
const (
	ColorHeader   = lipgloss.Color("39")
	ColorLabel    = lipgloss.Color("245")
	ColorValue    = lipgloss.Color("255")
	ColorInfo     = lipgloss.Color("69")
	ColorWarning  = lipgloss.Color("214")
	ColorCritical = lipgloss.Color("196")
	ColorOK       = lipgloss.Color("42")
	ColorSubtle   = lipgloss.Color("240")
	ColorSelectFg = lipgloss.Color("229")
	ColorSelectBg = lipgloss.Color("57")
)

// Shared styles.
var (
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle    = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle    = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	InfoStyle     = lipgloss.NewStyle().Foreground(ColorInfo)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	CriticalStyle = lipgloss.NewStyle().Foreground(ColorCritical).Bold(true)
	OKStyle       = lipgloss.NewStyle().Foreground(ColorOK)
	SubtleStyle   = lipgloss.NewStyle().Foreground(ColorSubtle)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(ColorSubtle).
				BorderBottom(true)

	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorSelectFg).
				Background(ColorSelectBg)
)

// StatusStyle picks a style for a status or read-state label.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "active", "approved", "Approved", "Active", "unread":
		return OKStyle
	case "pending", "Pending":
		return WarningStyle
	case "rejected", "Rejected":
		return CriticalStyle
	default:
		return SubtleStyle
	}
}
