package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hperssn/intervals/internal/domain"
)

// One Dark Pro color palette
var (
	ColorFgPrimary = lipgloss.Color("#ABB2BF")
	ColorFgMuted   = lipgloss.Color("#636B78")

	ColorRed    = lipgloss.Color("#E06C75")
	ColorGreen  = lipgloss.Color("#98C379")
	ColorYellow = lipgloss.Color("#E5C07B")
	ColorBlue   = lipgloss.Color("#61AFEF")
	ColorCyan   = lipgloss.Color("#56B6C2")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBlue)

	subtleStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorFgPrimary).
			Padding(1, 0)

	pausedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorYellow)

	doneStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGreen)

	frameStyle = lipgloss.NewStyle().
			Padding(1, 2)
)

// kindColor gives work steps and the two rest kinds their own color.
func kindColor(k domain.StepKind) lipgloss.Color {
	switch k {
	case domain.KindWork:
		return ColorRed
	case domain.KindInterSetRest:
		return ColorCyan
	default:
		return ColorGreen
	}
}

func labelStyle(k domain.StepKind) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(kindColor(k))
}
