package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/shuleihust/ai-commercial-ip-director/internal/topic"
)

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#FF0000")
	ColorGreen   = lipgloss.Color("#00FF00")
	ColorYellow  = lipgloss.Color("#FFFF00")
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
	ColorMagenta = lipgloss.Color("#FF00FF")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	StepLabelStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	RecordingDotStyle = lipgloss.NewStyle().
				Foreground(ColorRed).
				Bold(true)

	IdleDotStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	ReasoningStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	TimerStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	VoiceLabelStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	ScoreHighStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	ScoreMidStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	ScoreLowStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	CompletedBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorGreen).
				Bold(true)

	AnalyzingBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorYellow).
				Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)

	TeleprompterStyle = lipgloss.NewStyle().
				Foreground(ColorWhite).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorDimGray)
)

// ScoreStyle picks a style for a 0-100 score.
func ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return ScoreHighStyle
	case score >= 60:
		return ScoreMidStyle
	default:
		return ScoreLowStyle
	}
}

// StatusBadge renders a topic lifecycle state as a short styled label.
func StatusBadge(status topic.Status) string {
	switch status {
	case topic.StatusRecorded:
		return ReasoningStyle.Render("已录制")
	case topic.StatusAnalyzing:
		return AnalyzingBadgeStyle.Render("分析中")
	case topic.StatusCompleted:
		return CompletedBadgeStyle.Render("已完成")
	default:
		return DimStyle.Render("待录制")
	}
}
