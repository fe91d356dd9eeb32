package ui

import "github.com/charmbracelet/lipgloss"

// grind's palette: chalk white, iron grey, and a hot orange for effort.
var (
	Ember   = lipgloss.Color("#FF6B1A")
	Flame   = lipgloss.Color("#FFA62B")
	Iron    = lipgloss.Color("#7A7D80")
	Chalk   = lipgloss.Color("#F4F4F0")
	Mint    = lipgloss.Color("#3DDC97")
	Crimson = lipgloss.Color("#E5383B")
	Steel   = lipgloss.Color("#4A90D9")
	Dim     = lipgloss.Color("#666666")
	Bright  = lipgloss.Color("#FFFFFF")

	// Semantic styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Ember)

	Subtitle = lipgloss.NewStyle().
			Foreground(Flame)

	Success = lipgloss.NewStyle().
		Foreground(Mint)

	Error = lipgloss.NewStyle().
		Foreground(Crimson)

	Warning = lipgloss.NewStyle().
		Foreground(Flame)

	Info = lipgloss.NewStyle().
		Foreground(Steel)

	Muted = lipgloss.NewStyle().
		Foreground(Dim)

	Accent = lipgloss.NewStyle().
		Foreground(Ember).
		Bold(true)

	// Component styles
	Banner = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Ember).
		Padding(0, 1)

	Badge = lipgloss.NewStyle().
		Foreground(Bright).
		Background(Ember).
		Padding(0, 1).
		Bold(true)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Flame).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Chalk)
)

const (
	IconLift   = "🏋 "
	IconFire   = "🔥"
	IconTrophy = "🏆"
	IconLock   = "🔒"
	IconHabit  = "📅"
	IconDone   = "✅"
	IconWarn   = "⚠️ "
	IconError  = "✗ "
	IconOk     = "✓ "
	IconArrow  = "→"
	IconDot    = "·"
)
