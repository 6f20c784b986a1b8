package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bamsammich/partsplit/internal/config"
)

// Catppuccin Mocha palette, overridable from the config file.
var (
	ColorGreen  = lipgloss.Color("#a6e3a1")
	ColorRed    = lipgloss.Color("#f38ba8")
	ColorYellow = lipgloss.Color("#f9e2af")
	ColorMuted  = lipgloss.Color("#5a6278")
	ColorBright = lipgloss.Color("#cdd6f4")
)

var (
	styleDone   lipgloss.Style
	styleFailed lipgloss.Style
	styleDryRun lipgloss.Style
	styleLabel  lipgloss.Style
	styleValue  lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	styleDone = lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)
	styleFailed = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
	styleDryRun = lipgloss.NewStyle().Bold(true).Foreground(ColorYellow)
	styleLabel = lipgloss.NewStyle().Foreground(ColorMuted)
	styleValue = lipgloss.NewStyle().Foreground(ColorBright)
}

// ApplyTheme overrides colors from a config ThemeConfig and rebuilds all styles.
func ApplyTheme(tc config.ThemeConfig) {
	if tc.Green != nil {
		ColorGreen = lipgloss.Color(*tc.Green)
	}
	if tc.Red != nil {
		ColorRed = lipgloss.Color(*tc.Red)
	}
	if tc.Yellow != nil {
		ColorYellow = lipgloss.Color(*tc.Yellow)
	}
	if tc.Muted != nil {
		ColorMuted = lipgloss.Color(*tc.Muted)
	}
	if tc.Bright != nil {
		ColorBright = lipgloss.Color(*tc.Bright)
	}
	rebuildStyles()
}

// styleSummary colors a completion summary: the leading status word by
// outcome, then alternating label/value fields separated by two spaces.
func styleSummary(s string, failed bool) string {
	fields := strings.Split(s, "  ")
	if len(fields) == 0 {
		return s
	}

	head := styleDone
	switch {
	case failed:
		head = styleFailed
	case strings.HasPrefix(fields[0], "dry run"):
		head = styleDryRun
	}

	out := make([]string, len(fields))
	out[0] = head.Render(fields[0])
	for i, f := range fields[1:] {
		label, value, ok := strings.Cut(f, " ")
		if !ok {
			out[i+1] = styleValue.Render(f)
			continue
		}
		out[i+1] = styleLabel.Render(label) + " " + styleValue.Render(value)
	}
	return strings.Join(out, "  ")
}
