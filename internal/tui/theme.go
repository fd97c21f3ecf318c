package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds,
// so colors are lipgloss.AdaptiveColor throughout and "faint" styling is only
// applied on dark backgrounds (faint text on light terminals often becomes
// illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted    lipgloss.TerminalColor = ac("240", "243")
	colorAccent   lipgloss.TerminalColor = ac("27", "62") // blue
	colorEventBg  lipgloss.TerminalColor = ac("254", "236")
	colorTaskFg   lipgloss.TerminalColor = ac("28", "78") // green
	colorPlanFg   lipgloss.TerminalColor = ac("130", "214")
	colorSelectBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectFg lipgloss.TerminalColor = ac("235", "255")

	styleHour     = faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
	styleEvent    = lipgloss.NewStyle().Background(colorEventBg)
	styleTask     = lipgloss.NewStyle().Foreground(colorTaskFg)
	stylePlanWin  = lipgloss.NewStyle().Foreground(colorPlanFg).Bold(true)
	styleSelected = lipgloss.NewStyle().Background(colorSelectBg).Foreground(colorSelectFg)
	styleHeading  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleStatus   = faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
)

// applyColorProfilePreference sets Lip Gloss's color profile for the
// interactive TUI.
//
// Note: termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which is
// useful for non-interactive CLI output but can accidentally disable colors
// in a TUI. Here we only honor NO_COLOR and otherwise follow the terminal's
// capabilities, trusting TERM/COLORTERM when they report stronger support
// than the probe does.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}

	lipgloss.SetColorProfile(profile)
}
