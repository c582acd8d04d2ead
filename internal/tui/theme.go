package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorSurfaceBg  lipgloss.TerminalColor = ac("255", "235")
	colorSurfaceFg  lipgloss.TerminalColor = ac("235", "252")
	colorControlBg  lipgloss.TerminalColor = ac("252", "235")
	colorAccent     lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg   lipgloss.TerminalColor = ac("255", "235")
	colorError      lipgloss.TerminalColor = ac("160", "203")
	colorSuccess    lipgloss.TerminalColor = ac("28", "114")
	colorDropTarget lipgloss.TerminalColor = ac("130", "214")
)

// darkBackground is resolved once at startup; termenv's query can block on
// some terminals, so views never call it directly.
var darkBackground = true

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if darkBackground {
		return st.Faint(true)
	}
	return st
}

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleSelected() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
}

func styleAccent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

// applyColorProfilePreference honors NO_COLOR and otherwise follows the terminal.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	if profile != termenv.Ascii && (strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit")) {
		profile = termenv.TrueColor
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference picks the light or dark palette.
//
// Priority:
// 1) LMSADMIN_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg")
// 3) termenv background query
func applyThemePreference() {
	darkBackground = detectDarkBackground()
	lipgloss.SetHasDarkBackground(darkBackground)
}

func detectDarkBackground() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LMSADMIN_TUI_THEME"))) {
	case "light":
		return false
	case "dark":
		return true
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			// xterm palette: 0-6 dark, 7-15 light.
			return bg < 7
		}
	}
	return termenv.HasDarkBackground()
}
