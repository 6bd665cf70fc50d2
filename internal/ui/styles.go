// Package ui provides terminal styling for bdcheck output.
// Uses the Ayu color theme with adaptive light/dark mode support.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/steveyegge/bdcheck/internal/report"
)

// Ayu theme color palette
var (
	ColorPass = lipgloss.AdaptiveColor{
		Light: "#86b300", // ayu light bright green
		Dark:  "#c2d94c", // ayu dark bright green
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49", // ayu light bright yellow
		Dark:  "#ffb454", // ayu dark bright yellow
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171", // ayu light bright red
		Dark:  "#f07178", // ayu dark bright red
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99", // ayu light muted
		Dark:  "#6c7680", // ayu dark muted
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6", // ayu light bright blue
		Dark:  "#59c2ff", // ayu dark bright blue
	}
)

// Status styles - consistent across all commands
var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
)

// HeaderStyle for report headers - bold with accent color
var HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

// Status icons
const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
	IconSkip = "-"
)

// Separator for report sections
const Separator = "──────────────────────────────────────────"

// RenderSeparator renders the separator line in muted color.
func RenderSeparator() string {
	return MutedStyle.Render(Separator)
}

// RenderHeader renders a report header.
func RenderHeader(s string) string {
	return HeaderStyle.Render(s)
}

// CheckIcon returns the styled icon for one check outcome: pass, warn when
// a non-required check failed, fail otherwise.
func CheckIcon(c report.CheckResult) string {
	switch {
	case c.Passed:
		return PassStyle.Render(IconPass)
	case c.Severity == report.SeverityWarning:
		return WarnStyle.Render(IconWarn)
	default:
		return FailStyle.Render(IconFail)
	}
}

// CheckLine renders one check as "icon Name: message".
func CheckLine(c report.CheckResult) string {
	return CheckIcon(c) + " " + c.Name + ": " + MutedStyle.Render(c.Message)
}

// VerdictLine renders the final pass/fail line.
func VerdictLine(passed bool, summary string) string {
	if passed {
		return PassStyle.Render(IconPass+" PASS") + " " + summary
	}
	return FailStyle.Render(IconFail+" FAIL") + " " + summary
}
