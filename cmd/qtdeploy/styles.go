// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/charmbracelet/lipgloss"

// Shared hex colors so every command renders with the same theme.
const (
	// ColorPrimary is Qt green - titles and primary emphasis.
	ColorPrimary = lipgloss.Color("#41CD52")

	// ColorMuted is gray - subtitles and de-emphasized text.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is emerald - success states and checkmarks.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red - failures.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - warnings and confirmation prompts.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue - commands and paths.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary text.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warnings and prompts.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for command lines and file paths.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)
)
