package ui

import "github.com/fatih/color"

// Styler decorates diagnostic output. It is purely cosmetic: with styling
// disabled every method returns its input unchanged, so renderers never
// branch on whether color is on.
type Styler struct {
	enabled bool
}

// NewStyler returns a Styler. Pass false to get a pass-through styler.
func NewStyler(enabled bool) Styler {
	return Styler{enabled: enabled}
}

// Enabled reports whether the styler decorates at all.
func (s Styler) Enabled() bool { return s.enabled }

// Bold wraps text in a bold escape when styling is on.
func (s Styler) Bold(text string) string {
	if !s.enabled {
		return text
	}
	return color.New(color.Bold).Sprint(text)
}

// Error renders text in the error accent (bold red).
func (s Styler) Error(text string) string {
	if !s.enabled {
		return text
	}
	return color.New(color.FgRed, color.Bold).Sprint(text)
}

// Underline renders the caret/tilde indicator accent (bold green).
func (s Styler) Underline(text string) string {
	if !s.enabled {
		return text
	}
	return color.New(color.FgGreen, color.Bold).Sprint(text)
}
