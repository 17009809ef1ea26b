// Package tui holds the terminal presentation helpers for the CLI.
package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders a markdown tree export for the
// terminal using glamour. When the renderer cannot be constructed (no TTY,
// unknown terminal) the raw markdown is returned unchanged.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)

	return func(markdown string) (string, error) {
		if err != nil || r == nil {
			return markdown, nil
		}
		return r.Render(markdown)
	}
}
