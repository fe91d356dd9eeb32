package ui

import (
	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders md for terminal output and returns the styled
// result. Plain output or any renderer error returns md unchanged.
func RenderMarkdown(md string, plain bool) string {
	if plain || !IsStdoutTTY() {
		return md
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
