// Package markdown renders markdown documents for the browser and the terminal.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var gfm = goldmark.New(goldmark.WithExtensions(extension.GFM)) //nolint:gochecknoglobals // stateless converter

// HTML converts GitHub flavoured markdown to an HTML fragment. Raw HTML in src is dropped.
func HTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := gfm.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown: %w", err)
	}
	return buf.String(), nil
}

// Terminal styles accepted by Terminal.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StylePlain = "notty"
)

// Terminal renders src for a terminal of the given width. style is one of the Style constants.
func Terminal(src, style string, width int) (string, error) {
	if style == "" {
		style = StyleDark
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown: %w", err)
	}
	out, err := r.Render(src)
	if err != nil {
		return "", fmt.Errorf("markdown: %w", err)
	}
	return out, nil
}
