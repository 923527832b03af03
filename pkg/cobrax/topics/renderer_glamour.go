package topics

import (
	"github.com/charmbracelet/glamour"
)

// GlamourRenderer renders markdown topics with glamour
type GlamourRenderer struct {
	Style string // "dark", "light", "notty", "auto", or a path to a style file
	Width int    // word wrap, 0 leaves glamour's default
}

// NewGlamourRenderer returns a renderer that follows the terminal. With
// color disabled it sticks to the notty style.
func NewGlamourRenderer(color bool) *GlamourRenderer {
	style := "auto"
	if !color {
		style = "notty"
	}
	return &GlamourRenderer{Style: style, Width: 80}
}

// Render converts markdown to terminal output. Other formats and rendering
// failures return content unchanged.
func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
