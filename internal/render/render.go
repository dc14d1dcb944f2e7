// Package render is the stdout glue: placeholder handling, optional markdown
// rendering and error styling.
package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

// Output prepares the assistant's response for stdout. An empty response
// becomes an ellipsis placeholder. With markdown enabled the text is rendered
// through glamour; rendering failures fall back to the raw text.
func Output(text string, markdown bool) string {
	if text == "" {
		return "..."
	}
	if !markdown {
		return text
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// Errorf styles a fatal error message for stderr.
func Errorf(msg string) string {
	return errorStyle.Render("error: " + msg)
}
