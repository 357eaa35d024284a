package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Span is one styled run of text.
type Span struct {
	Text  string
	Style lipgloss.Style
}

// Line is a sequence of spans with an optional whole-line style.
type Line struct {
	Spans []Span
	Style lipgloss.Style
}

// Buffer collects rendered output line by line.
type Buffer struct {
	Lines []Line
}

// WriteLines appends multiple lines.
func (b *Buffer) WriteLines(lines ...Line) {
	if b == nil {
		return
	}
	b.Lines = append(b.Lines, lines...)
}

// LinesToStrings renders styled lines to terminal strings.
func LinesToStrings(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		segments := make([]string, 0, len(line.Spans))
		for _, sp := range line.Spans {
			segments = append(segments, sp.Style.Render(sp.Text))
		}
		text := strings.Join(segments, "")
		text = line.Style.Render(text)
		out = append(out, text)
	}
	return out
}

// LinesToPlainStrings drops styling, keeping only the text content.
func LinesToPlainStrings(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var sb strings.Builder
		for _, sp := range line.Spans {
			sb.WriteString(sp.Text)
		}
		out = append(out, sb.String())
	}
	return out
}
