package render

import (
	"fmt"
	"strings"

	"nbterm/internal/notebook"
)

// CellLines renders one cell view-model into styled lines. flash applies
// the transient attention highlight to the whole block.
func CellLines(c notebook.CellVM, st Styles, width int, flash bool) []Line {
	if width <= 0 {
		width = 80
	}
	var lines []Line
	switch {
	case c.Kind == notebook.KindMessage:
		lines = bannerLines(c, st, width)
	case c.QuickEdit:
		lines = placeholderLines(c, st, width)
	default:
		lines = fullCellLines(c, st, width)
	}
	if flash {
		for i := range lines {
			lines[i].Style = st.Highlight
		}
	}
	return lines
}

// CellHeight is the number of lines CellLines would produce; the visibility
// scan uses it to position cells without rendering them.
func CellHeight(c notebook.CellVM, st Styles, width int, flash bool) int {
	return len(CellLines(c, st, width, flash))
}

// bannerLines renders a synthetic message cell as an information banner.
func bannerLines(c notebook.CellVM, st Styles, width int) []Line {
	body := strings.TrimSpace(c.Source)
	if body == "" {
		return nil
	}
	wrapWidth := width - 2
	if wrapWidth < 1 {
		wrapWidth = width
	}
	var out []Line
	for i, text := range wrapText(body, wrapWidth) {
		prefix := "ℹ "
		if i > 0 {
			prefix = "  "
		}
		out = append(out, Line{Spans: []Span{
			{Text: prefix, Style: st.Banner},
			{Text: text, Style: st.Banner},
		}})
	}
	return out
}

// placeholderLines is the cheap quick-edit form: one dim line per cell.
func placeholderLines(c notebook.CellVM, st Styles, width int) []Line {
	first := c.Source
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i] + " …"
	}
	if strings.TrimSpace(first) == "" {
		first = "(empty cell)"
	}
	gutter := gutterSpan(c, st)
	wrapWidth := width - len("[  ] ")
	if wrapWidth < 1 {
		wrapWidth = width
	}
	wrapped := wrapText(first, wrapWidth)
	if len(wrapped) == 0 {
		return nil
	}
	return []Line{{Spans: []Span{gutter, {Text: wrapped[0], Style: st.Muted}}}}
}

func fullCellLines(c notebook.CellVM, st Styles, width int) []Line {
	col := NewColumn()
	col.Push(StaticLines{controlLine(c, st)})
	if c.Kind == notebook.KindCode && !c.InputCollapsed {
		col.Push(StaticLines(inputLines(c, st, width)))
	}
	if c.Kind == notebook.KindMarkdown {
		col.Push(StaticLines(markdownLines(c, st, width)))
	}
	if c.ShowOutputs() {
		col.Push(StaticLines(outputLines(c, st, width)))
	}

	buf := Buffer{}
	height := col.DesiredHeight(width)
	col.Render(Rect{Width: width, Height: height}, &buf)
	return buf.Lines
}

// controlLine is the cell control strip: execution badge, collapse toggle
// and the per-cell toolbar hints.
func controlLine(c notebook.CellVM, st Styles) Line {
	spans := []Span{gutterSpan(c, st)}

	collapse := "▾"
	if c.InputCollapsed {
		collapse = "▸"
	}
	spans = append(spans, Span{Text: collapse + " ", Style: st.Muted})

	// Goto-source and copy-to-source are mutually exclusive.
	if c.HasSourceFile() {
		spans = append(spans, Span{Text: "↗ " + c.SourceFile, Style: st.Muted})
	} else {
		spans = append(spans, Span{Text: "⧉ copy", Style: st.Muted})
	}
	spans = append(spans, Span{Text: "  ⌦ delete  ⚟ gather", Style: st.Muted})

	line := Line{Spans: spans}
	if c.Selected {
		line.Style = st.Selected
	}
	return line
}

func gutterSpan(c notebook.CellVM, st Styles) Span {
	badge := " "
	switch {
	case c.State == notebook.StateRunning:
		badge = "*"
	case c.ExecutionCount > 0:
		badge = fmt.Sprintf("%d", c.ExecutionCount)
	}
	style := st.Badge
	if c.State == notebook.StateError {
		style = st.Error
	}
	return Span{Text: fmt.Sprintf("[%s] ", badge), Style: style}
}

func inputLines(c notebook.CellVM, st Styles, width int) []Line {
	wrapWidth := width - 2
	if wrapWidth < 1 {
		wrapWidth = width
	}
	var body []Line
	for _, raw := range strings.Split(strings.TrimRight(c.Source, "\n"), "\n") {
		for _, text := range wrapPreserveSpaces(raw, wrapWidth) {
			body = append(body, Line{Spans: []Span{{Text: text}}})
		}
	}
	return PrefixLines(body,
		Span{Text: "│ ", Style: st.Accent},
		Span{Text: "│ ", Style: st.Accent})
}

func markdownLines(c notebook.CellVM, st Styles, width int) []Line {
	wrapWidth := width - 2
	if wrapWidth < 1 {
		wrapWidth = width
	}
	var body []Line
	for _, text := range wrapText(strings.TrimRight(c.Source, "\n"), wrapWidth) {
		body = append(body, Line{Spans: []Span{{Text: text, Style: st.Muted}}})
	}
	return PrefixLines(body,
		Span{Text: "┆ ", Style: st.Muted},
		Span{Text: "┆ ", Style: st.Muted})
}

func outputLines(c notebook.CellVM, st Styles, width int) []Line {
	wrapWidth := width - 2
	if wrapWidth < 1 {
		wrapWidth = width
	}
	style := st.Muted
	if c.State == notebook.StateError {
		style = st.Error
	}
	var out []Line
	for _, o := range c.Outputs {
		if o.Data == "" {
			continue
		}
		for _, raw := range strings.Split(strings.TrimRight(o.Data, "\n"), "\n") {
			for _, text := range wrapPreserveSpaces(raw, wrapWidth) {
				out = append(out, Line{Spans: []Span{
					{Text: "  ", Style: style},
					{Text: text, Style: style},
				}})
			}
		}
	}
	return out
}
