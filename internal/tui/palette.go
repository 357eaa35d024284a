package tui

import (
	"fmt"
	"strings"

	"nbterm/internal/notebook"
	"nbterm/internal/store"
	"nbterm/internal/tui/render"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// paletteEntry is one jump target: a cell summarized by its first source
// line and origin location.
type paletteEntry struct {
	id    notebook.CellID
	label string
}

// cellPalette is the goto-cell overlay: fuzzy filtering over cell
// summaries, enter selects, escape closes.
type cellPalette struct {
	entries  []paletteEntry
	query    string
	matches  []int
	selected int
	styles   render.Styles
	dispatch func(store.Action) tea.Cmd
}

func newCellPalette(cells []notebook.CellVM, st render.Styles, dispatch func(store.Action) tea.Cmd) *cellPalette {
	p := &cellPalette{styles: st, dispatch: dispatch}
	for _, c := range cells {
		if c.Kind == notebook.KindMessage || c.IsReservedEdit() {
			continue
		}
		first := c.Source
		if i := strings.IndexByte(first, '\n'); i >= 0 {
			first = first[:i]
		}
		label := strings.TrimSpace(first)
		if label == "" {
			label = "(empty cell)"
		}
		if c.HasSourceFile() {
			label = fmt.Sprintf("%s  %s:%d", label, c.SourceFile, c.SourceLine)
		}
		p.entries = append(p.entries, paletteEntry{id: c.ID, label: label})
	}
	p.filter()
	return p
}

func (p *cellPalette) labels() []string {
	out := make([]string, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.label
	}
	return out
}

func (p *cellPalette) filter() {
	p.selected = 0
	if p.query == "" {
		p.matches = p.matches[:0]
		for i := range p.entries {
			p.matches = append(p.matches, i)
		}
		return
	}
	ranked := fuzzy.Find(p.query, p.labels())
	p.matches = p.matches[:0]
	for _, m := range ranked {
		p.matches = append(p.matches, m.Index)
	}
}

// HandleKey consumes every key while the palette is open; done reports
// that the overlay should close.
func (p *cellPalette) HandleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		return nil, true
	case "enter":
		if p.selected < len(p.matches) {
			entry := p.entries[p.matches[p.selected]]
			id := entry.id
			return tea.Batch(
				p.dispatch(store.Action{Kind: store.SelectCell, Cell: id}),
				func() tea.Msg { return focusCellMsg{id: id} },
			), true
		}
		return nil, true
	case "up":
		if p.selected > 0 {
			p.selected--
		}
	case "down":
		if p.selected < len(p.matches)-1 {
			p.selected++
		}
	case "backspace":
		if p.query != "" {
			p.query = p.query[:len(p.query)-1]
			p.filter()
		}
	default:
		if msg.Type == tea.KeyRunes {
			p.query += string(msg.Runes)
			p.filter()
		}
	}
	return nil, false
}

func (p *cellPalette) View(width, height int) string {
	var b strings.Builder
	b.WriteString(p.styles.Accent.Render("goto cell › "))
	b.WriteString(p.query)
	b.WriteString("\n")
	shown := 0
	for i, idx := range p.matches {
		if shown >= height-1 {
			break
		}
		label := p.entries[idx].label
		if width > 4 && len(label) > width-4 {
			label = label[:width-4] + "…"
		}
		if i == p.selected {
			b.WriteString(p.styles.Selected.Render("▸ " + label))
		} else {
			b.WriteString(p.styles.Muted.Render("  " + label))
		}
		b.WriteString("\n")
		shown++
	}
	for shown < height-1 {
		b.WriteString("\n")
		shown++
	}
	return strings.TrimRight(b.String(), "\n")
}
