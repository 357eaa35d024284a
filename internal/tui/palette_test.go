package tui

import (
	"testing"

	"nbterm/internal/notebook"
	"nbterm/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func paletteCells() []notebook.CellVM {
	return []notebook.CellVM{
		{ID: "c1", Kind: notebook.KindCode, Source: "import pandas as pd"},
		{ID: "c2", Kind: notebook.KindCode, Source: "df.describe()", SourceFile: "nb.py", SourceLine: 12},
		{ID: "m1", Kind: notebook.KindMessage, Source: "Kernel restarted"},
		{ID: notebook.ReservedEditCellID, Kind: notebook.KindCode},
	}
}

func TestPaletteExcludesMessageAndReservedCells(t *testing.T) {
	p := newCellPalette(paletteCells(), testCellStyles(), func(store.Action) tea.Cmd { return nil })
	if len(p.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(p.entries))
	}
	for _, e := range p.entries {
		if e.id == "m1" || e.id == notebook.ReservedEditCellID {
			t.Fatalf("excluded cell leaked into palette: %s", e.id)
		}
	}
}

func TestPaletteFuzzyFilter(t *testing.T) {
	p := newCellPalette(paletteCells(), testCellStyles(), func(store.Action) tea.Cmd { return nil })

	p.query = "describe"
	p.filter()
	if len(p.matches) != 1 || p.entries[p.matches[0]].id != "c2" {
		t.Fatalf("matches = %v", p.matches)
	}

	p.query = "zzz"
	p.filter()
	if len(p.matches) != 0 {
		t.Fatalf("matches = %v, want none", p.matches)
	}
}

func TestPaletteEnterSelectsAndCloses(t *testing.T) {
	var got []store.Action
	p := newCellPalette(paletteCells(), testCellStyles(), func(a store.Action) tea.Cmd {
		got = append(got, a)
		return nil
	})

	cmd, done := p.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if !done {
		t.Fatal("enter must close the palette")
	}
	runCmd(cmd)
	if len(got) != 1 || got[0].Kind != store.SelectCell || got[0].Cell != "c1" {
		t.Fatalf("dispatched = %+v", got)
	}
}

func TestPaletteEscapeCloses(t *testing.T) {
	p := newCellPalette(paletteCells(), testCellStyles(), func(store.Action) tea.Cmd { return nil })
	if _, done := p.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}); !done {
		t.Fatal("escape must close the palette")
	}
}
