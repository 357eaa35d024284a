package render

import (
	"strings"
	"testing"

	"nbterm/internal/notebook"
)

func testStyles() Styles {
	return NewStyles(notebook.DefaultTheme())
}

func plain(lines []Line) string {
	return strings.Join(LinesToPlainStrings(lines), "\n")
}

func TestMessageCellRendersBanner(t *testing.T) {
	c := notebook.CellVM{ID: "m1", Kind: notebook.KindMessage, Source: "Kernel restarted"}
	got := plain(CellLines(c, testStyles(), 80, false))
	if !strings.Contains(got, "ℹ Kernel restarted") {
		t.Fatalf("banner not rendered: %q", got)
	}
	if strings.Contains(got, "▾") {
		t.Fatalf("message cell must not have a control strip: %q", got)
	}
}

func TestQuickEditCellRendersPlaceholder(t *testing.T) {
	c := notebook.CellVM{
		ID:        "q1",
		Kind:      notebook.KindCode,
		Source:    "first line\nsecond line",
		QuickEdit: true,
	}
	lines := CellLines(c, testStyles(), 80, false)
	if len(lines) != 1 {
		t.Fatalf("placeholder should be a single line, got %d", len(lines))
	}
	got := plain(lines)
	if !strings.Contains(got, "first line …") {
		t.Fatalf("placeholder should show truncated first line: %q", got)
	}
	if strings.Contains(got, "second line") {
		t.Fatalf("placeholder leaked full source: %q", got)
	}
}

func TestCodeCellFullLayout(t *testing.T) {
	c := notebook.CellVM{
		ID:             "c1",
		Kind:           notebook.KindCode,
		Source:         "x = 1\nprint(x)",
		ExecutionCount: 4,
		Outputs:        []notebook.CellOutput{{MimeType: "text/plain", Data: "1"}},
	}
	got := plain(CellLines(c, testStyles(), 80, false))

	if !strings.Contains(got, "[4]") {
		t.Fatalf("missing execution badge: %q", got)
	}
	if !strings.Contains(got, "│ x = 1") || !strings.Contains(got, "│ print(x)") {
		t.Fatalf("missing input lines: %q", got)
	}
	if !strings.Contains(got, "  1") {
		t.Fatalf("missing output line: %q", got)
	}
}

func TestCollapsedInputHidden(t *testing.T) {
	c := notebook.CellVM{
		ID:             "c1",
		Kind:           notebook.KindCode,
		Source:         "secret = 1",
		InputCollapsed: true,
	}
	got := plain(CellLines(c, testStyles(), 80, false))
	if strings.Contains(got, "secret = 1") {
		t.Fatalf("collapsed input still rendered: %q", got)
	}
	if !strings.Contains(got, "▸") {
		t.Fatalf("collapsed marker missing: %q", got)
	}
}

func TestOutputAreaSuppressed(t *testing.T) {
	cases := []struct {
		name string
		cell notebook.CellVM
	}{
		{"no outputs", notebook.CellVM{ID: "a", Kind: notebook.KindCode, Source: "x"}},
		{"empty outputs", notebook.CellVM{ID: "b", Kind: notebook.KindCode, Source: "x",
			Outputs: []notebook.CellOutput{{Data: ""}}}},
		{"hidden outputs", notebook.CellVM{ID: "c", Kind: notebook.KindCode, Source: "x",
			OutputHidden: true,
			Outputs:      []notebook.CellOutput{{Data: "boom"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := plain(CellLines(tc.cell, testStyles(), 80, false))
			if strings.Contains(got, "boom") {
				t.Fatalf("hidden output rendered: %q", got)
			}
			// Control strip plus one input line only.
			if len(strings.Split(got, "\n")) != 2 {
				t.Fatalf("unexpected layout: %q", got)
			}
		})
	}
}

func TestToolbarVisibilitySplit(t *testing.T) {
	withFile := notebook.CellVM{ID: "a", Kind: notebook.KindCode, Source: "x", SourceFile: "nb.py"}
	withoutFile := notebook.CellVM{ID: "b", Kind: notebook.KindCode, Source: "x"}

	gotFile := plain(CellLines(withFile, testStyles(), 80, false))
	if !strings.Contains(gotFile, "↗ nb.py") || strings.Contains(gotFile, "⧉ copy") {
		t.Fatalf("cell with source file must show goto-source only: %q", gotFile)
	}

	gotNone := plain(CellLines(withoutFile, testStyles(), 80, false))
	if strings.Contains(gotNone, "↗") || !strings.Contains(gotNone, "⧉ copy") {
		t.Fatalf("cell without source file must show copy-to-source only: %q", gotNone)
	}
}

func TestCellHeightMatchesCellLines(t *testing.T) {
	c := notebook.CellVM{
		ID:      "c1",
		Kind:    notebook.KindCode,
		Source:  strings.Repeat("abc ", 50),
		Outputs: []notebook.CellOutput{{Data: "line1\nline2"}},
	}
	st := testStyles()
	for _, width := range []int{20, 40, 80} {
		if got, want := CellHeight(c, st, width, false), len(CellLines(c, st, width, false)); got != want {
			t.Fatalf("width %d: CellHeight=%d, len(CellLines)=%d", width, got, want)
		}
	}
}
