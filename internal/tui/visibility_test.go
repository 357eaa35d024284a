package tui

import (
	"reflect"
	"testing"

	"nbterm/internal/notebook"
)

func TestVisibleQuickEditCells(t *testing.T) {
	bands := []cellBand{
		{id: "a", top: 0, height: 5, quickEdit: true},
		{id: "b", top: 5, height: 3, quickEdit: false},
		{id: "c", top: 8, height: 4, quickEdit: true},
		{id: "d", top: 12, height: 2, quickEdit: true},
		{id: "e", top: 14, height: 6, quickEdit: true},
	}

	cases := []struct {
		name   string
		top    int
		height int
		want   []notebook.CellID
	}{
		{"full document", 0, 100, []notebook.CellID{"a", "c", "d", "e"}},
		{"skips bands above", 8, 6, []notebook.CellID{"c", "d"}},
		{"partial overlap counts", 4, 5, []notebook.CellID{"a", "c"}},
		{"stops at first band below", 0, 8, []notebook.CellID{"a"}},
		{"window between cells", 5, 3, nil},
		{"zero height viewport", 0, 0, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := visibleQuickEditCells(bands, tc.top, tc.height)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestVisibleQuickEditCellsEmptyBands(t *testing.T) {
	if got := visibleQuickEditCells(nil, 0, 10); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}
