package tui

import "nbterm/internal/notebook"

// cellBand is one cell's vertical extent in the composed cell list.
type cellBand struct {
	id        notebook.CellID
	top       int
	height    int
	quickEdit bool
}

// visibleQuickEditCells returns, in document order, the quick-edit cells
// whose band intersects the viewport [viewTop, viewTop+viewHeight).
//
// Bands above the viewport are skipped; the walk short-circuits at the
// first band starting entirely below it, which relies on document order
// matching vertical order.
func visibleQuickEditCells(bands []cellBand, viewTop, viewHeight int) []notebook.CellID {
	if viewHeight <= 0 {
		return nil
	}
	viewBottom := viewTop + viewHeight
	var out []notebook.CellID
	for _, b := range bands {
		if b.top >= viewBottom {
			break
		}
		if b.top+b.height <= viewTop {
			continue
		}
		if b.quickEdit {
			out = append(out, b.id)
		}
	}
	return out
}
