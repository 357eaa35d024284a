package store

import "nbterm/internal/notebook"

// State is the immutable snapshot the views render from. The store worker
// is its single writer; subscribers receive value copies.
type State struct {
	Cells []notebook.CellVM

	Busy            bool
	Dirty           bool
	TokenizerLoaded bool
	TestMode        bool

	VariablesVisible bool
	Variables        []notebook.Variable

	Selected  notebook.CellID
	NewCellID notebook.CellID

	KernelStatus   string
	ExecutionCount int

	Font  notebook.Font
	Theme notebook.Theme
}

// CellIndex returns the position of id in the cell list, -1 when absent.
func (s State) CellIndex(id notebook.CellID) int {
	for i := range s.Cells {
		if s.Cells[i].ID == id {
			return i
		}
	}
	return -1
}

// Cell returns the view-model for id; ok is false when absent.
func (s State) Cell(id notebook.CellID) (notebook.CellVM, bool) {
	if i := s.CellIndex(id); i >= 0 {
		return s.Cells[i], true
	}
	return notebook.CellVM{}, false
}

// clone deep-copies the slices so published snapshots never alias the
// worker's working copy.
func (s State) clone() State {
	out := s
	out.Cells = make([]notebook.CellVM, len(s.Cells))
	copy(out.Cells, s.Cells)
	for i := range out.Cells {
		if n := len(out.Cells[i].Outputs); n > 0 {
			outputs := make([]notebook.CellOutput, n)
			copy(outputs, out.Cells[i].Outputs)
			out.Cells[i].Outputs = outputs
		}
	}
	if len(s.Variables) > 0 {
		out.Variables = make([]notebook.Variable, len(s.Variables))
		copy(out.Variables, s.Variables)
	}
	return out
}
