package store

import (
	"strings"

	"nbterm/internal/gateway"
	"nbterm/internal/notebook"
)

// effect is an outbound side effect produced by a reduction, executed by
// the worker after the state transition is applied.
type effect interface{ isEffect() }

type sendEffect struct {
	msgType string
	payload any
}

type clipboardEffect struct {
	text string
}

func (sendEffect) isEffect()      {}
func (clipboardEffect) isEffect() {}

// reduce applies one action and returns the next state plus any outbound
// effects. It is pure apart from newID, which mints cell identities.
func reduce(s State, a Action, newID func() notebook.CellID) (State, []effect) {
	switch a.Kind {
	case SubmitInput:
		return reduceSubmit(s, a, newID)

	case EditCell:
		if i := s.CellIndex(a.Cell); i >= 0 {
			s.Cells[i].Source = a.Text
			s.Dirty = true
		}
		return s, nil

	case DeleteCell:
		i := s.CellIndex(a.Cell)
		if i < 0 || s.Cells[i].IsReservedEdit() {
			return s, nil
		}
		s.Cells = append(s.Cells[:i], s.Cells[i+1:]...)
		s.Dirty = true
		if s.Selected == a.Cell {
			s.Selected = ""
		}
		return s, []effect{sendEffect{gateway.MsgDeleteCell, gateway.CellRef{Cell: a.Cell}}}

	case GotoCell:
		cell, ok := s.Cell(a.Cell)
		if !ok || !cell.HasSourceFile() {
			return s, nil
		}
		return s, []effect{sendEffect{gateway.MsgGotoCell, gateway.CellRef{
			Cell: cell.ID, File: cell.SourceFile, Line: cell.SourceLine,
		}}}

	case CopyCellCode:
		cell, ok := s.Cell(a.Cell)
		if !ok || strings.TrimSpace(cell.Source) == "" {
			return s, nil
		}
		return s, []effect{clipboardEffect{text: cell.Source}}

	case GatherCell:
		if _, ok := s.Cell(a.Cell); !ok {
			return s, nil
		}
		return s, []effect{sendEffect{gateway.MsgGatherCell, gateway.CellRef{Cell: a.Cell}}}

	case AddCell:
		return insertCell(s, len(s.ordinaryCells()), a.Text, newID), nil

	case InsertBelow:
		i := s.CellIndex(a.Cell)
		if i < 0 {
			return s, nil
		}
		return insertCell(s, i+1, a.Text, newID), nil

	case InsertAboveFirst:
		return insertCell(s, 0, a.Text, newID), nil

	case ExecuteAllCells:
		any := false
		for i := range s.Cells {
			c := &s.Cells[i]
			if c.Kind == notebook.KindCode && !c.IsReservedEdit() && strings.TrimSpace(c.Source) != "" {
				c.State = notebook.StateRunning
				any = true
			}
		}
		if !any {
			return s, nil
		}
		s.Busy = true
		return s, []effect{sendEffect{gateway.MsgExecuteAll, nil}}

	case ToggleVariableExplorer:
		s.VariablesVisible = !s.VariablesVisible
		return s, nil

	case RestartKernel:
		for i := range s.Cells {
			if s.Cells[i].State == notebook.StateRunning {
				s.Cells[i].State = notebook.StateIdle
			}
		}
		s.Busy = false
		s.KernelStatus = "restarting"
		s.Variables = nil
		return s, []effect{sendEffect{gateway.MsgRestartKernel, nil}}

	case InterruptKernel:
		for i := range s.Cells {
			if s.Cells[i].State == notebook.StateRunning {
				s.Cells[i].State = notebook.StateIdle
			}
		}
		s.Busy = false
		return s, []effect{sendEffect{gateway.MsgInterruptKernel, nil}}

	case Save:
		s.Dirty = false
		return s, []effect{sendEffect{gateway.MsgSave, nil}}

	case Export:
		return s, []effect{sendEffect{gateway.MsgExport, gateway.Export{Cells: s.ordinaryCells()}}}

	case SendMessage:
		if a.MessageType == "" {
			return s, nil
		}
		return s, []effect{sendEffect{a.MessageType, a.Payload}}

	case ClickCell, SelectCell:
		return selectCell(s, a.Cell, false), nil

	case DoubleClickCell:
		return selectCell(s, a.Cell, true), nil

	case ToggleInputBlock:
		if i := s.CellIndex(a.Cell); i >= 0 {
			s.Cells[i].InputCollapsed = !s.Cells[i].InputCollapsed
		}
		return s, nil

	case ShowPlot:
		if _, ok := s.Cell(a.Cell); !ok {
			return s, nil
		}
		return s, []effect{sendEffect{gateway.MsgShowPlot, gateway.ShowPlot{Cell: a.Cell, Index: a.Index}}}

	case OpenLink:
		if strings.TrimSpace(a.Text) == "" {
			return s, nil
		}
		return s, []effect{sendEffect{gateway.MsgOpenLink, gateway.OpenLink{URL: a.Text}}}

	case PromoteCells:
		for _, id := range a.IDs {
			if i := s.CellIndex(id); i >= 0 {
				s.Cells[i].QuickEdit = false
			}
		}
		return s, nil

	case ClearNewCellMarker:
		s.NewCellID = ""
		return s, nil

	case HydrateCells:
		s.Cells = append([]notebook.CellVM(nil), a.Cells...)
		ensureReservedEditCell(&s)
		return s, nil

	case ApplyCellExecution:
		if i := s.CellIndex(a.Cell); i >= 0 {
			c := &s.Cells[i]
			c.State = a.ExecState
			c.Outputs = append([]notebook.CellOutput(nil), a.Outputs...)
			if a.ExecutionCount > 0 {
				c.ExecutionCount = a.ExecutionCount
				if a.ExecutionCount > s.ExecutionCount {
					s.ExecutionCount = a.ExecutionCount
				}
			}
		}
		s.Busy = anyRunning(s)
		return s, nil

	case SetKernelStatus:
		s.KernelStatus = a.Status
		return s, nil

	case SetVariables:
		s.Variables = append([]notebook.Variable(nil), a.Variables...)
		return s, nil

	case TokenizerReady:
		s.TokenizerLoaded = true
		return s, nil
	}

	return s, nil
}

// reduceSubmit handles the submit-input operation. Submitting the reserved
// edit cell materializes a new code cell ahead of it; submitting an
// ordinary cell re-runs it in place.
func reduceSubmit(s State, a Action, newID func() notebook.CellID) (State, []effect) {
	code := strings.TrimRight(a.Text, "\n")
	if strings.TrimSpace(code) == "" {
		return s, nil
	}

	if a.Cell == notebook.ReservedEditCellID {
		id := newID()
		cell := notebook.CellVM{
			ID:       id,
			Kind:     notebook.KindCode,
			Source:   code,
			State:    notebook.StateRunning,
			Editable: true,
		}
		pos := s.CellIndex(notebook.ReservedEditCellID)
		if pos < 0 {
			pos = len(s.Cells)
		}
		s.Cells = append(s.Cells, notebook.CellVM{})
		copy(s.Cells[pos+1:], s.Cells[pos:])
		s.Cells[pos] = cell
		s.Busy = true
		s.Dirty = true
		return s, []effect{sendEffect{gateway.MsgSubmitInput, gateway.SubmitInput{Cell: id, Code: code}}}
	}

	i := s.CellIndex(a.Cell)
	if i < 0 || s.Cells[i].Kind != notebook.KindCode {
		return s, nil
	}
	s.Cells[i].Source = code
	s.Cells[i].State = notebook.StateRunning
	s.Busy = true
	s.Dirty = true
	return s, []effect{sendEffect{gateway.MsgSubmitInput, gateway.SubmitInput{Cell: a.Cell, Code: code}}}
}

func insertCell(s State, index int, source string, newID func() notebook.CellID) State {
	if index < 0 {
		index = 0
	}
	ordinary := len(s.ordinaryCells())
	if index > ordinary {
		index = ordinary
	}
	cell := notebook.CellVM{
		ID:        newID(),
		Kind:      notebook.KindCode,
		Source:    source,
		State:     notebook.StateIdle,
		Editable:  true,
		QuickEdit: false,
	}
	s.Cells = append(s.Cells, notebook.CellVM{})
	copy(s.Cells[index+1:], s.Cells[index:])
	s.Cells[index] = cell
	s.NewCellID = cell.ID
	s.Dirty = true
	return s
}

func selectCell(s State, id notebook.CellID, edit bool) State {
	i := s.CellIndex(id)
	if i < 0 {
		return s
	}
	for j := range s.Cells {
		s.Cells[j].Selected = j == i
	}
	s.Selected = id
	if edit && s.Cells[i].Kind != notebook.KindMessage {
		s.Cells[i].Editable = true
	}
	return s
}

// ordinaryCells returns all cells except the reserved trailing edit cell.
func (s State) ordinaryCells() []notebook.CellVM {
	out := make([]notebook.CellVM, 0, len(s.Cells))
	for _, c := range s.Cells {
		if !c.IsReservedEdit() {
			out = append(out, c)
		}
	}
	return out
}

func anyRunning(s State) bool {
	for i := range s.Cells {
		if s.Cells[i].State == notebook.StateRunning {
			return true
		}
	}
	return false
}

// ensureReservedEditCell keeps the perpetual input prompt at the tail.
func ensureReservedEditCell(s *State) {
	for _, c := range s.Cells {
		if c.IsReservedEdit() {
			return
		}
	}
	s.Cells = append(s.Cells, notebook.CellVM{
		ID:       notebook.ReservedEditCellID,
		Kind:     notebook.KindCode,
		Editable: true,
	})
}
