package notebook

// CellID identifies one notebook cell.
type CellID string

// ReservedEditCellID is the sentinel identity of the perpetual trailing
// input prompt. It is the only cell that owns an input history.
const ReservedEditCellID CellID = "edit:reserved"

// CellKind enumerates the cell flavors the front-end renders.
type CellKind int

const (
	KindCode CellKind = iota
	KindMarkdown
	KindMessage
)

func (k CellKind) String() string {
	switch k {
	case KindCode:
		return "code"
	case KindMarkdown:
		return "markdown"
	case KindMessage:
		return "message"
	default:
		return "unknown"
	}
}

// ExecutionState mirrors the backend's per-cell lifecycle for display.
type ExecutionState int

const (
	StateIdle ExecutionState = iota
	StateRunning
	StateFinished
	StateError
)

func (s ExecutionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// CellOutput is one rendered output block produced by the backend.
type CellOutput struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// CellVM is the read-mostly projection of a cell the views render from.
// The store owns it; views treat it as immutable within a render pass.
type CellVM struct {
	ID             CellID         `json:"id"`
	Kind           CellKind       `json:"kind"`
	Source         string         `json:"source"`
	SourceFile     string         `json:"source_file"`
	SourceLine     int            `json:"source_line"`
	ExecutionCount int            `json:"execution_count"`
	State          ExecutionState `json:"state"`
	Outputs        []CellOutput   `json:"outputs"`

	Selected       bool `json:"selected"`
	Focused        bool `json:"focused"`
	Editable       bool `json:"editable"`
	InputCollapsed bool `json:"input_collapsed"`
	OutputHidden   bool `json:"output_hidden"`
	QuickEdit      bool `json:"quick_edit"`
}

// HasSourceFile reports whether the cell is linked to an on-disk source file.
// Drives the goto-source vs copy-to-source toolbar split.
func (c CellVM) HasSourceFile() bool {
	return c.SourceFile != ""
}

// ShowOutputs reports whether the output area should render at all.
func (c CellVM) ShowOutputs() bool {
	if c.OutputHidden || len(c.Outputs) == 0 {
		return false
	}
	for _, out := range c.Outputs {
		if out.Data != "" {
			return true
		}
	}
	return false
}

// IsReservedEdit reports whether this is the trailing input prompt cell.
func (c CellVM) IsReservedEdit() bool {
	return c.ID == ReservedEditCellID
}

// Variable is one row of the variable explorer panel.
type Variable struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Size  string `json:"size"`
	Value string `json:"value"`
}
