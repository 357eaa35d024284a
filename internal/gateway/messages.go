package gateway

import (
	"encoding/json"

	"nbterm/internal/notebook"
)

// Outbound message types (front-end -> host).
const (
	MsgNativeCommand   = "native_command"
	MsgSubmitInput     = "submit_input"
	MsgDeleteCell      = "delete_cell"
	MsgGotoCell        = "goto_cell"
	MsgGatherCell      = "gather_cell"
	MsgExecuteAll      = "execute_all"
	MsgRestartKernel   = "restart_kernel"
	MsgInterruptKernel = "interrupt_kernel"
	MsgSave            = "save"
	MsgExport          = "export"
	MsgShowPlot        = "show_plot"
	MsgOpenLink        = "open_link"
)

// Inbound message types (host -> front-end).
const (
	MsgLoadCells      = "load_cells"
	MsgCellExecuted   = "cell_executed"
	MsgKernelStatus   = "kernel_status"
	MsgVariables      = "variables"
	MsgTokenizerReady = "tokenizer_ready"
)

// Envelope is the wire frame: one JSON object per line.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NativeCommand is the telemetry notification for toolbar/keyboard commands.
type NativeCommand struct {
	Command string `json:"command"`
	Source  string `json:"source"`
}

// SubmitInput asks the host to execute code for a cell.
type SubmitInput struct {
	Cell notebook.CellID `json:"cell"`
	Code string          `json:"code"`
}

// CellRef names a cell, optionally with its source location.
type CellRef struct {
	Cell notebook.CellID `json:"cell"`
	File string          `json:"file,omitempty"`
	Line int             `json:"line,omitempty"`
}

// CellExecuted reports an execution result back from the kernel host.
type CellExecuted struct {
	Cell           notebook.CellID         `json:"cell"`
	ExecutionCount int                     `json:"execution_count"`
	State          notebook.ExecutionState `json:"state"`
	Outputs        []notebook.CellOutput   `json:"outputs"`
}

// LoadCells hydrates the cell list from the host document model.
type LoadCells struct {
	Cells []notebook.CellVM `json:"cells"`
}

// KernelStatus carries a coarse kernel lifecycle string (idle/busy/restarting).
type KernelStatus struct {
	Status string `json:"status"`
}

// Variables replaces the variable explorer content.
type Variables struct {
	Variables []notebook.Variable `json:"variables"`
}

// ShowPlot asks the host to open an output in its plot viewer.
type ShowPlot struct {
	Cell  notebook.CellID `json:"cell"`
	Index int             `json:"index"`
}

// OpenLink asks the host to open a URL externally.
type OpenLink struct {
	URL string `json:"url"`
}

// Export asks the host to export the notebook content.
type Export struct {
	Cells []notebook.CellVM `json:"cells"`
}
