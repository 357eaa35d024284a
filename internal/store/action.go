package store

import "nbterm/internal/notebook"

// Kind names one dispatchable operation. The set is fixed; views never
// mutate state except by dispatching one of these.
type Kind string

const (
	// User-facing operations.
	SubmitInput            Kind = "submitInput"
	EditCell               Kind = "editCell"
	DeleteCell             Kind = "deleteCell"
	GotoCell               Kind = "gotoCell"
	CopyCellCode           Kind = "copyCellCode"
	GatherCell             Kind = "gatherCell"
	AddCell                Kind = "addCell"
	InsertBelow            Kind = "insertBelow"
	InsertAboveFirst       Kind = "insertAboveFirst"
	ExecuteAllCells        Kind = "executeAllCells"
	ToggleVariableExplorer Kind = "toggleVariableExplorer"
	RestartKernel          Kind = "restartKernel"
	InterruptKernel        Kind = "interruptKernel"
	Save                   Kind = "save"
	Export                 Kind = "export"
	SendMessage            Kind = "sendMessage"
	ClickCell              Kind = "clickCell"
	DoubleClickCell        Kind = "doubleClickCell"
	ToggleInputBlock       Kind = "toggleInputBlock"
	ShowPlot               Kind = "showPlot"
	OpenLink               Kind = "openLink"

	// View-internal operations.
	SelectCell         Kind = "selectCell"
	PromoteCells       Kind = "promoteCells"
	ClearNewCellMarker Kind = "clearNewCellMarker"

	// Host-originated updates.
	HydrateCells       Kind = "hydrateCells"
	ApplyCellExecution Kind = "applyCellExecution"
	SetKernelStatus    Kind = "setKernelStatus"
	SetVariables       Kind = "setVariables"
	TokenizerReady     Kind = "tokenizerReady"
)

// Action is one unit of work for the store worker. Only the fields the
// Kind needs are populated; the rest stay zero.
type Action struct {
	Kind Kind

	Cell notebook.CellID
	Text string

	Cells     []notebook.CellVM
	IDs       []notebook.CellID
	Outputs   []notebook.CellOutput
	Variables []notebook.Variable

	ExecutionCount int
	ExecState      notebook.ExecutionState
	Status         string
	Index          int

	// SendMessage passthrough.
	MessageType string
	Payload     any
}
