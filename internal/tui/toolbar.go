package tui

import (
	"strings"

	"nbterm/internal/store"
	"nbterm/internal/tui/render"
)

// toolbarCommand pairs a dispatchable action with the command name its
// usage event carries.
type toolbarCommand struct {
	kind    store.Kind
	command string
	hint    string
}

// toolbarCommands is the global chord table. Save is handled separately
// because its chord is platform dependent.
var toolbarCommands = map[string]toolbarCommand{
	"ctrl+n": {kind: store.AddCell, command: "add_cell", hint: "add"},
	"ctrl+b": {kind: store.InsertBelow, command: "insert_below", hint: "insert below"},
	"ctrl+t": {kind: store.InsertAboveFirst, command: "insert_above_first", hint: "insert top"},
	"ctrl+e": {kind: store.ExecuteAllCells, command: "execute_all", hint: "run all"},
	"ctrl+w": {kind: store.ToggleVariableExplorer, command: "toggle_variables", hint: "variables"},
	"ctrl+r": {kind: store.RestartKernel, command: "restart_kernel", hint: "restart"},
	"ctrl+g": {kind: store.InterruptKernel, command: "interrupt_kernel", hint: "interrupt"},
	"ctrl+o": {kind: store.Export, command: "export", hint: "export"},
	"ctrl+l": {kind: store.ToggleInputBlock, command: "toggle_input", hint: "collapse"},
	"ctrl+y": {kind: store.ShowPlot, command: "show_plot", hint: "plot"},
}

// hintOrder keeps the footer stable; map iteration order would shuffle it.
var hintOrder = []string{"ctrl+n", "ctrl+b", "ctrl+t", "ctrl+e", "ctrl+w", "ctrl+r", "ctrl+g", "ctrl+o", "ctrl+l", "ctrl+y"}

// renderToolbarHints renders the one-line footer with the chord table and
// the platform save chord.
func renderToolbarHints(st render.Styles, width int, saveKey string) string {
	var parts []string
	for _, key := range hintOrder {
		cmd := toolbarCommands[key]
		parts = append(parts, st.Accent.Render(key)+" "+st.Muted.Render(cmd.hint))
	}
	parts = append(parts, st.Accent.Render(saveKey)+" "+st.Muted.Render("save"))
	parts = append(parts, st.Accent.Render("ctrl+p")+" "+st.Muted.Render("goto"))
	line := strings.Join(parts, st.Muted.Render(" · "))
	return line
}
