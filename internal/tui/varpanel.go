package tui

import (
	"strings"

	"nbterm/internal/notebook"

	"github.com/gosuri/uitable"
)

// maxVariableRows caps the panel so large sessions leave room for cells.
const maxVariableRows = 8

// variablePanelHeight is the number of terminal rows the panel occupies,
// header included.
func variablePanelHeight(vars []notebook.Variable) int {
	n := len(vars)
	if n > maxVariableRows {
		n = maxVariableRows
	}
	return n + 1
}

// renderVariablePanel renders the kernel variable table.
func renderVariablePanel(vars []notebook.Variable, width int) string {
	table := uitable.New()
	table.MaxColWidth = 40
	if width > 0 {
		table.MaxColWidth = uint(width / 4)
	}
	table.AddRow("NAME", "TYPE", "SIZE", "VALUE")
	for i, v := range vars {
		if i >= maxVariableRows {
			break
		}
		table.AddRow(v.Name, v.Type, v.Size, v.Value)
	}
	return strings.TrimRight(table.String(), "\n")
}
