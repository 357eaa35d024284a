package main

import (
	"encoding/json"
	"testing"

	"nbterm/internal/gateway"
	"nbterm/internal/notebook"
	"nbterm/internal/store"
)

func envelope(t *testing.T, msgType string, payload any) gateway.Envelope {
	t.Helper()
	env := gateway.Envelope{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		env.Payload = data
	}
	return env
}

func TestActionForLoadCells(t *testing.T) {
	env := envelope(t, gateway.MsgLoadCells, gateway.LoadCells{
		Cells: []notebook.CellVM{{ID: "c1", Kind: notebook.KindCode, Source: "x = 1"}},
	})
	a, ok := actionFor(env)
	if !ok {
		t.Fatal("load_cells not translated")
	}
	if a.Kind != store.HydrateCells || len(a.Cells) != 1 || a.Cells[0].ID != "c1" {
		t.Fatalf("unexpected action: %+v", a)
	}
}

func TestActionForCellExecuted(t *testing.T) {
	env := envelope(t, gateway.MsgCellExecuted, gateway.CellExecuted{
		Cell:           "c1",
		ExecutionCount: 3,
		State:          notebook.StateError,
		Outputs:        []notebook.CellOutput{{MimeType: "text/plain", Data: "boom"}},
	})
	a, ok := actionFor(env)
	if !ok {
		t.Fatal("cell_executed not translated")
	}
	if a.Kind != store.ApplyCellExecution || a.Cell != "c1" || a.ExecutionCount != 3 {
		t.Fatalf("unexpected action: %+v", a)
	}
	if a.ExecState != notebook.StateError || len(a.Outputs) != 1 {
		t.Fatalf("unexpected action: %+v", a)
	}
}

func TestActionForKernelStatusAndVariables(t *testing.T) {
	a, ok := actionFor(envelope(t, gateway.MsgKernelStatus, gateway.KernelStatus{Status: "busy"}))
	if !ok || a.Kind != store.SetKernelStatus || a.Status != "busy" {
		t.Fatalf("unexpected action: %+v", a)
	}

	a, ok = actionFor(envelope(t, gateway.MsgVariables, gateway.Variables{
		Variables: []notebook.Variable{{Name: "df", Type: "DataFrame", Size: "3x2"}},
	}))
	if !ok || a.Kind != store.SetVariables || len(a.Variables) != 1 {
		t.Fatalf("unexpected action: %+v", a)
	}
}

func TestActionForTokenizerReady(t *testing.T) {
	a, ok := actionFor(envelope(t, gateway.MsgTokenizerReady, nil))
	if !ok || a.Kind != store.TokenizerReady {
		t.Fatalf("unexpected action: %+v", a)
	}
}

func TestActionForUnknownType(t *testing.T) {
	if _, ok := actionFor(envelope(t, "mystery", nil)); ok {
		t.Fatal("unknown message type must not translate")
	}
}

func TestParseRootArgs(t *testing.T) {
	args, err := parseRootArgs([]string{"-config", "/tmp/x.toml", "-gateway", "/tmp/gw.sock", "-test", "-c", "scroll_debounce_ms=50"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if args.configPath != "/tmp/x.toml" {
		t.Fatalf("configPath = %q", args.configPath)
	}
	want := []string{"scroll_debounce_ms=50", "gateway=/tmp/gw.sock", "test_mode=true"}
	if len(args.overrides) != len(want) {
		t.Fatalf("overrides = %v, want %v", args.overrides, want)
	}
	for i := range want {
		if args.overrides[i] != want[i] {
			t.Fatalf("overrides = %v, want %v", args.overrides, want)
		}
	}
}
