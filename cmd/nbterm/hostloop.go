package main

import (
	"context"

	"nbterm/internal/gateway"
	"nbterm/internal/logger"
	"nbterm/internal/store"
)

// hostHandler translates inbound host envelopes into store actions.
// Unknown message types are logged and dropped; the host side may be newer
// than this binary. trace, when non-nil, records every inbound frame to
// the host trace log.
func hostHandler(ctx context.Context, st *store.Store, trace *logger.LogEntry) func(gateway.Envelope) {
	return func(env gateway.Envelope) {
		if trace != nil {
			trace.WithField("type", env.Type).Debug("host frame")
		}
		a, ok := actionFor(env)
		if !ok {
			log.WithField("type", env.Type).Warnf("drop unknown host message")
			return
		}
		if err := st.Dispatch(ctx, a); err != nil {
			log.WithField("type", env.Type).Warnf("dispatch host message: %v", err)
		}
	}
}

func actionFor(env gateway.Envelope) (store.Action, bool) {
	switch env.Type {
	case gateway.MsgLoadCells:
		var p gateway.LoadCells
		if err := gateway.Decode(env, &p); err != nil {
			log.Warnf("decode %s: %v", env.Type, err)
			return store.Action{}, false
		}
		return store.Action{Kind: store.HydrateCells, Cells: p.Cells}, true

	case gateway.MsgCellExecuted:
		var p gateway.CellExecuted
		if err := gateway.Decode(env, &p); err != nil {
			log.Warnf("decode %s: %v", env.Type, err)
			return store.Action{}, false
		}
		return store.Action{
			Kind:           store.ApplyCellExecution,
			Cell:           p.Cell,
			ExecutionCount: p.ExecutionCount,
			ExecState:      p.State,
			Outputs:        p.Outputs,
		}, true

	case gateway.MsgKernelStatus:
		var p gateway.KernelStatus
		if err := gateway.Decode(env, &p); err != nil {
			log.Warnf("decode %s: %v", env.Type, err)
			return store.Action{}, false
		}
		return store.Action{Kind: store.SetKernelStatus, Status: p.Status}, true

	case gateway.MsgVariables:
		var p gateway.Variables
		if err := gateway.Decode(env, &p); err != nil {
			log.Warnf("decode %s: %v", env.Type, err)
			return store.Action{}, false
		}
		return store.Action{Kind: store.SetVariables, Variables: p.Variables}, true

	case gateway.MsgTokenizerReady:
		return store.Action{Kind: store.TokenizerReady}, true
	}
	return store.Action{}, false
}
