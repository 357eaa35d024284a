package gateway

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"nbterm/internal/notebook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendWritesOneLinePerMessage(t *testing.T) {
	var buf bytes.Buffer
	g := New(&buf)

	require.NoError(t, g.Send(MsgNativeCommand, NativeCommand{Command: "save", Source: "keyboard"}))
	require.NoError(t, g.Send(MsgSave, nil))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"type":"native_command"`)
	assert.Contains(t, lines[0], `"command":"save"`)
	assert.Contains(t, lines[1], `"type":"save"`)
	assert.NotContains(t, lines[1], "payload")
}

func TestSendNilWriterNoOps(t *testing.T) {
	var g *Gateway
	assert.NoError(t, g.Send(MsgSave, nil))
	assert.NoError(t, New(nil).Send(MsgSave, nil))
}

func TestListenDecodesFramesAndSkipsGarbage(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"kernel_status","payload":{"status":"busy"}}`,
		`not json`,
		``,
		`{"payload":{}}`,
		`{"type":"cell_executed","payload":{"cell":"c1","execution_count":3,"state":2,"outputs":[{"mime_type":"text/plain","data":"42"}]}}`,
	}, "\n")

	var got []Envelope
	g := New(nil)
	err := g.Listen(context.Background(), strings.NewReader(input), func(env Envelope) {
		got = append(got, env)
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	var status KernelStatus
	require.NoError(t, Decode(got[0], &status))
	assert.Equal(t, "busy", status.Status)

	var exec CellExecuted
	require.NoError(t, Decode(got[1], &exec))
	assert.Equal(t, notebook.CellID("c1"), exec.Cell)
	assert.Equal(t, 3, exec.ExecutionCount)
	assert.Equal(t, notebook.StateFinished, exec.State)
	require.Len(t, exec.Outputs, 1)
	assert.Equal(t, "42", exec.Outputs[0].Data)
}

func TestListenRequiresReaderAndHandler(t *testing.T) {
	g := New(nil)
	assert.Error(t, g.Listen(context.Background(), nil, func(Envelope) {}))
	assert.Error(t, g.Listen(context.Background(), strings.NewReader(""), nil))
}
