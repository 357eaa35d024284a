package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"nbterm/internal/gateway"
	"nbterm/internal/notebook"
	"nbterm/internal/store"
	"nbterm/internal/telemetry"

	tea "github.com/charmbracelet/bubbletea"
)

type countingSender struct {
	mu    sync.Mutex
	sends map[string]int
	last  map[string]any
}

func newCountingSender() *countingSender {
	return &countingSender{sends: map[string]int{}, last: map[string]any{}}
}

func (s *countingSender) Send(msgType string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sends[msgType]++
	s.last[msgType] = payload
	return nil
}

func (s *countingSender) count(msgType string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sends[msgType]
}

func (s *countingSender) lastPayload(msgType string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last[msgType]
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSaveChordPlatformSplit(t *testing.T) {
	if got := saveChord("darwin"); got != "cmd+s" {
		t.Fatalf("darwin chord = %q", got)
	}
	for _, platform := range []string{"linux", "windows", "freebsd"} {
		if got := saveChord(platform); got != "ctrl+s" {
			t.Fatalf("%s chord = %q", platform, got)
		}
	}
}

func TestSaveChordDispatchesOnceAndRecordsOnce(t *testing.T) {
	sender := newCountingSender()
	st := store.New(store.Options{Sender: sender})
	st.Start(context.Background())
	defer st.Close()

	m := New(Options{
		Store:     st,
		Telemetry: telemetry.New(sender),
		Theme:     notebook.DefaultTheme(),
		Platform:  "darwin",
	})

	cmd, handled := m.handleGlobalKey("cmd+s")
	if !handled {
		t.Fatal("save chord not handled")
	}
	runCmd(cmd)

	waitUntil(t, func() bool {
		return sender.count(gateway.MsgSave) >= 1 && sender.count(gateway.MsgNativeCommand) >= 1
	})
	if got := sender.count(gateway.MsgSave); got != 1 {
		t.Fatalf("save sent %d times, want exactly 1", got)
	}
	if got := sender.count(gateway.MsgNativeCommand); got != 1 {
		t.Fatalf("usage event sent %d times, want exactly 1", got)
	}
}

func TestSaveChordIgnoredOnOtherPlatforms(t *testing.T) {
	m := New(Options{Theme: notebook.DefaultTheme(), Platform: "linux"})
	if _, handled := m.handleGlobalKey("cmd+s"); handled {
		t.Fatal("cmd+s must not be the save chord off darwin")
	}
	if _, handled := m.handleGlobalKey("ctrl+s"); !handled {
		t.Fatal("ctrl+s must be the save chord off darwin")
	}
}

func TestTestModeSuppressesUsageEvents(t *testing.T) {
	sender := newCountingSender()
	m := New(Options{Telemetry: telemetry.New(sender), Theme: notebook.DefaultTheme(), Platform: "linux"})
	m.state.TestMode = true

	cmd, handled := m.handleGlobalKey("ctrl+s")
	if !handled {
		t.Fatal("save chord not handled")
	}
	runCmd(cmd)
	if got := sender.count(gateway.MsgNativeCommand); got != 0 {
		t.Fatalf("test mode sent %d usage events", got)
	}
}

func TestSelectionDefersUntilCellRenders(t *testing.T) {
	m := New(Options{Theme: notebook.DefaultTheme(), Platform: "linux"})
	m.ready = true
	m.width, m.height = 80, 24
	m.layout()

	// Selection names a cell the view tree has not rendered yet.
	m.state = store.State{Selected: "later"}
	runCmdAll(m.applyState())
	if m.focused != "" {
		t.Fatalf("focus landed on unrendered cell: %q", m.focused)
	}
	if m.pendingFocus != "later" {
		t.Fatalf("pendingFocus = %q, want parked selection", m.pendingFocus)
	}

	// The render pass that makes the cell real consumes the parked request.
	m.state = store.State{
		Selected: "later",
		Cells: []notebook.CellVM{
			{ID: "first", Kind: notebook.KindCode, Source: "x"},
			{ID: "later", Kind: notebook.KindCode, Source: "y"},
		},
	}
	runCmdAll(m.applyState())
	if m.focused != "later" {
		t.Fatalf("focused = %q, want %q", m.focused, "later")
	}
	if m.pendingFocus != "" {
		t.Fatalf("pendingFocus not consumed: %q", m.pendingFocus)
	}
}

func TestFocusNextSkipsMessageCellsAndWraps(t *testing.T) {
	m := New(Options{Theme: notebook.DefaultTheme(), Platform: "linux"})
	m.ready = true
	m.width, m.height = 80, 24
	m.state = store.State{
		Cells: []notebook.CellVM{
			{ID: "a", Kind: notebook.KindCode, Source: "x"},
			{ID: "m", Kind: notebook.KindMessage, Source: "note"},
			{ID: "b", Kind: notebook.KindCode, Source: "y"},
		},
	}
	runCmdAll(m.applyState())

	runCmd(m.focusNext("a"))
	if m.focused != "b" {
		t.Fatalf("focused = %q, want %q (message cell skipped)", m.focused, "b")
	}

	runCmd(m.focusNext("b"))
	if m.focused != "a" {
		t.Fatalf("focused = %q, want wraparound to %q", m.focused, "a")
	}
}

func TestScrollDebounceOnlyNewestTimerFires(t *testing.T) {
	st := store.New(store.Options{Sender: newCountingSender()})
	st.Start(context.Background())
	defer st.Close()

	m := New(Options{Store: st, Theme: notebook.DefaultTheme(), Platform: "linux", Debounce: time.Millisecond})
	m.ready = true
	m.width, m.height = 80, 10
	m.layout()
	m.state = store.State{
		Cells: []notebook.CellVM{
			{ID: "a", Kind: notebook.KindCode, Source: "x", QuickEdit: true},
		},
	}
	runCmdAll(m.applyState())

	_ = m.scheduleScroll()
	stale := m.scrollSeq
	_ = m.scheduleScroll()

	if _, cmd := m.Update(scrollDebounceMsg{seq: stale}); cmd != nil {
		t.Fatal("stale debounce timer must be a no-op")
	}
	if _, cmd := m.Update(scrollDebounceMsg{seq: m.scrollSeq}); cmd == nil {
		t.Fatal("newest debounce timer must trigger the visibility scan")
	}
}

func TestDoubleClickReportsMouseModality(t *testing.T) {
	sender := newCountingSender()
	st := store.New(store.Options{Sender: sender})
	st.Start(context.Background())
	defer st.Close()

	m := New(Options{Store: st, Theme: notebook.DefaultTheme(), Platform: "linux"})
	m.ready = true
	m.width, m.height = 80, 10
	m.layout()
	m.state = store.State{
		Cells: []notebook.CellVM{
			{ID: "a", Kind: notebook.KindCode, Source: "x = 1"},
		},
	}
	runCmdAll(m.applyState())

	click := tea.MouseMsg{Y: 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
	_, cmd := m.handleMouse(click)
	runCmd(cmd)
	_, cmd = m.handleMouse(click)
	runCmd(cmd)

	waitUntil(t, func() bool { return sender.count(gateway.MsgNativeCommand) >= 1 })
	if got := sender.count(gateway.MsgNativeCommand); got != 1 {
		t.Fatalf("usage event sent %d times, want exactly 1", got)
	}
	payload, ok := sender.lastPayload(gateway.MsgNativeCommand).(gateway.NativeCommand)
	if !ok {
		t.Fatalf("unexpected payload type: %#v", sender.lastPayload(gateway.MsgNativeCommand))
	}
	if payload.Command != "edit_cell" || payload.Source != telemetry.SourceMouse {
		t.Fatalf("payload = %+v, want edit_cell from the mouse", payload)
	}
}

func TestDoubleClickStaysQuietInTestMode(t *testing.T) {
	sender := newCountingSender()
	st := store.New(store.Options{Sender: sender, Initial: store.State{TestMode: true}})
	st.Start(context.Background())
	defer st.Close()

	m := New(Options{Store: st, Theme: notebook.DefaultTheme(), Platform: "linux"})
	m.ready = true
	m.width, m.height = 80, 10
	m.layout()
	m.state = st.Snapshot()
	m.state.Cells = []notebook.CellVM{
		{ID: "a", Kind: notebook.KindCode, Source: "x = 1"},
	}
	runCmdAll(m.applyState())

	click := tea.MouseMsg{Y: 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
	_, cmd := m.handleMouse(click)
	runCmd(cmd)
	_, cmd = m.handleMouse(click)
	runCmd(cmd)

	if got := sender.count(gateway.MsgNativeCommand); got != 0 {
		t.Fatalf("test mode sent %d usage events", got)
	}
}

func runCmdAll(cmds []tea.Cmd) {
	for _, cmd := range cmds {
		runCmd(cmd)
	}
}
