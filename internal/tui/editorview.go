package tui

import (
	"context"
	"runtime"
	"strings"
	"time"

	"nbterm/internal/features"
	"nbterm/internal/gateway"
	"nbterm/internal/history"
	"nbterm/internal/logger"
	"nbterm/internal/notebook"
	"nbterm/internal/store"
	"nbterm/internal/telemetry"
	"nbterm/internal/tui/render"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// defaultScrollDebounce is the quiet period after the last scroll step
// before the visibility scan runs.
const defaultScrollDebounce = 100 * time.Millisecond

// doubleClickWindow is the widest gap between two clicks on the same cell
// that still counts as a double click.
const doubleClickWindow = 400 * time.Millisecond

// saveChord is the platform save shortcut.
func saveChord(platform string) string {
	if platform == "darwin" {
		return "cmd+s"
	}
	return "ctrl+s"
}

// Options configures the editor view. Zero values get sensible defaults.
type Options struct {
	Store        *store.Store
	Telemetry    *telemetry.Recorder
	HistoryStore *history.Store
	Theme        notebook.Theme
	Platform     string
	Debounce     time.Duration

	// Feature resolves feature flags; nil falls back to stage defaults.
	Feature func(key string) bool
}

// stateMsg carries one store snapshot into the update loop.
type stateMsg store.State

// scrollDebounceMsg fires after the scroll quiet period; seq guards stale
// timers the same way the flash timer does.
type scrollDebounceMsg struct {
	seq int
}

// focusCellMsg is a deferred focus request, delivered after the render
// pass that made the target cell real.
type focusCellMsg struct {
	id     notebook.CellID
	editor bool
}

// EditorView is the notebook surface: it owns the cell views, the scroll
// viewport and the global key map, and renders everything from store
// snapshots.
type EditorView struct {
	store     *store.Store
	tel       *telemetry.Recorder
	histStore *history.Store
	styles    render.Styles
	log       *logger.LogEntry

	state  store.State
	states <-chan store.State

	cells map[notebook.CellID]*CellView
	order []notebook.CellID
	bands []cellBand

	vp   viewport.Model
	spin spinner.Model

	width  int
	height int
	ready  bool

	saveKey   string
	debounce  time.Duration
	scrollSeq int
	settled   bool

	// pendingFocus parks a selection that arrived before its cell rendered.
	pendingFocus notebook.CellID
	focused      notebook.CellID

	palette *cellPalette
	feature func(string) bool

	lastClickID notebook.CellID
	lastClickAt time.Time
}

// New builds the editor view over a started store.
func New(opts Options) *EditorView {
	if opts.Platform == "" {
		opts.Platform = runtime.GOOS
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultScrollDebounce
	}
	if opts.Feature == nil {
		opts.Feature = features.DefaultEnabled
	}
	m := &EditorView{
		store:     opts.Store,
		tel:       opts.Telemetry,
		histStore: opts.HistoryStore,
		styles:    render.NewStyles(opts.Theme),
		log:       logger.Named("editorview"),
		cells:     map[notebook.CellID]*CellView{},
		spin:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		saveKey:   saveChord(opts.Platform),
		debounce:  opts.Debounce,
		feature:   opts.Feature,
	}
	if opts.Store != nil {
		m.state = opts.Store.Snapshot()
		m.states = opts.Store.Subscribe()
	}
	return m
}

func (m *EditorView) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.listen())
}

// listen blocks on the snapshot stream; each received snapshot re-arms it.
func (m *EditorView) listen() tea.Cmd {
	states := m.states
	if states == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-states
		if !ok {
			return nil
		}
		return stateMsg(s)
	}
}

func (m *EditorView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		cmds := m.applyState()
		return m, tea.Batch(cmds...)

	case stateMsg:
		m.state = store.State(msg)
		cmds := m.applyState()
		cmds = append(cmds, m.listen())
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !m.state.Busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case scrollDebounceMsg:
		if msg.seq == m.scrollSeq {
			return m, m.promoteVisible()
		}
		return m, nil

	case flashClearMsg:
		if cv, ok := m.cells[msg.id]; ok {
			cv.clearFlash(msg.seq)
			m.refreshContent()
		}
		return m, nil

	case focusCellMsg:
		return m, m.focusCell(msg.id, msg.editor)

	case focusNextMsg:
		return m, m.focusNext(msg.from)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m *EditorView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.palette != nil {
		cmd, done := m.palette.HandleKey(msg)
		if done {
			m.palette = nil
		}
		return m, cmd
	}

	if cv, ok := m.cells[m.focused]; ok && cv.Focused() {
		if cmd, consumed := cv.HandleKey(msg, false); consumed {
			m.refreshContent()
			return m, cmd
		}
	}

	cmd, handled := m.handleGlobalKey(msg.String())
	if handled {
		return m, cmd
	}
	return m, nil
}

// handleGlobalKey maps chords that apply regardless of cell focus. Taking
// a plain string keeps the chord table exercisable without key events.
func (m *EditorView) handleGlobalKey(key string) (tea.Cmd, bool) {
	if key == m.saveKey {
		// One action, one usage event per chord press.
		cmds := []tea.Cmd{m.dispatch(store.Action{Kind: store.Save})}
		cmds = append(cmds, m.record("save"))
		return tea.Batch(cmds...), true
	}

	if cmd, ok := toolbarCommands[key]; ok {
		if cmd.kind == store.ToggleVariableExplorer && !m.feature("variable_explorer") {
			return nil, true
		}
		cmds := []tea.Cmd{m.dispatch(store.Action{Kind: cmd.kind, Cell: m.state.Selected})}
		cmds = append(cmds, m.record(cmd.command))
		return tea.Batch(cmds...), true
	}

	switch key {
	case "ctrl+p":
		if m.feature("goto_palette") {
			m.palette = newCellPalette(m.state.Cells, m.styles, m.dispatch)
		}
		return nil, true
	case "tab":
		return m.focusNext(m.focused), true
	case "up":
		m.vp.LineUp(1)
		return m.scheduleScroll(), true
	case "down":
		m.vp.LineDown(1)
		return m.scheduleScroll(), true
	case "pgup":
		m.vp.ViewUp()
		return m.scheduleScroll(), true
	case "pgdown":
		m.vp.ViewDown()
		return m.scheduleScroll(), true
	case "home":
		m.vp.GotoTop()
		return m.scheduleScroll(), true
	case "end":
		m.vp.GotoBottom()
		return m.scheduleScroll(), true
	case "enter":
		if id := m.state.Selected; id != "" {
			cmds := []tea.Cmd{m.dispatch(store.Action{Kind: store.DoubleClickCell, Cell: id})}
			cmds = append(cmds, m.focusCell(id, true))
			return tea.Batch(cmds...), true
		}
	case "ctrl+c", "ctrl+q":
		return tea.Quit, true
	}
	return nil, false
}

func (m *EditorView) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.vp.LineUp(3)
		return m, m.scheduleScroll()
	case tea.MouseButtonWheelDown:
		m.vp.LineDown(3)
		return m, m.scheduleScroll()
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		id, ok := m.cellAtRow(m.vp.YOffset + msg.Y - 1)
		if !ok {
			return m, nil
		}
		now := time.Now()
		double := id == m.lastClickID && now.Sub(m.lastClickAt) <= doubleClickWindow
		m.lastClickID = id
		m.lastClickAt = now
		if double {
			cmds := []tea.Cmd{m.dispatch(store.Action{Kind: store.DoubleClickCell, Cell: id})}
			if !m.state.TestMode {
				cmds = append(cmds, m.dispatch(store.Action{
					Kind:        store.SendMessage,
					MessageType: gateway.MsgNativeCommand,
					Payload:     gateway.NativeCommand{Command: "edit_cell", Source: telemetry.SourceMouse},
				}))
			}
			cmds = append(cmds, m.focusCell(id, true))
			return m, tea.Batch(cmds...)
		}
		return m, m.dispatch(store.Action{Kind: store.ClickCell, Cell: id})
	}
	return m, nil
}

// cellAtRow resolves a content row back to the cell band covering it.
func (m *EditorView) cellAtRow(row int) (notebook.CellID, bool) {
	for _, b := range m.bands {
		if row >= b.top && row < b.top+b.height {
			return b.id, true
		}
	}
	return "", false
}

// applyState folds a new snapshot into the view tree and returns the
// follow-up commands it produced.
func (m *EditorView) applyState() []tea.Cmd {
	var cmds []tea.Cmd

	seen := map[notebook.CellID]bool{}
	m.order = m.order[:0]
	for _, c := range m.state.Cells {
		seen[c.ID] = true
		m.order = append(m.order, c.ID)
		cv, ok := m.cells[c.ID]
		if !ok {
			cv = NewCellView(c.ID, m.store, m.styles, m.histStore)
			m.cells[c.ID] = cv
		}
		cv.Update(CellProps{Cell: c, Width: m.contentWidth()})
	}
	for id := range m.cells {
		if !seen[id] {
			delete(m.cells, id)
			if m.focused == id {
				m.focused = ""
			}
		}
	}

	m.refreshContent()

	// A selection that arrived before its cell rendered is parked until the
	// pass that makes it real.
	if sel := m.state.Selected; sel != "" && sel != m.focused {
		if _, ok := m.cells[sel]; ok {
			cmds = append(cmds, m.focusCell(sel, false))
			m.pendingFocus = ""
		} else {
			m.pendingFocus = sel
		}
	} else if m.pendingFocus != "" {
		if _, ok := m.cells[m.pendingFocus]; ok {
			cmds = append(cmds, m.focusCell(m.pendingFocus, false))
			m.pendingFocus = ""
		}
	}

	// A freshly inserted cell scrolls into view, flashes, then takes editor
	// focus on the next pass; the marker is consumed exactly once.
	if id := m.state.NewCellID; id != "" {
		if cv, ok := m.cells[id]; ok {
			m.scrollTo(id)
			if m.feature("flash_highlight") {
				cmds = append(cmds, cv.Flash())
			}
			cmds = append(cmds, func() tea.Msg { return focusCellMsg{id: id, editor: true} })
			cmds = append(cmds, m.dispatch(store.Action{Kind: store.ClearNewCellMarker, Cell: id}))
		}
	}

	// First pass after hydration runs the visibility scan once so cells in
	// the initial viewport promote without waiting for a scroll.
	if !m.settled && len(m.state.Cells) > 0 && m.ready {
		m.settled = true
		cmds = append(cmds, m.scheduleScroll())
	}
	return cmds
}

// refreshContent recomposes the viewport from the per-cell line blocks and
// records each cell's band for hit-testing and the visibility scan.
func (m *EditorView) refreshContent() {
	m.bands = m.bands[:0]
	var content []string
	top := 0
	for _, id := range m.order {
		cv, ok := m.cells[id]
		if !ok {
			continue
		}
		block := render.LinesToStrings(cv.Lines())
		if ev := cv.EditorView(); ev != "" {
			block = append(block, strings.Split(ev, "\n")...)
		}
		c, _ := m.state.Cell(id)
		m.bands = append(m.bands, cellBand{
			id:        id,
			top:       top,
			height:    len(block),
			quickEdit: c.QuickEdit,
		})
		content = append(content, block...)
		top += len(block)
	}
	m.vp.SetContent(strings.Join(content, "\n"))
}

// scheduleScroll arms (or re-arms) the debounce timer; only the newest
// timer's message survives the seq check.
func (m *EditorView) scheduleScroll() tea.Cmd {
	m.scrollSeq++
	seq := m.scrollSeq
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return scrollDebounceMsg{seq: seq}
	})
}

// promoteVisible asks the store to promote every quick-edit cell whose
// band intersects the settled viewport.
func (m *EditorView) promoteVisible() tea.Cmd {
	ids := visibleQuickEditCells(m.bands, m.vp.YOffset, m.vp.Height)
	if len(ids) == 0 {
		return nil
	}
	return m.dispatch(store.Action{Kind: store.PromoteCells, IDs: ids})
}

// focusCell moves keyboard focus, notifying the store of the selection.
func (m *EditorView) focusCell(id notebook.CellID, editor bool) tea.Cmd {
	cv, ok := m.cells[id]
	if !ok {
		m.pendingFocus = id
		return nil
	}
	var cmds []tea.Cmd
	if prev, ok := m.cells[m.focused]; ok && m.focused != id {
		if cmd := prev.Blur(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	m.focused = id
	if cmd := cv.Focus(editor); cmd != nil {
		cmds = append(cmds, cmd)
	}
	m.scrollTo(id)
	m.refreshContent()
	if m.state.Selected != id {
		cmds = append(cmds, m.dispatch(store.Action{Kind: store.SelectCell, Cell: id}))
	}
	return tea.Batch(cmds...)
}

// focusNext cycles focus to the next focusable cell after from, wrapping
// at the end. Message cells never take focus.
func (m *EditorView) focusNext(from notebook.CellID) tea.Cmd {
	if len(m.order) == 0 {
		return nil
	}
	start := 0
	for i, id := range m.order {
		if id == from {
			start = i + 1
			break
		}
	}
	for off := 0; off < len(m.order); off++ {
		id := m.order[(start+off)%len(m.order)]
		c, ok := m.state.Cell(id)
		if !ok || c.Kind == notebook.KindMessage {
			continue
		}
		if id == from {
			continue
		}
		return m.focusCell(id, false)
	}
	return nil
}

// scrollTo nudges the viewport the minimal amount that makes the cell's
// band fully visible, or pins its top when the band is taller.
func (m *EditorView) scrollTo(id notebook.CellID) {
	for _, b := range m.bands {
		if b.id != id {
			continue
		}
		switch {
		case b.height >= m.vp.Height || b.top < m.vp.YOffset:
			m.vp.SetYOffset(b.top)
		case b.top+b.height > m.vp.YOffset+m.vp.Height:
			m.vp.SetYOffset(b.top + b.height - m.vp.Height)
		}
		return
	}
}

func (m *EditorView) dispatch(a store.Action) tea.Cmd {
	if m.store == nil {
		return nil
	}
	st := m.store
	log := m.log
	return func() tea.Msg {
		if err := st.Dispatch(context.Background(), a); err != nil {
			log.Warnf("dispatch %s failed: %v", a.Kind, err)
		}
		return nil
	}
}

// record emits one usage event; test mode keeps the host log quiet.
func (m *EditorView) record(command string) tea.Cmd {
	if m.tel == nil || m.state.TestMode {
		return nil
	}
	tel := m.tel
	return func() tea.Msg {
		tel.Command(command, telemetry.SourceKeyboard)
		return nil
	}
}

// layout distributes terminal rows: status line, cell viewport, optional
// variable panel, toolbar hints.
func (m *EditorView) layout() {
	vpHeight := m.height - 2
	if m.state.VariablesVisible {
		vpHeight -= variablePanelHeight(m.state.Variables)
	}
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.vp.Width = m.width
	m.vp.Height = vpHeight
}

func (m *EditorView) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m *EditorView) View() string {
	if !m.ready {
		return "loading notebook…"
	}
	m.layout()

	var b strings.Builder
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	switch {
	case !m.state.TokenizerLoaded && !m.state.TestMode:
		// The cell list waits for the host tokenizer so the first paint is
		// already highlighted.
		b.WriteString(m.styles.Muted.Render("preparing notebook…"))
	case m.palette != nil:
		b.WriteString(m.palette.View(m.vp.Width, m.vp.Height))
	default:
		b.WriteString(m.vp.View())
	}
	b.WriteString("\n")
	if m.state.VariablesVisible {
		b.WriteString(renderVariablePanel(m.state.Variables, m.width))
		b.WriteString("\n")
	}
	b.WriteString(renderToolbarHints(m.styles, m.width, m.saveKey))
	return b.String()
}

func (m *EditorView) statusLine() string {
	var parts []string
	status := m.state.KernelStatus
	if status == "" {
		status = "disconnected"
	}
	parts = append(parts, m.styles.Accent.Render("kernel: "+status))
	if m.state.Busy && !m.state.TestMode {
		parts = append(parts, m.spin.View()+"running")
	}
	if m.state.Dirty {
		parts = append(parts, m.styles.Highlight.Render("● unsaved"))
	}
	if !m.state.TokenizerLoaded {
		parts = append(parts, m.styles.Muted.Render("highlighting off"))
	}
	return strings.Join(parts, m.styles.Muted.Render("  │  "))
}
