package tui

import (
	"context"
	"reflect"
	"strings"
	"time"

	"nbterm/internal/history"
	"nbterm/internal/logger"
	"nbterm/internal/notebook"
	"nbterm/internal/store"
	"nbterm/internal/tui/render"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// flashDuration is how long the attention highlight stays on a cell.
const flashDuration = 1000 * time.Millisecond

// dispatcher is the one-way call interface into the shared store.
type dispatcher interface {
	Dispatch(ctx context.Context, a store.Action) error
}

// CellProps is the full input snapshot for one cell render pass. Two
// deeply-equal snapshots must produce the same output, which is what makes
// the update-skip gate safe.
type CellProps struct {
	Cell  notebook.CellVM
	Width int
	Flash bool
}

// flashClearMsg removes the transient highlight; seq guards stale timers.
type flashClearMsg struct {
	id  notebook.CellID
	seq int
}

// focusNextMsg asks the editor view to move focus to the next focusable
// cell after the given one, wrapping at the end.
type focusNextMsg struct {
	from notebook.CellID
}

// CellView renders a single cell and translates key events into actions.
// It holds no shared truth: everything it shows arrives through CellProps.
type CellView struct {
	id       notebook.CellID
	dispatch dispatcher
	styles   render.Styles
	log      *logger.LogEntry

	editor    textarea.Model
	hasEditor bool
	baseline  string

	// hist is non-nil only for the reserved edit cell.
	hist      *history.InputHistory
	histStore *history.Store

	props       *CellProps
	lines       []render.Line
	renderCount int

	focused  bool
	flashing bool
	flashSeq int
}

// NewCellView builds the component for one cell identity. The input
// history is created lazily and only for the reserved edit cell.
func NewCellView(id notebook.CellID, d dispatcher, styles render.Styles, histStore *history.Store) *CellView {
	cv := &CellView{
		id:        id,
		dispatch:  d,
		styles:    styles,
		histStore: histStore,
		log:       logger.Named("cellview"),
	}
	if hist := history.ForCell(id); hist != nil {
		cv.hist = hist
		if histStore != nil {
			if entries, err := histStore.Load(); err == nil {
				cv.hist.Seed(entries)
			}
		}
	}
	return cv
}

// ID returns the cell identity this view renders.
func (cv *CellView) ID() notebook.CellID { return cv.id }

// Update re-renders when the props snapshot changed. Returns false when the
// render body was skipped because the snapshot is deeply equal to the
// previous pass. Skipping is a performance contract only; props are treated
// as immutable either way.
func (cv *CellView) Update(props CellProps) bool {
	if cv == nil {
		return false
	}
	if cv.props != nil && reflect.DeepEqual(*cv.props, props) {
		return false
	}
	snapshot := props
	cv.props = &snapshot
	cv.lines = render.CellLines(props.Cell, cv.styles, props.Width, props.Flash || cv.flashing)
	cv.renderCount++
	return true
}

// Lines returns the current rendered block.
func (cv *CellView) Lines() []render.Line {
	if cv == nil {
		return nil
	}
	return cv.lines
}

// Height returns the current rendered height in lines. The reserved edit
// cell adds its live editor below the rendered block.
func (cv *CellView) Height() int {
	if cv == nil {
		return 0
	}
	n := len(cv.lines)
	if cv.editorActive() {
		n += cv.editor.Height()
	}
	return n
}

// Focus gives the outer container focus; when alsoEditor is set and the
// cell is a code cell, the inner editor takes focus at its current cursor
// position.
func (cv *CellView) Focus(alsoEditor bool) tea.Cmd {
	if cv == nil {
		return nil
	}
	cv.focused = true
	if !alsoEditor || cv.props == nil || cv.props.Cell.Kind != notebook.KindCode {
		return nil
	}
	cv.ensureEditor()
	return cv.editor.Focus()
}

// Blur drops both container and editor focus. Edits left in an ordinary
// cell's editor are synced to the store; the reserved cell's draft stays
// local until submit.
func (cv *CellView) Blur() tea.Cmd {
	if cv == nil {
		return nil
	}
	cv.focused = false
	if !cv.hasEditor {
		return nil
	}
	cv.editor.Blur()
	if cv.id == notebook.ReservedEditCellID {
		return nil
	}
	text := cv.editor.Value()
	if text == cv.baseline || cv.dispatch == nil {
		return nil
	}
	cv.baseline = text
	id := cv.id
	d := cv.dispatch
	return func() tea.Msg {
		_ = d.Dispatch(context.Background(), store.Action{
			Kind: store.EditCell,
			Cell: id,
			Text: text,
		})
		return nil
	}
}

// Focused reports whether the outer container has focus.
func (cv *CellView) Focused() bool { return cv != nil && cv.focused }

// Flash applies the transient attention highlight and schedules its
// removal. The caller is responsible for scrolling the cell into view.
func (cv *CellView) Flash() tea.Cmd {
	if cv == nil {
		return nil
	}
	cv.flashing = true
	cv.flashSeq++
	cv.rerender()
	seq := cv.flashSeq
	id := cv.id
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashClearMsg{id: id, seq: seq}
	})
}

// clearFlash handles the deferred removal; stale timers no-op.
func (cv *CellView) clearFlash(seq int) {
	if cv == nil || !cv.flashing || seq != cv.flashSeq {
		return
	}
	cv.flashing = false
	cv.rerender()
}

// rerender recomputes lines from the cached props, bypassing the gate.
func (cv *CellView) rerender() {
	if cv.props == nil {
		return
	}
	cv.lines = render.CellLines(cv.props.Cell, cv.styles, cv.props.Width, cv.props.Flash || cv.flashing)
	cv.renderCount++
}

// HandleKey processes a key while this cell has focus. suggesting reports
// whether a completion surface is open above the editor; escape then
// belongs to that surface, not to focus traversal.
func (cv *CellView) HandleKey(msg tea.KeyMsg, suggesting bool) (tea.Cmd, bool) {
	if cv == nil {
		return nil, false
	}
	switch msg.String() {
	case "ctrl+j", "ctrl+enter":
		// Submit chord: modifier held together with the line-break key.
		if cv.editorActive() {
			return cv.submit(), true
		}
	case "esc":
		if suggesting {
			return nil, false
		}
		from := cv.id
		return func() tea.Msg { return focusNextMsg{from: from} }, true
	case "up":
		if cv.hist != nil && cv.editorActive() && cv.editorAtTop() {
			if text, ok := cv.hist.Prev(cv.editor.Value()); ok {
				cv.editor.SetValue(text)
			}
			return nil, true
		}
	case "down":
		if cv.hist != nil && cv.editorActive() && cv.hist.Browsing() && cv.editorAtBottom() {
			if text, ok := cv.hist.Next(); ok {
				cv.editor.SetValue(text)
			}
			return nil, true
		}
	}

	if cv.editorActive() {
		var cmd tea.Cmd
		cv.editor, cmd = cv.editor.Update(msg)
		// Typing ends a history browse; the recalled entry becomes the text
		// being edited.
		if cv.hist.Browsing() && editsText(msg) {
			cv.hist.ResetBrowsing()
		}
		return cmd, true
	}
	return nil, false
}

// editsText reports whether the key mutates the editor content.
func editsText(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace, tea.KeyBackspace, tea.KeyDelete, tea.KeyEnter:
		return true
	}
	return false
}

// submit trims trailing blank lines, records history, clears the editor
// and dispatches the input. The key event is always consumed.
func (cv *CellView) submit() tea.Cmd {
	text := trimTrailingBlankLines(cv.editor.Value())
	if strings.TrimSpace(text) == "" {
		return nil
	}
	changed := text != cv.baseline
	if cv.hist != nil {
		cv.hist.Add(text, changed)
		if cv.histStore != nil {
			if err := cv.histStore.Append(history.Entry{Text: text, Changed: changed}); err != nil {
				cv.log.Warnf("history append failed: %v", err)
			}
		}
	}
	cv.editor.Reset()
	if cv.dispatch == nil {
		return nil
	}
	id := cv.id
	d := cv.dispatch
	return func() tea.Msg {
		_ = d.Dispatch(context.Background(), store.Action{
			Kind: store.SubmitInput,
			Cell: id,
			Text: text,
		})
		return nil
	}
}

// Toolbar operations; each is a single action parameterized by identity.
// Missing dispatcher or cell data silently no-ops.

func (cv *CellView) GotoSource() tea.Cmd   { return cv.action(store.GotoCell) }
func (cv *CellView) Delete() tea.Cmd       { return cv.action(store.DeleteCell) }
func (cv *CellView) CopyToSource() tea.Cmd { return cv.action(store.CopyCellCode) }
func (cv *CellView) Gather() tea.Cmd       { return cv.action(store.GatherCell) }

func (cv *CellView) action(kind store.Kind) tea.Cmd {
	if cv == nil || cv.dispatch == nil {
		return nil
	}
	id := cv.id
	d := cv.dispatch
	return func() tea.Msg {
		_ = d.Dispatch(context.Background(), store.Action{Kind: kind, Cell: id})
		return nil
	}
}

// EditorView renders the live editor below the cell block when active.
func (cv *CellView) EditorView() string {
	if cv == nil || !cv.editorActive() {
		return ""
	}
	return cv.editor.View()
}

// SetEditorWidth resizes the inner editor.
func (cv *CellView) SetEditorWidth(width int) {
	if cv == nil || !cv.hasEditor {
		return
	}
	cv.editor.SetWidth(width)
}

func (cv *CellView) ensureEditor() {
	if cv.hasEditor {
		return
	}
	ti := textarea.New()
	ti.Prompt = "› "
	ti.CharLimit = 0
	ti.ShowLineNumbers = false
	ti.SetHeight(1)
	if cv.props != nil {
		if w := cv.props.Width; w > 4 {
			ti.SetWidth(w - 2)
		}
		ti.SetValue(cv.props.Cell.Source)
		cv.baseline = cv.props.Cell.Source
	}
	cv.editor = ti
	cv.hasEditor = true
}

func (cv *CellView) editorActive() bool {
	return cv.hasEditor && cv.editor.Focused()
}

func (cv *CellView) editorAtTop() bool {
	return cv.editor.Line() == 0
}

func (cv *CellView) editorAtBottom() bool {
	return cv.editor.Line() >= cv.editor.LineCount()-1
}

// trimTrailingBlankLines drops trailing lines that are empty or whitespace.
func trimTrailingBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[:end], "\n")
}
