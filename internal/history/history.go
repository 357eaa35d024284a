package history

import (
	"strings"

	"nbterm/internal/notebook"
)

// InputHistory tracks up/down recall for the reserved edit cell.
// cursor == len(entries) means "at the live draft", not browsing.
type InputHistory struct {
	entries []Entry
	cursor  int
	draft   string
}

// ForCell returns a fresh history for the reserved edit cell and nil for
// every other identity. Ordinary cells never own a history.
func ForCell(id notebook.CellID) *InputHistory {
	if id != notebook.ReservedEditCellID {
		return nil
	}
	return &InputHistory{}
}

// Seed replaces the entries, e.g. from the persisted store.
func (h *InputHistory) Seed(entries []Entry) {
	if h == nil {
		return
	}
	h.entries = append([]Entry(nil), entries...)
	h.cursor = len(h.entries)
	h.draft = ""
}

// Add records a submitted input. changed tags whether the text differs from
// the baseline it was derived from.
func (h *InputHistory) Add(text string, changed bool) {
	if h == nil {
		return
	}
	text = strings.TrimRight(text, "\n")
	if strings.TrimSpace(text) == "" {
		return
	}
	h.entries = append(h.entries, Entry{Text: text, Changed: changed})
	h.cursor = len(h.entries)
	h.draft = ""
}

// Browsing reports whether the cursor sits inside history.
func (h *InputHistory) Browsing() bool {
	return h != nil && h.cursor < len(h.entries)
}

// ResetBrowsing snaps the cursor back to the live draft position.
func (h *InputHistory) ResetBrowsing() {
	if h == nil {
		return
	}
	h.cursor = len(h.entries)
	h.draft = ""
}

// Prev steps backwards, stashing the current draft on first entry.
func (h *InputHistory) Prev(current string) (string, bool) {
	if h == nil || len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == len(h.entries) {
		h.draft = current
	}
	if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor].Text, true
}

// Next steps forwards, restoring the draft when leaving history.
func (h *InputHistory) Next() (string, bool) {
	if h == nil || len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == len(h.entries) {
		return "", false
	}
	if h.cursor < len(h.entries)-1 {
		h.cursor++
		return h.entries[h.cursor].Text, true
	}
	h.cursor = len(h.entries)
	return h.draft, true
}

// Entries returns a copy of the recorded entries.
func (h *InputHistory) Entries() []Entry {
	if h == nil {
		return nil
	}
	return append([]Entry(nil), h.entries...)
}

// Len returns the number of recorded entries.
func (h *InputHistory) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}
