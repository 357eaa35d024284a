package store

import (
	"context"
	"errors"
	"sync"

	"nbterm/internal/logger"
	"nbterm/internal/notebook"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
)

// ErrClosed reports a dispatch against a closed store.
var ErrClosed = errors.New("store closed")

// Sender is the outbound half of the host channel the store needs for its
// message effects.
type Sender interface {
	Send(msgType string, payload any) error
}

// Options configures a Store. Zero values get sensible defaults.
type Options struct {
	Sender    Sender
	Clipboard func(string) error
	Buffer    int
	NewID     func() notebook.CellID
	Initial   State
}

// Store is the single-writer state container. One worker goroutine drains
// the action queue, applies the reducer, executes effects and fans out
// snapshots; views only read snapshots and dispatch actions.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   []chan State
	closed bool

	actions chan Action
	sender  Sender
	clip    func(string) error
	newID   func() notebook.CellID
	log     *logger.LogEntry

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New creates a store; call Start before dispatching.
func New(opts Options) *Store {
	if opts.Buffer <= 0 {
		opts.Buffer = 64
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.NewID == nil {
		opts.NewID = func() notebook.CellID { return notebook.CellID(uuid.NewString()) }
	}
	st := opts.Initial
	ensureReservedEditCell(&st)
	return &Store{
		state:   st,
		actions: make(chan Action, opts.Buffer),
		sender:  opts.Sender,
		clip:    opts.Clipboard,
		newID:   opts.NewID,
		log:     logger.Named("store"),
	}
}

// Start launches the worker goroutine.
func (s *Store) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		runCtx, cancel := context.WithCancel(ctx)
		s.cancel = cancel
		s.wg.Add(1)
		go s.worker(runCtx)
	})
}

// Close stops the worker and closes all subscriber channels.
func (s *Store) Close() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.wg.Wait()

		s.mu.Lock()
		s.closed = true
		subs := s.subs
		s.subs = nil
		s.mu.Unlock()
		for _, ch := range subs {
			close(ch)
		}
	})
}

// Dispatch enqueues one action; it never blocks past ctx cancellation.
func (s *Store) Dispatch(ctx context.Context, a Action) error {
	if a.Kind == "" {
		return errors.New("action kind required")
	}
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.actions <- a:
		return nil
	}
}

// Subscribe returns a snapshot stream. The channel closes with the store;
// slow subscribers drop intermediate snapshots, never stale-reorder them.
func (s *Store) Subscribe() <-chan State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		ch := make(chan State)
		close(ch)
		return ch
	}
	ch := make(chan State, 1)
	s.subs = append(s.subs, ch)
	return ch
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Store) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		var first Action
		select {
		case <-ctx.Done():
			return
		case first = <-s.actions:
		}

		// Batch whatever else is already queued so one synchronous burst of
		// dispatches lands as a single published snapshot.
		batch := []Action{first}
	drain:
		for {
			select {
			case a := <-s.actions:
				batch = append(batch, a)
			default:
				break drain
			}
		}

		s.mu.Lock()
		next := s.state.clone()
		s.mu.Unlock()

		var effects []effect
		for _, a := range batch {
			var fx []effect
			next, fx = reduce(next, a, s.newID)
			effects = append(effects, fx...)
			s.log.WithField("kind", string(a.Kind)).Debug("applied action")
		}

		s.mu.Lock()
		s.state = next
		subs := append([]chan State(nil), s.subs...)
		s.mu.Unlock()

		for _, fx := range effects {
			s.runEffect(fx)
		}

		snap := next.clone()
		for _, ch := range subs {
			select {
			case ch <- snap:
			default:
				// Evict the stale snapshot so the subscriber always sees the
				// most recent state.
				select {
				case <-ch:
				default:
				}
				select {
				case ch <- snap:
				default:
				}
			}
		}
	}
}

func (s *Store) runEffect(fx effect) {
	switch e := fx.(type) {
	case sendEffect:
		if s.sender == nil {
			return
		}
		if err := s.sender.Send(e.msgType, e.payload); err != nil {
			s.log.WithField("type", e.msgType).Warnf("host send failed: %v", err)
		}
	case clipboardEffect:
		if s.clip == nil {
			return
		}
		if err := s.clip(e.text); err != nil {
			s.log.Warnf("clipboard write failed: %v", err)
		}
	}
}
