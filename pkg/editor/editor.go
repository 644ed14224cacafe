// Package editor owns the in-progress edit buffer for the single task being
// edited. Field updates accumulate in the buffer and are flushed as minimal
// diffs against the pre-edit record, debounced so a typing burst produces one
// persistence call instead of one per keystroke.
package editor

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"time"

	"tableflip.dev/metas/pkg/task"
)

// DefaultDelay is how long a burst of field updates settles before the
// pending patch is sent.
const DefaultDelay = 500 * time.Millisecond

// ErrNoSession is returned when a field update arrives with no task open.
var ErrNoSession = errors.New("editor: no task open for editing")

// Saver is the slice of the persistence contract the editor needs. Failures
// are reported, never retried, and never rolled back locally; the buffer
// stays editable so the user can re-trigger a save.
type Saver interface {
	UpdateTask(ctx context.Context, id string, fields map[string]any) error
}

// Option configures an Editor.
type Option func(*Editor)

// WithDelay overrides the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(e *Editor) { e.delay = d }
}

// WithErrorFunc installs a callback for asynchronous save failures.
func WithErrorFunc(fn func(taskID string, err error)) Option {
	return func(e *Editor) { e.onError = fn }
}

// WithUndoDepth overrides the retained undo snapshot count.
func WithUndoDepth(n int) Option {
	return func(e *Editor) { e.undo.depth = n }
}

// New creates an Editor that persists through saver.
func New(saver Saver, opts ...Option) *Editor {
	e := &Editor{
		saver: saver,
		delay: DefaultDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Editor holds at most one edit session at a time plus the bounded undo log.
// It is safe for use from the event loop and the debounce timer concurrently.
type Editor struct {
	mu       sync.Mutex
	saver    Saver
	delay    time.Duration
	onError  func(taskID string, err error)
	undo     undoStack
	current  *session
	inFlight sync.WaitGroup
}

type session struct {
	id       string
	original map[string]any
	buffer   map[string]any
	timer    *time.Timer
}

// Open starts editing a task. The current record is snapshotted into the
// session for diffing and pushed onto the undo stack. Opening the task that
// is already open is a no-op; opening a different task closes the previous
// session first, flushing whatever it holds.
func (e *Editor) Open(ctx context.Context, t *task.Task) error {
	if t == nil || t.ID == "" {
		return errors.New("editor: task required")
	}
	e.mu.Lock()
	if e.current != nil {
		if e.current.id == t.ID {
			e.mu.Unlock()
			return nil
		}
		e.closeLocked(ctx)
	}
	e.current = &session{
		id:       t.ID,
		original: t.Fields(),
		buffer:   make(map[string]any),
	}
	e.undo.push(t.ID, t.Fields())
	e.mu.Unlock()
	return nil
}

// Editing reports the id of the open task, if any.
func (e *Editor) Editing() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return "", false
	}
	return e.current.id, true
}

// Set merges one field update into the buffer and restarts the debounce
// timer. Updates issued before the timer fires replace the pending commit
// rather than stacking commits.
func (e *Editor) Set(field string, value any) error {
	return e.Merge(map[string]any{field: value})
}

// Merge applies a multi-field update, e.g. a schedule category switch, as a
// single buffered change.
func (e *Editor) Merge(fields map[string]any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return ErrNoSession
	}
	for key, value := range fields {
		e.current.buffer[key] = value
	}
	if e.current.timer != nil {
		e.current.timer.Stop()
	}
	// Stop cannot catch a callback already fired and waiting on the mutex,
	// so the callback re-checks that its session is still the open one.
	s := e.current
	s.timer = time.AfterFunc(e.delay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.current != s {
			return
		}
		s.timer = nil
		e.flushLocked(context.Background())
	})
	return nil
}

// Flush sends the pending diff immediately, cancelling the debounce timer.
func (e *Editor) Flush(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return
	}
	if e.current.timer != nil {
		e.current.timer.Stop()
		e.current.timer = nil
	}
	e.flushLocked(ctx)
}

// Close flushes any pending change and ends the session. A pending debounce
// timer is cancelled; an in-flight save cannot be cancelled, only superseded.
func (e *Editor) Close(ctx context.Context) {
	e.mu.Lock()
	e.closeLocked(ctx)
	e.mu.Unlock()
}

// Undo pops the most recent pre-edit snapshot and persists it as a
// full-record restoration patch. It returns the restored task id, or
// ok=false when the stack is empty. Undo is synchronous; a failure leaves
// the popped entry consumed, matching last-write-wins semantics.
func (e *Editor) Undo(ctx context.Context) (string, bool, error) {
	e.mu.Lock()
	entry, ok := e.undo.pop()
	e.mu.Unlock()
	if !ok {
		return "", false, nil
	}
	if err := e.saver.UpdateTask(ctx, entry.taskID, entry.fields); err != nil {
		return entry.taskID, true, err
	}
	return entry.taskID, true, nil
}

// UndoDepthRemaining reports how many undo snapshots are retained.
func (e *Editor) UndoDepthRemaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undo.len()
}

func (e *Editor) closeLocked(ctx context.Context) {
	if e.current == nil {
		return
	}
	if e.current.timer != nil {
		e.current.timer.Stop()
		e.current.timer = nil
	}
	e.flushLocked(ctx)
	e.current = nil
}

// flushLocked computes the minimal patch and hands it off. The save runs in
// its own goroutine so the buffer stays editable while the call is in
// flight; two overlapping saves may land out of order, which the single-user
// assumption accepts as last-write-wins.
//
// Dispatched keys are folded into the original so a fully-flushed buffer
// diffs empty and a close after a timer flush sends nothing. A failed save
// restores the folded values, keeping the change pending for retry.
func (e *Editor) flushLocked(ctx context.Context) {
	s := e.current
	patch := Diff(s.original, s.buffer)
	if len(patch) == 0 {
		return
	}
	prior := make(map[string]any, len(patch))
	for key, value := range patch {
		prior[key] = s.original[key]
		s.original[key] = value
	}
	id := s.id
	onError := e.onError
	saver := e.saver
	e.inFlight.Add(1)
	go func() {
		defer e.inFlight.Done()
		err := saver.UpdateTask(ctx, id, patch)
		if err == nil {
			return
		}
		e.mu.Lock()
		if e.current == s {
			for key, value := range prior {
				// Skip keys a later flush has already moved past.
				if reflect.DeepEqual(s.original[key], patch[key]) {
					s.original[key] = value
				}
			}
		}
		e.mu.Unlock()
		if onError != nil {
			onError(id, err)
		}
	}()
}

// Drain blocks until every dispatched save has returned. Saves stay
// fire-and-forget while editing; Drain exists so a process can finish its
// writes before exiting.
func (e *Editor) Drain() {
	e.inFlight.Wait()
}
