// Package app provides high-level operations over goals and their task
// trees. It wraps persistence, ordering, scheduling and the edit buffer so
// CLIs and UIs can share logic.
package app

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/metas/pkg/editor"
	"tableflip.dev/metas/pkg/finance"
	"tableflip.dev/metas/pkg/goal"
	"tableflip.dev/metas/pkg/order"
	"tableflip.dev/metas/pkg/schedule"
	"tableflip.dev/metas/pkg/store"
	"tableflip.dev/metas/pkg/task"
	"tableflip.dev/metas/pkg/tree"
)

var (
	errNoPersistence = errors.New("app: no persistence configured")

	// ErrNotFound is returned when the task id is missing from the snapshot.
	ErrNotFound = errors.New("app: task not found")
)

// Service combines the store with the core engine packages.
type Service struct {
	Persistence store.Persistence
	Editor      *editor.Editor

	// Clock supplies "today" for schedule defaults; nil means wall clock.
	Clock schedule.Clock
}

// New builds a Service whose editor persists through the given store.
func New(p store.Persistence, opts ...editor.Option) *Service {
	return &Service{
		Persistence: p,
		Editor:      editor.New(p, opts...),
	}
}

// Goals returns the goal catalog.
func (s *Service) Goals(ctx context.Context) ([]goal.Meta, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Goals(ctx), nil
}

// EnsureGoal makes sure the goal exists even when it has no tasks yet.
func (s *Service) EnsureGoal(ctx context.Context, meta goal.Meta) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	return s.Persistence.EnsureGoal(meta)
}

// Tree builds the ordered forest for one goal from a fresh snapshot.
func (s *Service) Tree(ctx context.Context, goalID string) ([]*tree.Node, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return tree.Build(s.Persistence.ListAll(ctx), goalID), nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Watch(ctx)
}

// Add creates a task appended after the last sibling under parentID (empty
// for a root task). An empty goal id is a UI precondition failure, not a
// data error, and silently no-ops.
func (s *Service) Add(ctx context.Context, goalID, parentID, title string, kind task.Kind) (*task.Task, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	if goalID == "" {
		return nil, nil
	}

	snapshot := s.Persistence.ListAll(ctx)
	level := 0
	if parentID != "" {
		parent := findTask(snapshot, parentID)
		if parent == nil || parent.GoalID != goalID {
			return nil, fmt.Errorf("%w: parent %s", ErrNotFound, parentID)
		}
		level = parent.Level + 1
	}

	t := task.New(goalID, title, kind)
	t.ID = store.NewID()
	t.ParentID = parentID
	t.Level = level
	t.Order = order.Allocate(tree.Siblings(snapshot, goalID, parentID, ""), order.After, "")
	t.Created = task.Now()

	if err := s.Persistence.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Reorder repositions a task among its current siblings. A reference id
// missing from the sibling set falls back to append-at-end.
func (s *Service) Reorder(ctx context.Context, id string, place order.Placement, refID string) (*task.Task, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	snapshot := s.Persistence.ListAll(ctx)
	t := findTask(snapshot, id)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	siblings := tree.Siblings(snapshot, t.GoalID, t.ParentID, t.ID)
	value := order.Allocate(siblings, place, refID)
	if err := s.Persistence.UpdateTask(ctx, id, map[string]any{task.FieldOrder: value}); err != nil {
		return nil, err
	}
	t.Order = value
	return t, nil
}

// Move reparents a task, appending it after the new parent's last child and
// fixing up the level of every descendant. An empty parent id moves the task
// to the root set.
func (s *Service) Move(ctx context.Context, id, parentID string) (*task.Task, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	snapshot := s.Persistence.ListAll(ctx)
	t := findTask(snapshot, id)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	level := 0
	if parentID != "" {
		parent := findTask(snapshot, parentID)
		if parent == nil || parent.GoalID != t.GoalID {
			return nil, fmt.Errorf("%w: parent %s", ErrNotFound, parentID)
		}
		if createsCycle(snapshot, id, parentID) {
			return nil, errors.New("app: move would create a cycle")
		}
		level = parent.Level + 1
	}

	value := order.Allocate(tree.Siblings(snapshot, t.GoalID, parentID, t.ID), order.After, "")
	patch := map[string]any{
		task.FieldParentID: parentID,
		task.FieldLevel:    level,
		task.FieldOrder:    value,
	}
	if err := s.Persistence.UpdateTask(ctx, id, patch); err != nil {
		return nil, err
	}

	// Children always sit one level below their parent; shift the whole
	// subtree by the same delta.
	delta := level - t.Level
	if delta != 0 {
		forest := tree.Build(snapshot, t.GoalID)
		if node := tree.Find(forest, id); node != nil {
			for _, desc := range tree.Flatten(node.Children) {
				fields := map[string]any{task.FieldLevel: desc.Level + delta}
				if err := s.Persistence.UpdateTask(ctx, desc.ID, fields); err != nil {
					return nil, err
				}
			}
		}
	}

	t.ParentID = parentID
	t.Level = level
	t.Order = value
	return t, nil
}

// Complete toggles the done flag through the edit buffer.
func (s *Service) Complete(ctx context.Context, id string) (*task.Task, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.edit(ctx, t, map[string]any{task.FieldDone: !t.Done}); err != nil {
		return nil, err
	}
	t.Done = !t.Done
	return t, nil
}

// Rename sets the task title.
func (s *Service) Rename(ctx context.Context, id, title string) (*task.Task, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.edit(ctx, t, map[string]any{task.FieldTitle: title}); err != nil {
		return nil, err
	}
	t.Title = title
	return t, nil
}

// SetPoints sets the point value for a task.
func (s *Service) SetPoints(ctx context.Context, id string, points int) (*task.Task, error) {
	if points <= 0 {
		return nil, fmt.Errorf("app: points must be positive, got %d", points)
	}
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.edit(ctx, t, map[string]any{task.FieldPoints: points}); err != nil {
		return nil, err
	}
	t.Points = points
	return t, nil
}

// SetExtra writes one extension field, rejecting keys that do not apply to
// the task's kind.
func (s *Service) SetExtra(ctx context.Context, id, key string, value any) (*task.Task, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !finance.Applies(t.Kind, key) && !scheduleKey(key) {
		return nil, fmt.Errorf("app: field %q does not apply to kind %q", key, t.Kind)
	}
	extra := task.CloneExtra(t.Extra)
	if extra == nil {
		extra = make(map[string]any)
	}
	extra[key] = value
	if err := s.edit(ctx, t, map[string]any{task.FieldExtra: extra}); err != nil {
		return nil, err
	}
	t.Extra = extra
	return t, nil
}

// SetCategory switches the task's schedule category, resetting the whole
// scheduling field bundle.
func (s *Service) SetCategory(ctx context.Context, id string, c schedule.Category) (*task.Task, error) {
	return s.reschedule(ctx, id, func(t *task.Task) map[string]any {
		return schedule.Switch(t, c, s.Clock)
	})
}

// SetDays replaces the weekly day selection.
func (s *Service) SetDays(ctx context.Context, id string, days []schedule.Day) (*task.Task, error) {
	return s.reschedule(ctx, id, func(t *task.Task) map[string]any {
		return schedule.SetDays(t, days, s.Clock)
	})
}

// SetMonthDay sets the day-of-month for a monthly task.
func (s *Service) SetMonthDay(ctx context.Context, id string, day int) (*task.Task, error) {
	if day < 1 || day > 31 {
		return nil, fmt.Errorf("app: day-of-month out of range: %d", day)
	}
	return s.reschedule(ctx, id, func(t *task.Task) map[string]any {
		return schedule.SetMonthDay(t, day, s.Clock)
	})
}

// SetDate pins a punctual task to a date (2006-01-02), defaulting to today
// when empty.
func (s *Service) SetDate(ctx context.Context, id, date string) (*task.Task, error) {
	return s.reschedule(ctx, id, func(t *task.Task) map[string]any {
		return schedule.SetDate(t, date, s.Clock)
	})
}

// SetTime sets the HH:MM time for whichever category the task currently has.
func (s *Service) SetTime(ctx context.Context, id, at string) (*task.Task, error) {
	return s.reschedule(ctx, id, func(t *task.Task) map[string]any {
		switch schedule.Derive(t) {
		case schedule.Weekly:
			return schedule.SetWeeklyTime(t, at, s.Clock)
		case schedule.Monthly:
			return schedule.SetMonthlyTime(t, at, s.Clock)
		default:
			patch := schedule.Switch(t, schedule.Punctual, s.Clock)
			patch[task.FieldTime] = at
			return patch
		}
	})
}

// Describe renders the task's schedule summary.
func (s *Service) Describe(t *task.Task) string {
	return schedule.Describe(t, s.Clock)
}

// Edit opens an editing session for the task and returns the editor as the
// session handle. Callers stream field updates through Set/Merge and end the
// session with Close; only one task is editable at a time.
func (s *Service) Edit(ctx context.Context, id string) (*editor.Editor, error) {
	if s.Editor == nil {
		return nil, errors.New("app: no editor configured")
	}
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Editor.Open(ctx, t); err != nil {
		return nil, err
	}
	return s.Editor, nil
}

// Undo restores the most recent pre-edit snapshot. The second return is
// false when there is nothing left to undo.
func (s *Service) Undo(ctx context.Context) (string, bool, error) {
	if s.Editor == nil {
		return "", false, errors.New("app: no editor configured")
	}
	return s.Editor.Undo(ctx)
}

// Drain waits for outstanding debounced saves. Call before process exit.
func (s *Service) Drain() {
	if s.Editor != nil {
		s.Editor.Drain()
	}
}

func (s *Service) reschedule(ctx context.Context, id string, fn func(*task.Task) map[string]any) (*task.Task, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	patch := fn(t)
	if err := s.edit(ctx, t, patch); err != nil {
		return nil, err
	}
	t.Apply(patch)
	return t, nil
}

// edit routes a field patch through the edit buffer: open, merge, close.
// The editor computes the minimal diff and skips the write entirely when
// nothing actually changed.
func (s *Service) edit(ctx context.Context, t *task.Task, fields map[string]any) error {
	if s.Editor == nil {
		return errors.New("app: no editor configured")
	}
	if err := s.Editor.Open(ctx, t); err != nil {
		return err
	}
	if err := s.Editor.Merge(fields); err != nil {
		return err
	}
	s.Editor.Close(ctx)
	return nil
}

func (s *Service) find(ctx context.Context, id string) (*task.Task, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	if t := findTask(s.Persistence.ListAll(ctx), id); t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func findTask(snapshot []*task.Task, id string) *task.Task {
	for _, t := range snapshot {
		if t != nil && t.ID == id {
			return t
		}
	}
	return nil
}

func createsCycle(snapshot []*task.Task, childID, candidateParentID string) bool {
	indexed := make(map[string]*task.Task, len(snapshot))
	for _, t := range snapshot {
		if t != nil && t.ID != "" {
			indexed[t.ID] = t
		}
	}
	// The snapshot may already contain a parent cycle; a visited set keeps
	// the walk finite and treats such a chain as not involving childID.
	visited := make(map[string]bool, len(indexed))
	current := candidateParentID
	for current != "" && !visited[current] {
		if current == childID {
			return true
		}
		visited[current] = true
		next := indexed[current]
		if next == nil {
			break
		}
		current = next.ParentID
	}
	return false
}

func scheduleKey(key string) bool {
	switch key {
	case task.ExtraFreq, task.ExtraUnscheduled, task.ExtraWeekDays,
		task.ExtraWeekTime, task.ExtraMonthDay, task.ExtraMonthTime:
		return true
	}
	return false
}
