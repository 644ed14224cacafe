package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tableflip.dev/metas/pkg/editor"
	"tableflip.dev/metas/pkg/goal"
	"tableflip.dev/metas/pkg/order"
	"tableflip.dev/metas/pkg/schedule"
	"tableflip.dev/metas/pkg/store"
	"tableflip.dev/metas/pkg/task"
)

// memoryPersistence keeps every task in a map, standing in for the diskv
// store in tests.
type memoryPersistence struct {
	mu    sync.Mutex
	tasks map[string]*task.Task
	goals map[string]goal.Meta
}

func newMemoryPersistence() *memoryPersistence {
	return &memoryPersistence{
		tasks: make(map[string]*task.Task),
		goals: make(map[string]goal.Meta),
	}
}

func (m *memoryPersistence) ListAll(_ context.Context) []*task.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*task.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t.Clone())
	}
	return out
}

func (m *memoryPersistence) List(ctx context.Context, goalID string) []*task.Task {
	var out []*task.Task
	for _, t := range m.ListAll(ctx) {
		if t.GoalID == goalID {
			out = append(out, t)
		}
	}
	return out
}

func (m *memoryPersistence) Goals(_ context.Context) []goal.Meta {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]goal.Meta, 0, len(m.goals))
	for _, g := range m.goals {
		out = append(out, g)
	}
	return out
}

func (m *memoryPersistence) Create(t *task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID] = t.Clone()
	if _, ok := m.goals[t.GoalID]; !ok {
		m.goals[t.GoalID] = goal.Meta{ID: t.GoalID, Name: t.GoalID}
	}
	return nil
}

func (m *memoryPersistence) UpdateTask(_ context.Context, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return store.ErrNotFound
	}
	t.Apply(fields)
	return nil
}

func (m *memoryPersistence) Delete(t *task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, t.ID)
	return nil
}

func (m *memoryPersistence) EnsureGoal(meta goal.Meta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals[meta.ID] = meta
	return nil
}

func (m *memoryPersistence) Watch(_ context.Context) (<-chan store.Event, error) {
	ch := make(chan store.Event)
	close(ch)
	return ch, nil
}

func (m *memoryPersistence) get(t *testing.T, id string) *task.Task {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	got, ok := m.tasks[id]
	if !ok {
		t.Fatalf("task %s not persisted", id)
	}
	return got.Clone()
}

func newService(p store.Persistence) *Service {
	s := New(p, editor.WithDelay(time.Millisecond))
	s.Clock = func() time.Time {
		return time.Date(2026, time.January, 12, 10, 0, 0, 0, time.UTC)
	}
	return s
}

func TestAddRootAndChildren(t *testing.T) {
	p := newMemoryPersistence()
	s := newService(p)
	ctx := context.Background()

	root, err := s.Add(ctx, "health", "", "work out", task.KindPhysical)
	if err != nil {
		t.Fatalf("add root: %v", err)
	}
	if root.Level != 0 || root.Order != order.Seed {
		t.Fatalf("expected level 0 order %d, got %d %v", order.Seed, root.Level, root.Order)
	}

	child, err := s.Add(ctx, "health", root.ID, "stretch", task.KindGeneric)
	if err != nil {
		t.Fatalf("add child: %v", err)
	}
	if child.Level != 1 || child.ParentID != root.ID {
		t.Fatalf("unexpected child placement: %+v", child)
	}
	if child.Order != order.Seed {
		t.Fatalf("first child should seed its own sibling group, got %v", child.Order)
	}

	second, err := s.Add(ctx, "health", root.ID, "run", task.KindGeneric)
	if err != nil {
		t.Fatalf("add second child: %v", err)
	}
	if second.Order != child.Order+order.Gap {
		t.Fatalf("expected append gap %d, got %v", order.Gap, second.Order)
	}
}

func TestAddEmptyGoalIsNoOp(t *testing.T) {
	p := newMemoryPersistence()
	s := newService(p)

	created, err := s.Add(context.Background(), "", "", "stray", task.KindGeneric)
	if err != nil || created != nil {
		t.Fatalf("expected silent no-op, got %v %v", created, err)
	}
	if len(p.ListAll(context.Background())) != 0 {
		t.Fatalf("expected nothing persisted")
	}
}

func TestAddUnknownParent(t *testing.T) {
	s := newService(newMemoryPersistence())
	if _, err := s.Add(context.Background(), "g", "ghost", "x", task.KindGeneric); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReorderBeforeAndAfter(t *testing.T) {
	p := newMemoryPersistence()
	s := newService(p)
	ctx := context.Background()

	t1, _ := s.Add(ctx, "g", "", "first", task.KindGeneric)
	t2, _ := s.Add(ctx, "g", "", "second", task.KindGeneric)
	t3, _ := s.Add(ctx, "g", "", "third", task.KindGeneric)

	// Insert t3 between t1 (1000) and t2 (2000): midpoint 1500.
	moved, err := s.Reorder(ctx, t3.ID, order.After, t1.ID)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if moved.Order != 1500 {
		t.Fatalf("expected midpoint 1500, got %v", moved.Order)
	}
	if got := p.get(t, t3.ID).Order; got != 1500 {
		t.Fatalf("expected persisted order 1500, got %v", got)
	}

	// Move t2 before the first sibling: min minus a gap.
	moved, err = s.Reorder(ctx, t2.ID, order.Before, t1.ID)
	if err != nil {
		t.Fatalf("reorder before: %v", err)
	}
	if moved.Order != float64(order.Seed-order.Gap) {
		t.Fatalf("expected %d, got %v", order.Seed-order.Gap, moved.Order)
	}
}

func TestReorderMissingReferenceAppends(t *testing.T) {
	p := newMemoryPersistence()
	s := newService(p)
	ctx := context.Background()

	t1, _ := s.Add(ctx, "g", "", "a", task.KindGeneric)
	t2, _ := s.Add(ctx, "g", "", "b", task.KindGeneric)

	moved, err := s.Reorder(ctx, t1.ID, order.After, "gone")
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if moved.Order != t2.Order+order.Gap {
		t.Fatalf("expected append fallback, got %v", moved.Order)
	}
}

func TestMoveReparentsSubtree(t *testing.T) {
	p := newMemoryPersistence()
	s := newService(p)
	ctx := context.Background()

	a, _ := s.Add(ctx, "g", "", "a", task.KindGeneric)
	b, _ := s.Add(ctx, "g", a.ID, "b", task.KindGeneric)
	c, _ := s.Add(ctx, "g", b.ID, "c", task.KindGeneric)
	top, _ := s.Add(ctx, "g", "", "top", task.KindGeneric)

	// Move b (with its child c) under top.
	moved, err := s.Move(ctx, b.ID, top.ID)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.ParentID != top.ID || moved.Level != 1 {
		t.Fatalf("unexpected placement: %+v", moved)
	}
	// c was at level 2 under b; it stays one below b.
	if got := p.get(t, c.ID); got.Level != 2 || got.ParentID != b.ID {
		t.Fatalf("descendant not shifted: %+v", got)
	}

	// And to the root set.
	moved, err = s.Move(ctx, b.ID, "")
	if err != nil {
		t.Fatalf("move to root: %v", err)
	}
	if moved.Level != 0 {
		t.Fatalf("expected level 0, got %d", moved.Level)
	}
	if got := p.get(t, c.ID); got.Level != 1 {
		t.Fatalf("descendant level not updated: %+v", got)
	}
}

func TestMoveRejectsCycle(t *testing.T) {
	p := newMemoryPersistence()
	s := newService(p)
	ctx := context.Background()

	a, _ := s.Add(ctx, "g", "", "a", task.KindGeneric)
	b, _ := s.Add(ctx, "g", a.ID, "b", task.KindGeneric)

	if _, err := s.Move(ctx, a.ID, b.ID); err == nil {
		t.Fatalf("expected cycle rejection")
	}
	if _, err := s.Move(ctx, a.ID, a.ID); err == nil {
		t.Fatalf("expected self-parent rejection")
	}
}

// A snapshot that already carries a parent cycle (bad data from elsewhere)
// must not hang Move; the walk is bounded the same way tree.Build is.
func TestMoveToleratesExistingParentCycle(t *testing.T) {
	p := newMemoryPersistence()
	s := newService(p)
	ctx := context.Background()

	first := task.New("g", "first", task.KindGeneric)
	first.ID = "p"
	first.ParentID = "q"
	first.Level = 1
	second := task.New("g", "second", task.KindGeneric)
	second.ID = "q"
	second.ParentID = "p"
	second.Level = 1
	for _, tt := range []*task.Task{first, second} {
		if err := p.Create(tt); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	stray, _ := s.Add(ctx, "g", "", "stray", task.KindGeneric)

	done := make(chan error, 1)
	go func() {
		_, err := s.Move(ctx, stray.ID, "p")
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("move: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("move did not terminate with a parent cycle in the snapshot")
	}

	if got := p.get(t, stray.ID); got.ParentID != "p" || got.Level != 2 {
		t.Fatalf("unexpected placement: %+v", got)
	}
	// Moving a cycle member itself must terminate too.
	if _, err := s.Move(ctx, "p", ""); err != nil {
		t.Fatalf("move cycle member to root: %v", err)
	}
}

func TestCompleteRoundTrip(t *testing.T) {
	p := newMemoryPersistence()
	s := newService(p)
	ctx := context.Background()

	created, _ := s.Add(ctx, "g", "", "pay rent", task.KindExpense)
	done, err := s.Complete(ctx, created.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !done.Done {
		t.Fatalf("expected done toggled on")
	}
	s.Drain()
	if !p.get(t, created.ID).Done {
		t.Fatalf("done flag not persisted")
	}

	if _, err := s.Complete(ctx, created.ID); err != nil {
		t.Fatalf("re-complete: %v", err)
	}
	s.Drain()
	if p.get(t, created.ID).Done {
		t.Fatalf("expected done toggled back off")
	}
}

func TestRenameAndPoints(t *testing.T) {
	p := newMemoryPersistence()
	s := newService(p)
	ctx := context.Background()

	created, _ := s.Add(ctx, "g", "", "draft", task.KindKnowledge)
	if _, err := s.Rename(ctx, created.ID, "final"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := s.SetPoints(ctx, created.ID, 5); err != nil {
		t.Fatalf("points: %v", err)
	}
	if _, err := s.SetPoints(ctx, created.ID, 0); err == nil {
		t.Fatalf("expected rejection of non-positive points")
	}
	s.Drain()

	got := p.get(t, created.ID)
	if got.Title != "final" || got.Points != 5 {
		t.Fatalf("edits not persisted: %+v", got)
	}
}

func TestSetExtraKindGate(t *testing.T) {
	p := newMemoryPersistence()
	s := newService(p)
	ctx := context.Background()

	expense, _ := s.Add(ctx, "g", "", "rent", task.KindExpense)
	if _, err := s.SetExtra(ctx, expense.ID, task.ExtraAmount, 650.0); err != nil {
		t.Fatalf("amount on expense: %v", err)
	}

	plain, _ := s.Add(ctx, "g", "", "walk", task.KindGeneric)
	if _, err := s.SetExtra(ctx, plain.ID, task.ExtraAmount, 1.0); err == nil {
		t.Fatalf("expected amount rejected on generic task")
	}
	// Schedule keys apply to every kind.
	if _, err := s.SetExtra(ctx, plain.ID, task.ExtraFreq, task.FreqWeekly); err != nil {
		t.Fatalf("freq on generic: %v", err)
	}
}

func TestScheduleLifecycle(t *testing.T) {
	p := newMemoryPersistence()
	s := newService(p)
	ctx := context.Background()

	created, _ := s.Add(ctx, "g", "", "review budget", task.KindGeneric)

	updated, err := s.SetDays(ctx, created.ID, []schedule.Day{schedule.Friday, schedule.Monday})
	if err != nil {
		t.Fatalf("set days: %v", err)
	}
	if got := schedule.Derive(updated); got != schedule.Weekly {
		t.Fatalf("expected weekly after day selection, got %v", got)
	}
	if updated.Rule != "WEEKLY|days=L,V|time=" {
		t.Fatalf("unexpected rule %q", updated.Rule)
	}
	s.Drain()

	updated, err = s.SetTime(ctx, created.ID, "09:00")
	if err != nil {
		t.Fatalf("set time: %v", err)
	}
	if updated.Rule != "WEEKLY|days=L,V|time=09:00" {
		t.Fatalf("unexpected rule %q", updated.Rule)
	}
	s.Drain()

	updated, err = s.SetMonthDay(ctx, created.ID, 5)
	if err != nil {
		t.Fatalf("set month day: %v", err)
	}
	if got := schedule.Derive(updated); got != schedule.Monthly {
		t.Fatalf("expected monthly, got %v", got)
	}
	if _, err := s.SetMonthDay(ctx, created.ID, 32); err == nil {
		t.Fatalf("expected out-of-range rejection")
	}
	s.Drain()

	updated, err = s.SetDate(ctx, created.ID, "")
	if err != nil {
		t.Fatalf("set date: %v", err)
	}
	if got := schedule.Derive(updated); got != schedule.Punctual {
		t.Fatalf("expected punctual, got %v", got)
	}
	if updated.Date != "2026-01-12" {
		t.Fatalf("expected clock's today, got %q", updated.Date)
	}
	s.Drain()

	updated, err = s.SetCategory(ctx, created.ID, schedule.Unscheduled)
	if err != nil {
		t.Fatalf("set category: %v", err)
	}
	if got := schedule.Derive(updated); got != schedule.Unscheduled {
		t.Fatalf("expected unscheduled, got %v", got)
	}
	s.Drain()

	got := p.get(t, created.ID)
	if got.Date != "" || got.Rule != "" {
		t.Fatalf("expected schedule bundle cleared, got %+v", got)
	}
}

func TestUndoRestoresPreviousEdit(t *testing.T) {
	p := newMemoryPersistence()
	s := newService(p)
	ctx := context.Background()

	created, _ := s.Add(ctx, "g", "", "original", task.KindGeneric)
	if _, err := s.Rename(ctx, created.ID, "renamed"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	s.Drain()
	if got := p.get(t, created.ID).Title; got != "renamed" {
		t.Fatalf("expected rename persisted, got %q", got)
	}

	id, ok, err := s.Undo(ctx)
	if err != nil || !ok || id != created.ID {
		t.Fatalf("undo: %q %v %v", id, ok, err)
	}
	if got := p.get(t, created.ID).Title; got != "original" {
		t.Fatalf("expected title restored, got %q", got)
	}
}

func TestEditSessionHandle(t *testing.T) {
	p := newMemoryPersistence()
	s := newService(p)
	ctx := context.Background()

	created, _ := s.Add(ctx, "g", "", "draft", task.KindGeneric)
	ed, err := s.Edit(ctx, created.ID)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if id, open := ed.Editing(); !open || id != created.ID {
		t.Fatalf("expected session on %s, got %q %v", created.ID, id, open)
	}
	if err := ed.Set(task.FieldTitle, "typed"); err != nil {
		t.Fatalf("set: %v", err)
	}
	ed.Close(ctx)
	s.Drain()
	if got := p.get(t, created.ID).Title; got != "typed" {
		t.Fatalf("buffered edit not persisted, got %q", got)
	}

	if _, err := s.Edit(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTreeSnapshot(t *testing.T) {
	p := newMemoryPersistence()
	s := newService(p)
	ctx := context.Background()

	root, _ := s.Add(ctx, "g", "", "root", task.KindGeneric)
	s.Add(ctx, "g", root.ID, "child", task.KindGeneric)
	s.Add(ctx, "other", "", "elsewhere", task.KindGeneric)

	forest, err := s.Tree(ctx, "g")
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if len(forest) != 1 || len(forest[0].Children) != 1 {
		t.Fatalf("unexpected forest shape: %d roots", len(forest))
	}
}
