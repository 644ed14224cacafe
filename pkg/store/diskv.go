package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/metas/pkg/goal"
	"tableflip.dev/metas/pkg/task"
)

// Persistence defines the persistence contract for task records. List
// results are snapshots: the engine treats them as immutable and all changes
// flow back through Create/UpdateTask.
type Persistence interface {
	ListAll(ctx context.Context) []*task.Task
	List(ctx context.Context, goalID string) []*task.Task
	Goals(ctx context.Context) []goal.Meta
	Create(t *task.Task) error
	UpdateTask(ctx context.Context, id string, fields map[string]any) error
	Delete(t *task.Task) error
	EnsureGoal(meta goal.Meta) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// ErrNotFound is returned for updates against an id missing from storage.
var ErrNotFound = errors.New("store: task not found")

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) read(key string) (*task.Task, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	t := &task.Task{}
	if err := json.Unmarshal(val, t); err != nil {
		return nil, err
	}
	pk := keyToPathTransform(key)
	if t.ID == "" {
		t.ID = pk.FileName
	}
	if t.GoalID == "" {
		t.GoalID = fromGoalSegment(pk.Path[0])
	}
	if t.Points == 0 {
		t.Points = task.DefaultPoints
	}
	return t, nil
}

func (p *persistence) ListAll(ctx context.Context) []*task.Task {
	all := make([]*task.Task, 0)
	for key := range p.d.Keys(ctx.Done()) {
		t, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, t)
	}
	sortTasks(all)
	return all
}

func (p *persistence) List(ctx context.Context, goalID string) []*task.Task {
	encoded := toGoalSegment(goalID)
	all := make([]*task.Task, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if pk := keyToPathTransform(key); pk.Path[0] == encoded {
			t, err := p.read(key)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
				continue
			}
			all = append(all, t)
		}
	}
	sortTasks(all)
	return all
}

func (p *persistence) Create(t *task.Task) error {
	if t == nil {
		return errors.New("store: task required")
	}
	if strings.TrimSpace(t.GoalID) == "" {
		return errors.New("store: goal id required")
	}
	if t.ID == "" {
		t.ID = NewID()
	}
	if t.Created.IsZero() {
		t.Created = task.Now()
	}
	if err := p.EnsureGoal(goal.Meta{ID: t.GoalID, Name: t.GoalID}); err != nil {
		return err
	}
	return p.write(t)
}

func (p *persistence) UpdateTask(ctx context.Context, id string, fields map[string]any) error {
	key, err := p.keyForID(ctx, id)
	if err != nil {
		return err
	}
	t, err := p.read(key)
	if err != nil {
		return err
	}
	t.Apply(fields)
	newKey := toKey(t)
	if err := p.write(t); err != nil {
		return err
	}
	if newKey != key {
		// Goal reassignment moves the record to a new bucket.
		return p.d.Erase(key)
	}
	return nil
}

func (p *persistence) Delete(t *task.Task) error {
	if t == nil {
		return nil
	}
	return p.d.Erase(toKey(t))
}

func (p *persistence) Goals(ctx context.Context) []goal.Meta {
	all := make(map[string]goal.Meta)
	if idx, err := p.loadGoalsIndex(); err == nil {
		for id, meta := range idx {
			all[id] = meta
		}
	} else {
		fmt.Fprintf(os.Stderr, "store: load goals index: %v\n", err)
	}

	for key := range p.d.Keys(ctx.Done()) {
		pk := keyToPathTransform(key)
		id := fromGoalSegment(pk.Path[0])
		if _, ok := all[id]; !ok {
			all[id] = goal.Meta{ID: id, Name: id}
		}
	}

	list := make([]goal.Meta, 0, len(all))
	for _, meta := range all {
		list = append(list, meta)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

func (p *persistence) EnsureGoal(meta goal.Meta) error {
	id := strings.TrimSpace(meta.ID)
	if id == "" {
		return errors.New("store: goal id required")
	}
	if p.basePath == "" {
		return errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return fmt.Errorf("store: ensure base path: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(p.basePath, toGoalSegment(id)), 0o755); err != nil {
		return fmt.Errorf("store: ensure goal directory: %w", err)
	}
	index, err := p.loadGoalsIndex()
	if err != nil {
		return fmt.Errorf("store: load goals index: %w", err)
	}
	existing := index[id]
	if existing.ID == "" {
		existing.ID = id
	}
	if meta.Name != "" {
		existing.Name = meta.Name
	}
	if existing.Name == "" {
		existing.Name = id
	}
	index[id] = existing
	if err := p.saveGoalsIndex(index); err != nil {
		return fmt.Errorf("store: save goals index: %w", err)
	}
	return nil
}

func (p *persistence) write(t *task.Task) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return p.d.Write(toKey(t), data)
}

func (p *persistence) keyForID(ctx context.Context, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", ErrNotFound
	}
	for key := range p.d.Keys(ctx.Done()) {
		if keyToPathTransform(key).FileName == id {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, id)
}

const (
	layoutISO      = "2006-01-02"
	goalsIndexFile = ".goals.json"
)

func (p *persistence) goalsIndexPath() string {
	return filepath.Join(p.basePath, goalsIndexFile)
}

func (p *persistence) loadGoalsIndex() (map[string]goal.Meta, error) {
	if p.basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.goalsIndexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]goal.Meta), nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return make(map[string]goal.Meta), nil
	}
	list, err := goal.UnmarshalList(data)
	if err != nil {
		return nil, err
	}
	index := make(map[string]goal.Meta, len(list))
	for _, meta := range list {
		id := strings.TrimSpace(meta.ID)
		if id == "" {
			continue
		}
		if meta.Name == "" {
			meta.Name = id
		}
		meta.ID = id
		index[id] = meta
	}
	return index, nil
}

func (p *persistence) saveGoalsIndex(idx map[string]goal.Meta) error {
	if p.basePath == "" {
		return errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return err
	}
	list := make([]goal.Meta, 0, len(idx))
	for id, meta := range idx {
		if meta.ID == "" {
			meta.ID = id
		}
		if meta.Name == "" {
			meta.Name = id
		}
		list = append(list, meta)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	data, err := goal.MarshalList(list)
	if err != nil {
		return err
	}
	path := p.goalsIndexPath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func sortTasks(tasks []*task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		left := tasks[i]
		right := tasks[j]
		if left == nil || right == nil {
			return left != nil
		}
		if left.Order == right.Order {
			lk := left.CreatedKey()
			rk := right.CreatedKey()
			if lk == rk {
				return left.ID < right.ID
			}
			return lk < rk
		}
		return left.Order < right.Order
	})
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `goal-date-id`
func toKey(t *task.Task) string {
	encoded := toGoalSegment(t.GoalID)
	then := t.Created.Format(layoutISO)

	if t.ID == "" {
		t.ID = NewID()
	}

	return fmt.Sprintf("%s-%s-%s", encoded, then, t.ID)
}

// NewID mints a task identifier. Keys are dash-delimited, so the uuid's own
// dashes are stripped.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func toGoalSegment(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func fromGoalSegment(s string) string {
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Sprintf("fromGoalSegment: %s", err)
	}
	return string(decoded)
}
