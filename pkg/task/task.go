package task

// Kind classifies a task and decides which optional Extra fields apply.
type Kind string

const (
	// KindGeneric is the default free-form task.
	KindGeneric Kind = "generic"
	// KindIncome links the task to money coming in.
	KindIncome Kind = "income"
	// KindExpense links the task to money going out.
	KindExpense Kind = "expense"
	// KindPhysical tracks physical activity goals.
	KindPhysical Kind = "physical"
	// KindKnowledge tracks study or reading goals.
	KindKnowledge Kind = "knowledge"
)

// DefaultPoints is the point value assigned to a task when none is given.
const DefaultPoints = 2

// Recognized Extra map keys. The Extra map is an open extension bag; these
// constants are the only keys the engine itself reads or writes. Frequency
// sub-fields are a convenience projection for editing, the RepeatRule string
// stays the canonical recurrence source of truth.
const (
	ExtraFreq        = "freq"        // PUNTUAL, SEMANAL or MENSUAL
	ExtraUnscheduled = "unscheduled" // explicit no-date override (bool)
	ExtraWeekDays    = "weekDays"    // weekday code selection for weekly tasks
	ExtraWeekTime    = "weekTime"    // HH:MM for weekly tasks
	ExtraMonthDay    = "monthDay"    // day-of-month for monthly tasks
	ExtraMonthTime   = "monthTime"   // HH:MM for monthly tasks
	ExtraAmount      = "amount"      // monetary amount for income/expense tasks
	ExtraAccountID   = "accountId"   // bank account reference
	ExtraLineID      = "forecastLineId"
	ExtraConcept     = "concept" // free descriptive label
)

// Frequency tag values stored under ExtraFreq.
const (
	FreqPunctual = "PUNTUAL"
	FreqWeekly   = "SEMANAL"
	FreqMonthly  = "MENSUAL"
)

// New creates a task in the given goal with default point value. Identity,
// parent, level and order are assigned by the service before persisting.
func New(goalID, title string, kind Kind) *Task {
	if kind == "" {
		kind = KindGeneric
	}
	return &Task{
		GoalID: goalID,
		Title:  title,
		Kind:   kind,
		Points: DefaultPoints,
	}
}

// Task is a single node in a goal's tree. ParentID empty means root. Order is
// a real-valued sibling key; it only needs to be meaningfully ordered among
// direct siblings, not unique across the goal.
type Task struct {
	ID       string         `json:"id"`
	GoalID   string         `json:"goalId"`
	ParentID string         `json:"parentId,omitempty"`
	Level    int            `json:"level"`
	Order    float64        `json:"order"`
	Title    string         `json:"title"`
	Done     bool           `json:"done,omitempty"`
	Points   int            `json:"points,omitempty"`
	Kind     Kind           `json:"kind,omitempty"`
	Date     string         `json:"date,omitempty"` // 2006-01-02
	Time     string         `json:"time,omitempty"` // HH:MM
	Rule     string         `json:"repeatRule,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
	Created  Timestamp      `json:"created,omitempty"`
}

// CreatedKey is the sort tie-break key for siblings with equal order. RFC3339
// UTC strings compare lexicographically in time order.
func (t *Task) CreatedKey() string {
	if t.Created.IsZero() {
		return ""
	}
	return t.Created.String()
}

// Clone deep-copies the task, including the Extra map one level down.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Extra = CloneExtra(t.Extra)
	return &cp
}

// GetExtra returns the value stored under key, nil when absent.
func (t *Task) GetExtra(key string) any {
	if t.Extra == nil {
		return nil
	}
	return t.Extra[key]
}

// SetExtra stores value under key, allocating the map on first use.
func (t *Task) SetExtra(key string, value any) {
	if t.Extra == nil {
		t.Extra = make(map[string]any)
	}
	t.Extra[key] = value
}

// RemoveExtra drops key from the extension map.
func (t *Task) RemoveExtra(key string) {
	delete(t.Extra, key)
}

// CloneExtra copies an extension map. Values are copied shallowly except for
// nested string slices, which weekly day selections use.
func CloneExtra(extra map[string]any) map[string]any {
	if extra == nil {
		return nil
	}
	cp := make(map[string]any, len(extra))
	for k, v := range extra {
		if days, ok := v.([]string); ok {
			cp[k] = append([]string(nil), days...)
			continue
		}
		cp[k] = v
	}
	return cp
}
