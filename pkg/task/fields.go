package task

// Field names used in patches. These match the JSON tags so a patch can be
// applied to a serialized record without translation.
const (
	FieldGoalID   = "goalId"
	FieldParentID = "parentId"
	FieldLevel    = "level"
	FieldOrder    = "order"
	FieldTitle    = "title"
	FieldDone     = "done"
	FieldPoints   = "points"
	FieldKind     = "kind"
	FieldDate     = "date"
	FieldTime     = "time"
	FieldRule     = "repeatRule"
	FieldExtra    = "extra"
)

// Fields projects the task's mutable attributes into a field map keyed by
// patch field names. The editor diffs edit buffers against this projection,
// and the undo path uses it as a full-record restoration patch. Identity and
// creation time are not mutable and are excluded.
func (t *Task) Fields() map[string]any {
	return map[string]any{
		FieldGoalID:   t.GoalID,
		FieldParentID: t.ParentID,
		FieldLevel:    t.Level,
		FieldOrder:    t.Order,
		FieldTitle:    t.Title,
		FieldDone:     t.Done,
		FieldPoints:   t.Points,
		FieldKind:     t.Kind,
		FieldDate:     t.Date,
		FieldTime:     t.Time,
		FieldRule:     t.Rule,
		FieldExtra:    CloneExtra(t.Extra),
	}
}

// Apply merges a field patch into the task in place. Unknown keys are
// ignored so newer producers do not break older readers. Numeric values may
// arrive as float64 after a JSON round trip.
func (t *Task) Apply(fields map[string]any) {
	for key, value := range fields {
		switch key {
		case FieldGoalID:
			if v, ok := value.(string); ok {
				t.GoalID = v
			}
		case FieldParentID:
			if v, ok := value.(string); ok {
				t.ParentID = v
			}
		case FieldLevel:
			if v, ok := asInt(value); ok {
				t.Level = v
			}
		case FieldOrder:
			switch v := value.(type) {
			case float64:
				t.Order = v
			case int:
				t.Order = float64(v)
			}
		case FieldTitle:
			if v, ok := value.(string); ok {
				t.Title = v
			}
		case FieldDone:
			if v, ok := value.(bool); ok {
				t.Done = v
			}
		case FieldPoints:
			if v, ok := asInt(value); ok {
				t.Points = v
			}
		case FieldKind:
			switch v := value.(type) {
			case Kind:
				t.Kind = v
			case string:
				t.Kind = Kind(v)
			}
		case FieldDate:
			if v, ok := value.(string); ok {
				t.Date = v
			}
		case FieldTime:
			if v, ok := value.(string); ok {
				t.Time = v
			}
		case FieldRule:
			if v, ok := value.(string); ok {
				t.Rule = v
			}
		case FieldExtra:
			switch v := value.(type) {
			case map[string]any:
				t.Extra = CloneExtra(v)
			case nil:
				t.Extra = nil
			}
		}
	}
}

func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}
