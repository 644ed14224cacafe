package task

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	got := New("health", "work out", "")
	if got.Kind != KindGeneric {
		t.Fatalf("expected generic kind, got %q", got.Kind)
	}
	if got.Points != DefaultPoints {
		t.Fatalf("expected default points, got %d", got.Points)
	}
}

func TestFieldsApplyRoundTrip(t *testing.T) {
	original := &Task{
		ID:       "t1",
		GoalID:   "finanzas",
		ParentID: "p1",
		Level:    2,
		Order:    1500,
		Title:    "pay rent",
		Done:     true,
		Points:   5,
		Kind:     KindExpense,
		Date:     "2026-02-01",
		Time:     "09:00",
		Rule:     "MONTHLY|day=1|time=09:00",
		Extra:    map[string]any{ExtraAmount: 650.0, ExtraConcept: "rent"},
	}

	restored := &Task{ID: "t1"}
	restored.Apply(original.Fields())

	if restored.GoalID != original.GoalID || restored.Title != original.Title ||
		restored.Order != original.Order || restored.Level != original.Level ||
		!restored.Done || restored.Points != 5 || restored.Kind != KindExpense ||
		restored.Rule != original.Rule {
		t.Fatalf("round trip lost fields: %+v", restored)
	}
	if !reflect.DeepEqual(restored.Extra, original.Extra) {
		t.Fatalf("extra map not restored: %v", restored.Extra)
	}
}

func TestApplyJSONNumbers(t *testing.T) {
	// Patches that travel through JSON arrive with float64 numbers.
	got := &Task{}
	got.Apply(map[string]any{
		FieldLevel:  float64(3),
		FieldPoints: float64(8),
		FieldOrder:  float64(2500),
		FieldKind:   "income",
	})
	if got.Level != 3 || got.Points != 8 || got.Order != 2500 || got.Kind != KindIncome {
		t.Fatalf("numeric coercion failed: %+v", got)
	}
}

func TestApplyIgnoresUnknownKeys(t *testing.T) {
	got := &Task{Title: "keep"}
	got.Apply(map[string]any{"futureField": 1, FieldTitle: "kept"})
	if got.Title != "kept" {
		t.Fatalf("known key skipped: %+v", got)
	}
}

func TestCloneIndependence(t *testing.T) {
	original := &Task{
		ID:    "t1",
		Title: "a",
		Extra: map[string]any{ExtraWeekDays: []string{"L", "V"}},
	}
	cp := original.Clone()
	cp.Title = "b"
	cp.Extra[ExtraFreq] = FreqWeekly
	cp.Extra[ExtraWeekDays].([]string)[0] = "D"

	if original.Title != "a" {
		t.Fatalf("clone shares scalar state")
	}
	if _, ok := original.Extra[ExtraFreq]; ok {
		t.Fatalf("clone shares extra map")
	}
	if original.Extra[ExtraWeekDays].([]string)[0] != "L" {
		t.Fatalf("clone shares day slice")
	}
}

func TestCreatedKeyOrdering(t *testing.T) {
	early := &Task{Created: Timestamp{Time: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)}}
	late := &Task{Created: Timestamp{Time: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}}
	if !(early.CreatedKey() < late.CreatedKey()) {
		t.Fatalf("expected lexicographic time order: %q vs %q", early.CreatedKey(), late.CreatedKey())
	}
	var zero Task
	if zero.CreatedKey() != "" {
		t.Fatalf("expected empty key for zero timestamp")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	original := &Task{
		ID:     "t1",
		GoalID: "g",
		Title:  "estudiar",
		Kind:   KindKnowledge,
		Rule:   "WEEKLY|days=L,X|time=",
		Extra:  map[string]any{ExtraFreq: FreqWeekly},
	}
	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Task
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Rule != original.Rule || got.Kind != original.Kind {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Extra[ExtraFreq] != FreqWeekly {
		t.Fatalf("extra lost: %v", got.Extra)
	}
}

func TestTimestampEmptyString(t *testing.T) {
	var got Task
	if err := json.Unmarshal([]byte(`{"id":"t1","created":""}`), &got); err != nil {
		t.Fatalf("unmarshal with empty created: %v", err)
	}
	if !got.Created.IsZero() {
		t.Fatalf("expected zero timestamp, got %v", got.Created)
	}
}
