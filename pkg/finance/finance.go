// Package finance holds the read-only reference entities tasks can link to:
// bank accounts and forecast lines. The engine never mutates these; they are
// consumed for display and for deciding which extension fields apply.
package finance

import (
	"fmt"
	"strings"

	"tableflip.dev/metas/pkg/task"
)

// Account is a bank account reference.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LineType identifies the direction of a forecast line.
type LineType string

const (
	// LineIncome is money expected in.
	LineIncome LineType = "income"
	// LineExpense is money expected out.
	LineExpense LineType = "expense"
)

// AllLineTypes returns the list of supported forecast line types.
func AllLineTypes() []LineType {
	return []LineType{LineIncome, LineExpense}
}

// ParseLineType converts a string to a LineType or returns an error for
// unknown values.
func ParseLineType(raw string) (LineType, error) {
	t := LineType(strings.ToLower(strings.TrimSpace(raw)))
	if t == "" {
		return LineExpense, nil
	}
	for _, candidate := range AllLineTypes() {
		if candidate == t {
			return candidate, nil
		}
	}
	return LineExpense, fmt.Errorf("finance: unknown line type %q", raw)
}

// ForecastLine is a budget forecast line reference.
type ForecastLine struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Type LineType `json:"type"`
}

// Lookup resolves accounts and forecast lines by id for display.
type Lookup struct {
	Accounts []Account
	Lines    []ForecastLine
}

// AccountName returns the display name for an account id, or the id itself
// when unknown.
func (l Lookup) AccountName(id string) string {
	for _, a := range l.Accounts {
		if a.ID == id {
			return a.Name
		}
	}
	return id
}

// LineName returns the display name for a forecast line id, or the id itself
// when unknown.
func (l Lookup) LineName(id string) string {
	for _, fl := range l.Lines {
		if fl.ID == id {
			return fl.Name
		}
	}
	return id
}

// FieldsFor reports which Extra keys are meaningful for a task kind. Access
// to kind-specific fields is centralized here so conditional field handling
// does not spread through the codebase.
func FieldsFor(kind task.Kind) []string {
	switch kind {
	case task.KindIncome, task.KindExpense:
		return []string{task.ExtraAmount, task.ExtraAccountID, task.ExtraLineID, task.ExtraConcept}
	default:
		return []string{task.ExtraConcept}
	}
}

// Applies reports whether the Extra key is meaningful for the task kind.
func Applies(kind task.Kind, key string) bool {
	for _, k := range FieldsFor(kind) {
		if k == key {
			return true
		}
	}
	return false
}
