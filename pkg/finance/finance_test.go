package finance

import (
	"testing"

	"tableflip.dev/metas/pkg/task"
)

func TestParseLineType(t *testing.T) {
	tests := []struct {
		in      string
		want    LineType
		wantErr bool
	}{
		{"income", LineIncome, false},
		{" Expense ", LineExpense, false},
		{"", LineExpense, false},
		{"loan", LineExpense, true},
	}
	for _, tc := range tests {
		got, err := ParseLineType(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%q: unexpected error state: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestApplies(t *testing.T) {
	if !Applies(task.KindExpense, task.ExtraAmount) {
		t.Fatalf("amount should apply to expense tasks")
	}
	if !Applies(task.KindIncome, task.ExtraAccountID) {
		t.Fatalf("account should apply to income tasks")
	}
	if Applies(task.KindPhysical, task.ExtraAmount) {
		t.Fatalf("amount should not apply to physical tasks")
	}
	if !Applies(task.KindGeneric, task.ExtraConcept) {
		t.Fatalf("concept applies to every kind")
	}
}

func TestLookupFallsBackToID(t *testing.T) {
	l := Lookup{
		Accounts: []Account{{ID: "acc1", Name: "Checking"}},
		Lines:    []ForecastLine{{ID: "fl1", Name: "Rent", Type: LineExpense}},
	}
	if got := l.AccountName("acc1"); got != "Checking" {
		t.Fatalf("expected display name, got %q", got)
	}
	if got := l.AccountName("ghost"); got != "ghost" {
		t.Fatalf("expected id fallback, got %q", got)
	}
	if got := l.LineName("fl1"); got != "Rent" {
		t.Fatalf("expected display name, got %q", got)
	}
}
