package schedule

import (
	"sort"
	"strconv"
	"strings"
)

// Day is a weekday in the fixed Monday-first alphabet used by recurrence
// descriptors.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// codes is the 7-symbol weekday alphabet, Monday through Sunday.
var codes = [7]string{"L", "M", "X", "J", "V", "S", "D"}

// AllDays returns the week in alphabet order.
func AllDays() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

// Code returns the single-letter symbol for the day.
func (d Day) Code() string {
	if !d.Valid() {
		return ""
	}
	return codes[d]
}

func (d Day) String() string {
	return d.Code()
}

// ParseDay maps a stored weekday value to the alphabet. Accepted forms are
// the letter codes and numeric indices 0-6 (0 = Monday), either as strings
// or as numbers.
func ParseDay(v any) (Day, bool) {
	switch value := v.(type) {
	case string:
		code := strings.ToUpper(strings.TrimSpace(value))
		for i, c := range codes {
			if c == code {
				return Day(i), true
			}
		}
		if n, err := strconv.Atoi(code); err == nil {
			d := Day(n)
			return d, d.Valid()
		}
	case int:
		d := Day(value)
		return d, d.Valid()
	case float64:
		d := Day(int(value))
		return d, d.Valid()
	case Day:
		return value, value.Valid()
	}
	return 0, false
}

// NormalizeDays converts a stored weekday collection to a sorted, de-duplicated
// selection in the alphabet, discarding unrecognized entries. Stored
// collections may be []string, []any (after a JSON round trip), or []Day.
func NormalizeDays(v any) []Day {
	var raw []any
	switch value := v.(type) {
	case []any:
		raw = value
	case []string:
		raw = make([]any, len(value))
		for i, s := range value {
			raw[i] = s
		}
	case []Day:
		raw = make([]any, len(value))
		for i, d := range value {
			raw[i] = d
		}
	case nil:
		return nil
	default:
		return nil
	}

	seen := make(map[Day]bool, len(raw))
	days := make([]Day, 0, len(raw))
	for _, entry := range raw {
		d, ok := ParseDay(entry)
		if !ok || seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// Codes renders a selection as its letter codes, alphabet order.
func Codes(days []Day) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		if d.Valid() {
			out = append(out, d.Code())
		}
	}
	return out
}
