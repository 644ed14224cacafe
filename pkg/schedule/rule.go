package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Rule prefixes of the pipe-delimited recurrence descriptor.
const (
	rulePrefixWeekly  = "WEEKLY"
	rulePrefixMonthly = "MONTHLY"
)

// Rule is the decoded form of a recurrence descriptor.
type Rule struct {
	Category Category // Weekly or Monthly
	Days     []Day    // weekly selection
	Day      int      // day-of-month for monthly rules
	Time     string   // HH:MM, empty when no time is set
}

// EncodeWeekly builds the canonical descriptor for a weekly selection, e.g.
// "WEEKLY|days=L,X,V|time=09:00". The time segment is present but empty when
// no time is chosen.
func EncodeWeekly(days []Day, at string) string {
	return fmt.Sprintf("%s|days=%s|time=%s", rulePrefixWeekly, strings.Join(Codes(days), ","), at)
}

// EncodeMonthly builds the canonical descriptor for a monthly rule, e.g.
// "MONTHLY|day=1|time=".
func EncodeMonthly(day int, at string) string {
	return fmt.Sprintf("%s|day=%d|time=%s", rulePrefixMonthly, day, at)
}

// DecodeRule parses a stored recurrence descriptor. Unknown prefixes and
// malformed segments return an error; unrecognized weekday entries inside a
// well-formed descriptor are discarded.
func DecodeRule(raw string) (Rule, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Rule{}, fmt.Errorf("schedule: empty recurrence descriptor")
	}
	parts := strings.Split(raw, "|")
	segments := make(map[string]string, len(parts)-1)
	for _, part := range parts[1:] {
		key, value, found := strings.Cut(part, "=")
		if !found {
			return Rule{}, fmt.Errorf("schedule: malformed descriptor segment %q", part)
		}
		segments[key] = value
	}

	switch parts[0] {
	case rulePrefixWeekly:
		var entries []any
		if raw := segments["days"]; raw != "" {
			for _, code := range strings.Split(raw, ",") {
				entries = append(entries, code)
			}
		}
		return Rule{
			Category: Weekly,
			Days:     NormalizeDays(entries),
			Time:     segments["time"],
		}, nil
	case rulePrefixMonthly:
		day := 1
		if raw := segments["day"]; raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return Rule{}, fmt.Errorf("schedule: bad day-of-month %q: %w", raw, err)
			}
			day = n
		}
		return Rule{
			Category: Monthly,
			Day:      day,
			Time:     segments["time"],
		}, nil
	default:
		return Rule{}, fmt.Errorf("schedule: unknown descriptor prefix %q", parts[0])
	}
}

// Encode re-serialises a decoded rule into canonical descriptor form.
func (r Rule) Encode() string {
	switch r.Category {
	case Monthly:
		return EncodeMonthly(r.Day, r.Time)
	default:
		return EncodeWeekly(r.Days, r.Time)
	}
}
