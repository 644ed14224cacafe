// Package order computes sibling-order keys. New and moved tasks get a key
// that sorts correctly among their siblings without touching any other
// sibling's stored value, so a reorder is always a single-record write.
package order

import (
	"math"
	"sort"

	"tableflip.dev/metas/pkg/task"
)

// Seed is the order assigned to the first task in an empty sibling set, and
// Gap is the spacing left between appended siblings. Repeated insertion into
// the same integer gap eventually exhausts midpoints; siblings are not
// renumbered when that happens.
const (
	Seed = 1000
	Gap  = 1000
)

// Placement says where the new value should land relative to a reference
// sibling.
type Placement int

const (
	// After places the task immediately after the reference sibling, or at
	// the end when no reference is given.
	After Placement = iota
	// Before places the task immediately before the reference sibling.
	Before
)

// Allocate returns a new order value among siblings. The sibling slice must
// exclude the task being moved, if any. An empty or missing reference id
// appends at the end.
func Allocate(siblings []*task.Task, place Placement, refID string) float64 {
	sorted := Sort(siblings)
	if len(sorted) == 0 {
		return Seed
	}
	if refID == "" {
		return sorted[len(sorted)-1].Order + Gap
	}

	idx := -1
	for i, s := range sorted {
		if s.ID == refID {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Reference not in the snapshot; fall back to append.
		return sorted[len(sorted)-1].Order + Gap
	}

	switch place {
	case Before:
		if idx == 0 {
			return sorted[0].Order - Gap
		}
		return midpoint(sorted[idx-1].Order, sorted[idx].Order)
	default:
		if idx == len(sorted)-1 {
			return sorted[idx].Order + Gap
		}
		return midpoint(sorted[idx].Order, sorted[idx+1].Order)
	}
}

// Sort returns the siblings ordered by (order, creation-time string), the
// same ordering the tree builder applies. The input slice is not modified.
func Sort(siblings []*task.Task) []*task.Task {
	sorted := append([]*task.Task(nil), siblings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order == sorted[j].Order {
			return sorted[i].CreatedKey() < sorted[j].CreatedKey()
		}
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

func midpoint(a, b float64) float64 {
	return math.Floor((a + b) / 2)
}
