// Package tree reconstructs a goal's ordered task forest from the flat
// record snapshot the store hands out. Building is pure: the snapshot is
// never mutated and the same input always yields the same forest.
package tree

import (
	"strings"

	"tableflip.dev/metas/pkg/order"
	"tableflip.dev/metas/pkg/task"
)

// Node is a task with its sorted children attached.
type Node struct {
	*task.Task
	Children []*Node
}

// Build filters the flat collection to one goal and assembles the forest.
// A task whose parent id is missing from the filtered set surfaces as a
// root rather than erroring. Parent links are grouped once up front and
// recursion is guarded by a visited set, so self-references and cycles can
// never recurse forever; cycle members unreachable from any root are
// appended as orphan roots.
func Build(all []*task.Task, goalID string) []*Node {
	scoped := make([]*task.Task, 0, len(all))
	ids := make(map[string]bool, len(all))
	for _, t := range all {
		if t == nil || t.GoalID != goalID || strings.TrimSpace(t.ID) == "" {
			continue
		}
		scoped = append(scoped, t)
		ids[t.ID] = true
	}
	if len(scoped) == 0 {
		return nil
	}

	children := make(map[string][]*task.Task)
	roots := make([]*task.Task, 0, len(scoped))
	for _, t := range scoped {
		if t.ParentID == "" || t.ParentID == t.ID || !ids[t.ParentID] {
			roots = append(roots, t)
			continue
		}
		children[t.ParentID] = append(children[t.ParentID], t)
	}

	visited := make(map[string]bool, len(scoped))
	forest := make([]*Node, 0, len(roots))
	for _, root := range order.Sort(roots) {
		forest = append(forest, attach(root, children, visited))
	}

	// Anything still unvisited sits on a cycle detached from every root.
	for _, t := range order.Sort(scoped) {
		if !visited[t.ID] {
			forest = append(forest, attach(t, children, visited))
		}
	}
	return forest
}

func attach(t *task.Task, children map[string][]*task.Task, visited map[string]bool) *Node {
	node := &Node{Task: t}
	visited[t.ID] = true
	for _, child := range order.Sort(children[t.ID]) {
		if visited[child.ID] {
			continue
		}
		node.Children = append(node.Children, attach(child, children, visited))
	}
	return node
}

// Find walks the forest and returns the node with the given task id.
func Find(forest []*Node, id string) *Node {
	for _, n := range forest {
		if n.ID == id {
			return n
		}
		if found := Find(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// Flatten returns the forest in depth-first order.
func Flatten(forest []*Node) []*Node {
	out := make([]*Node, 0, len(forest))
	for _, n := range forest {
		out = append(out, n)
		out = append(out, Flatten(n.Children)...)
	}
	return out
}

// Siblings returns the direct children of parentID within the goal, sorted,
// excluding the task with skipID (pass the moving task's id, or empty).
// parentID empty selects the root set.
func Siblings(all []*task.Task, goalID, parentID, skipID string) []*task.Task {
	ids := make(map[string]bool, len(all))
	for _, t := range all {
		if t != nil && t.GoalID == goalID {
			ids[t.ID] = true
		}
	}
	group := make([]*task.Task, 0)
	for _, t := range all {
		if t == nil || t.GoalID != goalID || t.ID == skipID {
			continue
		}
		pid := t.ParentID
		if pid == t.ID || !ids[pid] {
			pid = ""
		}
		if pid == parentID {
			group = append(group, t)
		}
	}
	return order.Sort(group)
}
