package editor

// UndoDepth caps how many pre-edit snapshots are retained. The stack is a
// shallow LIFO log, not a redo-capable history: each pop restores one prior
// edit and is gone.
const UndoDepth = 10

type undoEntry struct {
	taskID string
	fields map[string]any
}

type undoStack struct {
	entries []undoEntry
	depth   int
}

func (s *undoStack) push(taskID string, fields map[string]any) {
	depth := s.depth
	if depth <= 0 {
		depth = UndoDepth
	}
	s.entries = append(s.entries, undoEntry{taskID: taskID, fields: fields})
	if over := len(s.entries) - depth; over > 0 {
		s.entries = append([]undoEntry(nil), s.entries[over:]...)
	}
}

// pop removes and returns the most recent snapshot.
func (s *undoStack) pop() (undoEntry, bool) {
	if len(s.entries) == 0 {
		return undoEntry{}, false
	}
	last := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return last, true
}

func (s *undoStack) len() int {
	return len(s.entries)
}
