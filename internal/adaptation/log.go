package adaptation

// Log is a growable, ordered, append-only record. Entries are never edited
// or removed individually; Clear empties the log. With a positive limit the
// oldest entries are paged out once the limit is exceeded.
type Log[T any] struct {
	entries []T
	limit   int
	dropped int
}

// NewLog creates a log. A limit of 0 means unbounded.
func NewLog[T any](limit int) *Log[T] {
	if limit < 0 {
		limit = 0
	}
	return &Log[T]{limit: limit}
}

// Append adds an entry at the end of the log.
func (l *Log[T]) Append(v T) {
	l.entries = append(l.entries, v)
	if l.limit > 0 && len(l.entries) > l.limit {
		excess := len(l.entries) - l.limit
		l.entries = append(l.entries[:0:0], l.entries[excess:]...)
		l.dropped += excess
	}
}

// Len returns the number of retained entries.
func (l *Log[T]) Len() int {
	return len(l.entries)
}

// Dropped returns how many entries were paged out by the limit.
func (l *Log[T]) Dropped() int {
	return l.dropped
}

// Entries returns a copy of the retained entries, oldest first.
func (l *Log[T]) Entries() []T {
	return append([]T(nil), l.entries...)
}

// Last returns a copy of the newest n entries, oldest first.
func (l *Log[T]) Last(n int) []T {
	if n <= 0 {
		return nil
	}
	if n > len(l.entries) {
		n = len(l.entries)
	}
	return append([]T(nil), l.entries[len(l.entries)-n:]...)
}

// Clear removes every entry.
func (l *Log[T]) Clear() {
	l.entries = nil
	l.dropped = 0
}
