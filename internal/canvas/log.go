package canvas

import "sync"

// StrokeLog is the ordered stroke history of one room. Ordering is insertion
// order. All methods are safe for concurrent use; snapshots never alias the
// internal slice, so later mutation cannot change a snapshot already handed
// out.
type StrokeLog struct {
	mu      sync.RWMutex
	strokes []Stroke
}

// NewStrokeLog creates an empty log.
func NewStrokeLog() *StrokeLog {
	return &StrokeLog{}
}

// Append adds a stroke at the end of the history.
func (l *StrokeLog) Append(s Stroke) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.strokes = append(l.strokes, s)
}

// Clear empties the log. There is no undo-of-clear.
func (l *StrokeLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.strokes = nil
}

// RemoveLastByUser scans from the most recently appended stroke backward and
// removes the first one owned by userID. The removed stroke is returned so
// the caller can announce its id; ok is false when the user has no strokes
// in the log.
func (l *StrokeLog) RemoveLastByUser(userID string) (Stroke, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.strokes) - 1; i >= 0; i-- {
		if l.strokes[i].UserID == userID {
			removed := l.strokes[i]
			l.strokes = append(l.strokes[:i], l.strokes[i+1:]...)
			return removed, true
		}
	}
	return Stroke{}, false
}

// RemoveByID removes the stroke with the given id if present and reports
// whether anything was removed.
func (l *StrokeLog) RemoveByID(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.strokes {
		if l.strokes[i].ID == id {
			l.strokes = append(l.strokes[:i], l.strokes[i+1:]...)
			return true
		}
	}
	return false
}

// Replace swaps the whole history for the given strokes, copying them so the
// caller's slice stays independent. Used when a persisted session is loaded
// over the in-memory state.
func (l *StrokeLog) Replace(strokes []Stroke) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.strokes = make([]Stroke, len(strokes))
	copy(l.strokes, strokes)
}

// Snapshot returns a copy of the history in insertion order, suitable for
// handing to a newly joined member or for persistence.
func (l *StrokeLog) Snapshot() []Stroke {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Stroke, len(l.strokes))
	copy(out, l.strokes)
	return out
}

// Len reports the number of strokes currently in the log.
func (l *StrokeLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.strokes)
}
