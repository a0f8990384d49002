package enrich

import "sync"

// Progress is a point-in-time view of a batch run.
type Progress struct {
	Fraction     float64 `json:"fraction"`
	Current      int     `json:"current"`
	Total        int     `json:"total"`
	SuccessCount int     `json:"success_count"`
	ErrorCount   int     `json:"error_count"`
	Done         bool    `json:"done"`
}

// Tracker is the shared progress state for one batch run. The runner is
// the only writer; the CLI spinner and the serve endpoint read it
// concurrently, so access is mutex-guarded. Cancellation is cooperative:
// RequestStop raises a flag the runner polls at record boundaries.
type Tracker struct {
	mu       sync.Mutex
	progress Progress
	messages []string
	stop     bool
}

// NewTracker creates a tracker ready for one run.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Update records the run position. message, if non-empty, is appended to
// the log. This is the sole write path into progress state.
func (t *Tracker) Update(fraction float64, current, total, successCount, errorCount int, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress = Progress{
		Fraction:     fraction,
		Current:      current,
		Total:        total,
		SuccessCount: successCount,
		ErrorCount:   errorCount,
	}
	if message != "" {
		t.messages = append(t.messages, message)
	}
}

// Finish marks the run complete without disturbing the counters.
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress.Done = true
}

// Snapshot returns the current progress values.
func (t *Tracker) Snapshot() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

// Messages returns a copy of the append-only message log.
func (t *Tracker) Messages() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.messages))
	copy(out, t.messages)
	return out
}

// RequestStop asks the runner to stop at the next record boundary.
func (t *Tracker) RequestStop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stop = true
}

// ShouldStop reports whether a stop has been requested.
func (t *Tracker) ShouldStop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop
}

// Reset clears all state so the tracker can serve another run.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress = Progress{}
	t.messages = nil
	t.stop = false
}
