// =============================================================================
// Docflow - In-Memory Audit Recorder
// =============================================================================

package parsing

import "sync"

// MemoryRecorder keeps audit entries in memory. Persistence of the audit
// trail belongs to the surrounding system; this implementation backs tests
// and single-run CLI usage.
type MemoryRecorder struct {
	mu      sync.Mutex
	records []FileRecord
}

// NewMemoryRecorder returns an empty recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (r *MemoryRecorder) RecordFile(rec FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

// Records returns a copy of the recorded entries in arrival order.
func (r *MemoryRecorder) Records() []FileRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FileRecord, len(r.records))
	copy(out, r.records)
	return out
}
