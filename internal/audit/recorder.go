// Package audit records scheduling decisions for external consumers.
// Recording is fire-and-forget: it must never block or fail a decision.
package audit

import (
	"sync"
	"time"
)

// Decision is one structured scheduling decision record.
type Decision struct {
	ID       string    `json:"id"`
	Time     time.Time `json:"time"`
	Action   string    `json:"action"`
	Model    string    `json:"model,omitempty"`
	TaskKind string    `json:"task_kind,omitempty"`
	Reason   string    `json:"reason,omitempty"`
}

// Decision actions emitted by the scheduler.
const (
	ActionSelect      = "select"
	ActionLoad        = "load"
	ActionLoadFailed  = "load_failed"
	ActionLoadTimeout = "load_timeout"
	ActionEvict       = "evict"
	ActionEvictFailed = "evict_failed"
	ActionIdleEvict   = "idle_evict"
	ActionFallback    = "fallback"
	ActionMainBrain   = "main_brain"
)

// Recorder receives decisions. Implementations must be lightweight and
// non-blocking; Record must not panic.
type Recorder interface {
	Record(Decision)
}

// NopRecorder drops every decision.
type NopRecorder struct{}

func (NopRecorder) Record(Decision) {}

// MemoryRecorder stores decisions in memory for tests.
type MemoryRecorder struct {
	mu        sync.Mutex
	decisions []Decision
}

func NewMemoryRecorder() *MemoryRecorder { return &MemoryRecorder{} }

func (r *MemoryRecorder) Record(d Decision) {
	r.mu.Lock()
	r.decisions = append(r.decisions, d)
	r.mu.Unlock()
}

// Decisions returns a copy of everything recorded so far.
func (r *MemoryRecorder) Decisions() []Decision {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Decision, len(r.decisions))
	copy(out, r.decisions)
	return out
}
