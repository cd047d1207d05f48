package audit

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultBuffer = 256

// Sink persists a single decision. Sinks run on the recorder's worker
// goroutine, never on the scheduling path.
type Sink interface {
	Write(Decision) error
	Close() error
}

// AsyncRecorder fans decisions out to sinks through a bounded buffer.
// When the buffer is full the decision is dropped: the scheduler must never
// block on its audit trail.
type AsyncRecorder struct {
	ch    chan Decision
	sinks []Sink
	log   zerolog.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
	dropped   uint64
	mu        sync.Mutex
}

// NewAsyncRecorder starts the worker goroutine. Close must be called to
// flush and release the sinks.
func NewAsyncRecorder(log zerolog.Logger, sinks ...Sink) *AsyncRecorder {
	r := &AsyncRecorder{
		ch:    make(chan Decision, defaultBuffer),
		sinks: sinks,
		log:   log,
	}
	r.wg.Add(1)
	go r.run()
	return r
}

func (r *AsyncRecorder) run() {
	defer r.wg.Done()
	for d := range r.ch {
		for _, s := range r.sinks {
			if err := s.Write(d); err != nil {
				r.log.Warn().Err(err).Str("action", d.Action).Msg("audit sink write failed")
			}
		}
	}
}

// Record enqueues a decision, assigning an id when missing. Never blocks.
func (r *AsyncRecorder) Record(d Decision) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	select {
	case r.ch <- d:
	default:
		r.mu.Lock()
		r.dropped++
		r.mu.Unlock()
	}
}

// Dropped returns how many decisions were discarded due to backpressure.
func (r *AsyncRecorder) Dropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Close drains the buffer, closes all sinks and stops the worker.
func (r *AsyncRecorder) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.ch)
		r.wg.Wait()
		for _, s := range r.sinks {
			if cerr := s.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	})
	return err
}
