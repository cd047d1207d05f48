package scheduler

import (
	"context"
	"time"

	"fleetd/internal/audit"
	"fleetd/pkg/types"
)

// Evict unloads a model and removes its bookkeeping entry. Refuses the main
// brain unconditionally. An unload failure leaves bookkeeping unchanged so
// resource accounting cannot silently drift.
func (s *Scheduler) Evict(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictLocked(ctx, id, audit.ActionEvict, "explicit evict")
}

func (s *Scheduler) evictLocked(ctx context.Context, id, action, reason string) error {
	if id == s.mainBrain {
		return mainBrainProtectedError{id: id}
	}
	if _, ok := s.loaded[id]; !ok {
		return notLoadedError{id: id}
	}
	if err := s.runtime.Unload(ctx, id); err != nil {
		s.record(audit.ActionEvictFailed, id, "", err.Error())
		return runtimeUnreachableError{op: "unload", id: id, cause: err}
	}
	delete(s.loaded, id)
	s.evictionsTotal++
	evictionsTotal.Inc()
	loadedModels.Set(float64(len(s.loaded)))
	s.record(action, id, "", reason)
	return nil
}

// MakeRoomFor evicts loaded models oldest-load-time-first, re-checking
// admission for the target after each eviction, until the target fits.
// The main brain is never a candidate.
func (s *Scheduler) MakeRoomFor(ctx context.Context, targetID string) bool {
	spec, ok := s.catalog.Lookup(targetID)
	if !ok {
		return false
	}
	snap := s.monitor.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.makeRoomLocked(ctx, spec, &snap)
}

func (s *Scheduler) makeRoomLocked(ctx context.Context, target types.ModelSpec, snap *types.ResourceSnapshot) bool {
	if ok, _ := s.admitLocked(target, *snap); ok {
		return true
	}
	for _, id := range s.loadedOldestFirstLocked() {
		if id == target.ID {
			continue
		}
		if err := s.evictLocked(ctx, id, audit.ActionEvict, "make room for "+target.ID); err != nil {
			continue
		}
		*snap = s.monitor.Snapshot()
		if ok, _ := s.admitLocked(target, *snap); ok {
			return true
		}
	}
	return false
}

// CleanupIdle evicts every non-main-brain model whose load time is older
// than maxIdle. Meant for a periodic maintenance sweep, not the request
// path. Returns the number of models evicted.
func (s *Scheduler) CleanupIdle(ctx context.Context, maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	evicted := 0
	for _, id := range s.loadedOldestFirstLocked() {
		if !s.loaded[id].Before(cutoff) {
			continue
		}
		if err := s.evictLocked(ctx, id, audit.ActionIdleEvict, "idle longer than "+maxIdle.String()); err != nil {
			continue
		}
		idleEvictionsTotal.Inc()
		evicted++
	}
	return evicted
}
