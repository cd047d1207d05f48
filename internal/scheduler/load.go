package scheduler

import (
	"context"
	"errors"

	"fleetd/internal/audit"
	"fleetd/pkg/types"
)

// Load brings a model into the runtime. No-op success when already loaded.
// Admission is re-checked under the lock immediately before the runtime call;
// a failure is reported, not retried.
func (s *Scheduler) Load(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx, id)
}

func (s *Scheduler) loadLocked(ctx context.Context, id string) error {
	if _, ok := s.loaded[id]; ok {
		return nil
	}
	spec, ok := s.catalog.Lookup(id)
	if !ok {
		return unknownModelError{id: id}
	}
	// Commit-time admission is authoritative; any earlier result was only
	// used for ranking.
	snap := s.monitor.Snapshot()
	if ok, reason := s.admitLocked(spec, snap); !ok {
		return insufficientResourcesError{id: id, reason: reason}
	}

	err := s.runtime.Load(ctx, id)
	switch {
	case err == nil:
		s.record(audit.ActionLoad, id, "", "loaded")
	case errors.Is(err, context.DeadlineExceeded):
		// The runtime may still finish the load after our timeout; keep the
		// bookkeeping entry so the model is reconciled, not lost. A later
		// evict issues an unload that is harmless either way.
		s.record(audit.ActionLoadTimeout, id, "", "load call timed out, entry kept for reconciliation")
	default:
		s.record(audit.ActionLoadFailed, id, "", err.Error())
		return runtimeUnreachableError{op: "load", id: id, cause: err}
	}

	s.loaded[id] = s.now()
	s.usage[id]++
	s.loadsTotal++
	loadsTotal.Inc()
	loadedModels.Set(float64(len(s.loaded)))
	return nil
}

// GetOrLoadModelForTask is the scheduler's single most important operation:
// select a model for the task, record the decision, and make sure the model
// is loaded. On load failure it falls back to any already-loaded model
// before reporting unavailability.
func (s *Scheduler) GetOrLoadModelForTask(ctx context.Context, task types.Task) (string, string, error) {
	snap := s.monitor.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()

	id, reason := s.selectLocked(ctx, task, snap)
	if id == "" {
		return "", reason, noModelAvailableError{}
	}
	s.appendHistoryLocked(task, id, reason)
	s.record(audit.ActionSelect, id, task.Kind, reason)

	if _, ok := s.loaded[id]; ok {
		s.usage[id]++
		return id, reason, nil
	}
	if err := s.loadLocked(ctx, id); err != nil {
		// Prefer the main brain, else the most recently loaded model.
		if fb := s.fallbackLoadedLocked(id); fb != "" {
			fbReason := "load failed, fell back to loaded model"
			s.record(audit.ActionFallback, fb, task.Kind, fbReason)
			s.usage[fb]++
			return fb, fbReason, nil
		}
		return "", reason, err
	}
	return id, reason, nil
}

// fallbackLoadedLocked picks a substitute among loaded models, excluding the
// one that just failed.
func (s *Scheduler) fallbackLoadedLocked(exclude string) string {
	if s.mainBrain != "" && s.mainBrain != exclude {
		if _, ok := s.loaded[s.mainBrain]; ok {
			return s.mainBrain
		}
	}
	best := ""
	for id, at := range s.loaded {
		if id == exclude {
			continue
		}
		if best == "" || at.After(s.loaded[best]) {
			best = id
		}
	}
	return best
}

// InitMainBrain tries the ordered candidate list, each gated by the same
// admission check as any other model, and protects the first that loads.
// When every candidate fails, the scheduler continues degraded with no
// protected model and orchestration tasks fall through to normal scoring.
func (s *Scheduler) InitMainBrain(ctx context.Context, candidates []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.initialized = true }()

	if s.mainBrain != "" {
		return s.mainBrain
	}
	for _, id := range candidates {
		if _, ok := s.catalog.Lookup(id); !ok {
			continue
		}
		if err := s.loadLocked(ctx, id); err != nil {
			s.record(audit.ActionMainBrain, id, "", "candidate rejected: "+err.Error())
			continue
		}
		s.mainBrain = id
		s.record(audit.ActionMainBrain, id, "", "main brain selected")
		return id
	}
	s.record(audit.ActionMainBrain, "", "", "no candidate admitted, running degraded")
	return ""
}
