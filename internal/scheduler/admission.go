package scheduler

import (
	"fmt"

	"fleetd/pkg/types"
)

// CanLoad is the admission check gating every load attempt. The returned
// reason explains a refusal in operator terms. A passing result is advisory
// only: admission is re-evaluated under the lock before any transition
// commits, since resource snapshots are only momentarily consistent.
func (s *Scheduler) CanLoad(id string) (bool, string) {
	spec, ok := s.catalog.Lookup(id)
	if !ok {
		return false, "unknown model: " + id
	}
	snap := s.monitor.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admitLocked(spec, snap)
}

// admitLocked applies the admission rules against a resource snapshot.
// Remote models skip resource checks but still consume a loaded-model slot.
func (s *Scheduler) admitLocked(spec types.ModelSpec, snap types.ResourceSnapshot) (bool, string) {
	if _, ok := s.loaded[spec.ID]; ok {
		return true, "already loaded"
	}
	if len(s.loaded) >= s.limits.MaxModelsLoaded {
		return false, fmt.Sprintf("model slots full (%d/%d)", len(s.loaded), s.limits.MaxModelsLoaded)
	}
	if spec.IsRemote() {
		return true, "remote model, no local resources required"
	}
	if snap.FreeRAMGB < spec.RequiredRAMGB+s.limits.MinFreeRAMGB {
		return false, fmt.Sprintf("insufficient ram: %.1fGB free, need %.1fGB plus %.1fGB headroom",
			snap.FreeRAMGB, spec.RequiredRAMGB, s.limits.MinFreeRAMGB)
	}
	if snap.FreeVRAMGB < spec.RequiredVRAMGB+s.limits.MinFreeVRAMGB {
		return false, fmt.Sprintf("insufficient vram: %.1fGB free, need %.1fGB plus %.1fGB headroom",
			snap.FreeVRAMGB, spec.RequiredVRAMGB, s.limits.MinFreeVRAMGB)
	}
	if snap.CPUPercent > s.weights.MaxCPUPercent {
		return false, fmt.Sprintf("cpu overloaded: %.0f%%", snap.CPUPercent)
	}
	return true, "admission ok"
}
