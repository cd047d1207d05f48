package scheduler

import (
	"context"
	"sync"
	"testing"

	"fleetd/internal/catalog"
	"fleetd/pkg/types"
)

// fakeRuntime records load/unload calls and tracks what the "runtime"
// currently holds, so a resource model can derive free resources from it.
type fakeRuntime struct {
	mu        sync.Mutex
	loadErr   map[string]error
	unloadErr map[string]error
	loads     []string
	unloads   []string
	holding   map[string]bool
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		loadErr:   map[string]error{},
		unloadErr: map[string]error{},
		holding:   map[string]bool{},
	}
}

func (r *fakeRuntime) Load(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads = append(r.loads, id)
	if err := r.loadErr[id]; err != nil {
		return err
	}
	r.holding[id] = true
	return nil
}

func (r *fakeRuntime) Unload(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unloads = append(r.unloads, id)
	if err := r.unloadErr[id]; err != nil {
		return err
	}
	delete(r.holding, id)
	return nil
}

func (r *fakeRuntime) loadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.loads)
}

// staticMonitor returns a fixed snapshot.
type staticMonitor struct {
	mu   sync.Mutex
	snap types.ResourceSnapshot
}

func (m *staticMonitor) Snapshot() types.ResourceSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

func (m *staticMonitor) set(snap types.ResourceSnapshot) {
	m.mu.Lock()
	m.snap = snap
	m.mu.Unlock()
}

// resourceModel derives free resources from what the fake runtime holds, so
// evictions genuinely free room.
type resourceModel struct {
	rt        *fakeRuntime
	specs     map[string]types.ModelSpec
	totalRAM  float64
	totalVRAM float64
	cpu       float64
}

func newResourceModel(rt *fakeRuntime, specs []types.ModelSpec, ramGB, vramGB float64) *resourceModel {
	m := &resourceModel{rt: rt, specs: map[string]types.ModelSpec{}, totalRAM: ramGB, totalVRAM: vramGB, cpu: 20}
	for _, s := range specs {
		m.specs[s.ID] = s
	}
	return m
}

func (m *resourceModel) Snapshot() types.ResourceSnapshot {
	m.rt.mu.Lock()
	defer m.rt.mu.Unlock()
	snap := types.ResourceSnapshot{FreeRAMGB: m.totalRAM, FreeVRAMGB: m.totalVRAM, CPUPercent: m.cpu}
	for id := range m.rt.holding {
		if s, ok := m.specs[id]; ok {
			snap.FreeRAMGB -= s.RequiredRAMGB
			snap.FreeVRAMGB -= s.RequiredVRAMGB
		}
	}
	return snap
}

// testSpecs is a compact catalog exercising every scoring dimension.
func testSpecs() []types.ModelSpec {
	return []types.ModelSpec{
		{ID: "tiny", FootprintGB: 1.3, RequiredRAMGB: 2, RequiredVRAMGB: 1,
			Capabilities: []string{"general"}, BasePerformance: 35},
		{ID: "coder", FootprintGB: 4.7, RequiredRAMGB: 8, RequiredVRAMGB: 6,
			Capabilities: []string{"coding"}, BasePerformance: 70,
			SpecialtyBonus: map[string]int{"code": 10}},
		{ID: "brain", FootprintGB: 4.9, RequiredRAMGB: 8, RequiredVRAMGB: 6,
			Capabilities: []string{"general", "reasoning"}, BasePerformance: 72},
		{ID: "huge", FootprintGB: 40, RequiredRAMGB: 64, RequiredVRAMGB: 16,
			Capabilities: []string{"general", "reasoning", "coding"}, BasePerformance: 90},
	}
}

func midRangeLimits() types.TierLimits {
	return types.TierLimits{MinFreeRAMGB: 2, MinFreeVRAMGB: 1.5, MaxModelsLoaded: 2}
}

// newTestScheduler wires a scheduler over the fake runtime and a static
// snapshot generous enough to admit any single test spec except "huge".
func newTestScheduler(t *testing.T, specs []types.ModelSpec) (*Scheduler, *fakeRuntime, *staticMonitor) {
	t.Helper()
	rt := newFakeRuntime()
	mon := &staticMonitor{snap: types.ResourceSnapshot{FreeRAMGB: 32, FreeVRAMGB: 12, CPUPercent: 20}}
	s := New(Config{
		Catalog: catalog.New(specs),
		Monitor: mon,
		Runtime: rt,
		Tier:    types.TierMidRange,
		Limits:  midRangeLimits(),
	})
	return s, rt, mon
}
