package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"fleetd/internal/audit"
	"fleetd/pkg/types"
)

const defaultHistorySize = 50

// Registry is the read-only model catalog view the scheduler needs.
type Registry interface {
	Lookup(id string) (types.ModelSpec, bool)
	All() []types.ModelSpec
	Smallest() (types.ModelSpec, bool)
}

// ResourceSource provides momentary free-resource snapshots.
type ResourceSource interface {
	Snapshot() types.ResourceSnapshot
}

// ModelRuntime is the external process that actually holds model weights.
type ModelRuntime interface {
	Load(ctx context.Context, modelID string) error
	Unload(ctx context.Context, modelID string) error
}

// Config carries everything the scheduler needs at construction. Thresholds
// are set once here and treated as immutable afterwards.
type Config struct {
	Catalog     Registry
	Monitor     ResourceSource
	Runtime     ModelRuntime
	Tier        types.PerformanceTier
	Limits      types.TierLimits
	Weights     Weights
	Recorder    audit.Recorder
	HistorySize int
}

// Scheduler owns the set of currently loaded models and all decisions about
// them. Safe for concurrent use.
type Scheduler struct {
	mu       sync.Mutex
	catalog  Registry
	monitor  ResourceSource
	runtime  ModelRuntime
	tier     types.PerformanceTier
	limits   types.TierLimits
	weights  Weights
	recorder audit.Recorder

	loaded      map[string]time.Time
	usage       map[string]int
	history     []types.TaskRecord
	historySize int
	mainBrain   string
	initialized bool

	loadsTotal     uint64
	evictionsTotal uint64
	fallbacksTotal uint64

	startTime time.Time
	now       func() time.Time
}

// New constructs a scheduler. Zero config fields take package defaults.
func New(cfg Config) *Scheduler {
	s := &Scheduler{
		catalog:     cfg.Catalog,
		monitor:     cfg.Monitor,
		runtime:     cfg.Runtime,
		tier:        cfg.Tier,
		limits:      cfg.Limits,
		weights:     cfg.Weights.withDefaults(),
		recorder:    cfg.Recorder,
		historySize: cfg.HistorySize,
		loaded:      make(map[string]time.Time),
		usage:       make(map[string]int),
		startTime:   time.Now(),
		now:         time.Now,
	}
	if s.recorder == nil {
		s.recorder = audit.NopRecorder{}
	}
	if s.historySize <= 0 {
		s.historySize = defaultHistorySize
	}
	if s.limits.MaxModelsLoaded <= 0 {
		s.limits.MaxModelsLoaded = 1
	}
	return s
}

// Models lists every catalog entry.
func (s *Scheduler) Models() []types.ModelSpec {
	return s.catalog.All()
}

// MainBrain returns the protected model id, empty in degraded mode.
func (s *Scheduler) MainBrain() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mainBrain
}

// Ready reports whether startup initialization has completed. The scheduler
// is usable in degraded mode too, so readiness does not require a main brain.
func (s *Scheduler) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Status returns a read-only snapshot of scheduler state. The response holds
// copies only; callers can never reach internal state through it.
func (s *Scheduler) Status() types.StatusResponse {
	snap := s.monitor.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := types.StatusResponse{
		MainBrainModel: s.mainBrain,
		Tier:           s.tier,
		Resources:      snap,
		Limits:         s.limits,
		SlotsUsed:      len(s.loaded),
		LoadsTotal:     s.loadsTotal,
		EvictionsTotal: s.evictionsTotal,
		FallbacksTotal: s.fallbacksTotal,
		UptimeSeconds:  int64(s.now().Sub(s.startTime).Seconds()),
		ServerTimeUnix: s.now().Unix(),
	}
	resp.Loaded = make([]types.LoadedModelStatus, 0, len(s.loaded))
	for id, at := range s.loaded {
		resp.Loaded = append(resp.Loaded, types.LoadedModelStatus{
			ModelID:      id,
			LoadedAtUnix: at.Unix(),
			UsageCount:   s.usage[id],
			MainBrain:    id == s.mainBrain,
		})
	}
	sort.Slice(resp.Loaded, func(i, j int) bool {
		if resp.Loaded[i].LoadedAtUnix != resp.Loaded[j].LoadedAtUnix {
			return resp.Loaded[i].LoadedAtUnix < resp.Loaded[j].LoadedAtUnix
		}
		return resp.Loaded[i].ModelID < resp.Loaded[j].ModelID
	})
	resp.RecentTasks = make([]types.TaskRecord, len(s.history))
	copy(resp.RecentTasks, s.history)
	return resp
}

// appendHistoryLocked records a task decision, dropping the oldest entry
// once the bounded history is full.
func (s *Scheduler) appendHistoryLocked(task types.Task, model, reason string) {
	rec := types.TaskRecord{
		TimeUnix:  s.now().Unix(),
		Kind:      task.Kind,
		PromptLen: len(task.Prompt),
		Model:     model,
		Reason:    reason,
	}
	s.history = append(s.history, rec)
	if len(s.history) > s.historySize {
		s.history = s.history[len(s.history)-s.historySize:]
	}
}

// loadedOldestFirstLocked returns loaded ids ordered by load time, excluding
// the main brain, which is never an eviction candidate.
func (s *Scheduler) loadedOldestFirstLocked() []string {
	ids := make([]string, 0, len(s.loaded))
	for id := range s.loaded {
		if id == s.mainBrain {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ti, tj := s.loaded[ids[i]], s.loaded[ids[j]]
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return ids[i] < ids[j]
	})
	return ids
}

func (s *Scheduler) record(action, model, taskKind, reason string) {
	s.recorder.Record(audit.Decision{
		Time:     s.now(),
		Action:   action,
		Model:    model,
		TaskKind: taskKind,
		Reason:   reason,
	})
}
