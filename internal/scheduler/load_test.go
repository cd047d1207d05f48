package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fleetd/internal/audit"
	"fleetd/pkg/types"
)

func TestLoadIdempotent(t *testing.T) {
	s, rt, _ := newTestScheduler(t, testSpecs())
	ctx := context.Background()
	if err := s.Load(ctx, "tiny"); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if err := s.Load(ctx, "tiny"); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if rt.loadCount() != 1 {
		t.Fatalf("expected exactly one runtime load, got %d", rt.loadCount())
	}
	st := s.Status()
	count := 0
	for _, m := range st.Loaded {
		if m.ModelID == "tiny" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one entry for tiny, got %d", count)
	}
}

func TestLoadUnknownModel(t *testing.T) {
	s, _, _ := newTestScheduler(t, testSpecs())
	err := s.Load(context.Background(), "ghost")
	if !IsUnknownModel(err) {
		t.Fatalf("expected unknown model error, got %v", err)
	}
}

func TestLoadRuntimeFailureNotRecorded(t *testing.T) {
	s, rt, _ := newTestScheduler(t, testSpecs())
	rt.loadErr["tiny"] = errors.New("connection refused")
	err := s.Load(context.Background(), "tiny")
	if !IsRuntimeUnreachable(err) {
		t.Fatalf("expected runtime unreachable, got %v", err)
	}
	if len(s.Status().Loaded) != 0 {
		t.Fatalf("failed load must not leave a bookkeeping entry")
	}
}

func TestLoadTimeoutKeepsEntryForReconciliation(t *testing.T) {
	s, rt, _ := newTestScheduler(t, testSpecs())
	rec := audit.NewMemoryRecorder()
	s.recorder = rec
	rt.loadErr["tiny"] = context.DeadlineExceeded
	if err := s.Load(context.Background(), "tiny"); err != nil {
		t.Fatalf("timed-out load should reconcile, got %v", err)
	}
	if len(s.Status().Loaded) != 1 {
		t.Fatalf("expected a reconciled entry")
	}
	found := false
	for _, d := range rec.Decisions() {
		if d.Action == audit.ActionLoadTimeout {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a load_timeout decision")
	}
}

func TestGetOrLoadLoadsSelection(t *testing.T) {
	s, rt, _ := newTestScheduler(t, testSpecs())
	ctx := context.Background()
	id, _, err := s.GetOrLoadModelForTask(ctx, types.Task{Kind: "code", Prompt: strings.Repeat("x", 600)})
	if err != nil {
		t.Fatalf("get or load: %v", err)
	}
	if id != "coder" {
		t.Fatalf("expected coder for code task, got %s", id)
	}
	if rt.loadCount() != 1 {
		t.Fatalf("expected one load, got %d", rt.loadCount())
	}
	// Second identical task reuses the loaded model without another load.
	id2, _, err := s.GetOrLoadModelForTask(ctx, types.Task{Kind: "code", Prompt: strings.Repeat("x", 600)})
	if err != nil || id2 != "coder" {
		t.Fatalf("expected warm coder, got %s err=%v", id2, err)
	}
	if rt.loadCount() != 1 {
		t.Fatalf("warm hit must not reload, got %d loads", rt.loadCount())
	}
}

func TestGetOrLoadRecordsHistory(t *testing.T) {
	s, _, _ := newTestScheduler(t, testSpecs())
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, _, err := s.GetOrLoadModelForTask(ctx, types.Task{Kind: "code", Prompt: "p"}); err != nil {
			t.Fatalf("task %d: %v", i, err)
		}
	}
	st := s.Status()
	if len(st.RecentTasks) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(st.RecentTasks))
	}
	if st.RecentTasks[0].Kind != "code" || st.RecentTasks[0].PromptLen != 1 {
		t.Fatalf("unexpected record: %+v", st.RecentTasks[0])
	}
}

func TestHistoryBounded(t *testing.T) {
	s, rt, mon := newTestScheduler(t, testSpecs())
	s.historySize = 5
	_ = rt
	_ = mon
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		s.GetOrLoadModelForTask(ctx, types.Task{Kind: "code", Prompt: "p"})
	}
	if got := len(s.Status().RecentTasks); got != 5 {
		t.Fatalf("expected bounded history of 5, got %d", got)
	}
}

func TestGetOrLoadFallsBackToLoadedModel(t *testing.T) {
	s, rt, _ := newTestScheduler(t, testSpecs())
	ctx := context.Background()
	if err := s.Load(ctx, "tiny"); err != nil {
		t.Fatalf("preload tiny: %v", err)
	}
	rt.loadErr["coder"] = errors.New("runtime down")
	id, reason, err := s.GetOrLoadModelForTask(ctx, types.Task{Kind: "code", Prompt: strings.Repeat("x", 600)})
	if err != nil {
		t.Fatalf("expected fallback, got error %v", err)
	}
	if id != "tiny" {
		t.Fatalf("expected fallback to loaded tiny, got %s (%s)", id, reason)
	}
}

func TestGetOrLoadUnavailableWhenNothingLoaded(t *testing.T) {
	s, rt, _ := newTestScheduler(t, testSpecs())
	for _, spec := range testSpecs() {
		rt.loadErr[spec.ID] = errors.New("runtime down")
	}
	_, _, err := s.GetOrLoadModelForTask(context.Background(), types.Task{Kind: "code", Prompt: strings.Repeat("x", 600)})
	if err == nil {
		t.Fatalf("expected unavailability error")
	}
	if !IsRuntimeUnreachable(err) {
		t.Fatalf("expected runtime unreachable, got %v", err)
	}
}

func TestInitMainBrainFirstAdmissibleWins(t *testing.T) {
	s, _, _ := newTestScheduler(t, testSpecs())
	got := s.InitMainBrain(context.Background(), []string{"ghost", "huge", "brain", "tiny"})
	// ghost is unknown, huge fails admission; brain is first to load.
	if got != "brain" {
		t.Fatalf("expected brain, got %q", got)
	}
	if s.MainBrain() != "brain" {
		t.Fatalf("main brain not recorded")
	}
	if !s.Ready() {
		t.Fatalf("expected ready after init")
	}
}

func TestMainBrainImmutableOnceSet(t *testing.T) {
	s, _, _ := newTestScheduler(t, testSpecs())
	ctx := context.Background()
	s.InitMainBrain(ctx, []string{"brain"})
	if got := s.InitMainBrain(ctx, []string{"tiny"}); got != "brain" {
		t.Fatalf("main brain must not be reassigned, got %q", got)
	}
}

func TestDegradedModeWhenAllCandidatesFail(t *testing.T) {
	s, rt, _ := newTestScheduler(t, testSpecs())
	ctx := context.Background()
	rt.loadErr["brain"] = errors.New("runtime down")
	rt.loadErr["tiny"] = errors.New("runtime down")
	if got := s.InitMainBrain(ctx, []string{"brain", "tiny"}); got != "" {
		t.Fatalf("expected degraded mode, got %q", got)
	}
	if s.Status().MainBrainModel != "" {
		t.Fatalf("status should report no main brain")
	}
	if !s.Ready() {
		t.Fatalf("degraded scheduler is still ready")
	}
	// Orchestration tasks fall through to normal scoring without raising.
	rt.loadErr = map[string]error{}
	id, _, err := s.GetOrLoadModelForTask(ctx, types.Task{Kind: "server_management", Prompt: "p"})
	if err != nil {
		t.Fatalf("degraded orchestration task: %v", err)
	}
	if id == "" {
		t.Fatalf("expected a scored selection in degraded mode")
	}
}
