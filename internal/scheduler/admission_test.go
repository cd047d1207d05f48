package scheduler

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"fleetd/pkg/types"
)

func TestCanLoadUnknownModel(t *testing.T) {
	s, _, _ := newTestScheduler(t, testSpecs())
	ok, reason := s.CanLoad("nope")
	if ok {
		t.Fatalf("expected refusal for unknown model")
	}
	if !strings.Contains(reason, "unknown model") {
		t.Fatalf("unexpected reason: %q", reason)
	}
}

func TestCanLoadVRAMGate(t *testing.T) {
	// can_load must be false whenever free_vram < required_vram + headroom,
	// for any model and any synthetic snapshot.
	s, _, mon := newTestScheduler(t, testSpecs())
	for _, spec := range testSpecs() {
		for _, freeVRAM := range []float64{0, 1, 3, 6, 7.4, 7.5, 12, 40} {
			mon.set(types.ResourceSnapshot{FreeRAMGB: 1024, FreeVRAMGB: freeVRAM, CPUPercent: 10})
			ok, reason := s.CanLoad(spec.ID)
			wantOK := freeVRAM >= spec.RequiredVRAMGB+s.limits.MinFreeVRAMGB
			if ok != wantOK {
				t.Fatalf("model %s freeVRAM=%v: got ok=%v (%s), want %v", spec.ID, freeVRAM, ok, reason, wantOK)
			}
		}
	}
}

func TestCanLoadRAMGate(t *testing.T) {
	s, _, mon := newTestScheduler(t, testSpecs())
	mon.set(types.ResourceSnapshot{FreeRAMGB: 9, FreeVRAMGB: 100, CPUPercent: 10})
	// brain needs 8 + 2 headroom > 9 free.
	if ok, reason := s.CanLoad("brain"); ok || !strings.Contains(reason, "ram") {
		t.Fatalf("expected ram refusal, got ok=%v reason=%q", ok, reason)
	}
	mon.set(types.ResourceSnapshot{FreeRAMGB: 10, FreeVRAMGB: 100, CPUPercent: 10})
	if ok, _ := s.CanLoad("brain"); !ok {
		t.Fatalf("expected admission at exactly required+headroom")
	}
}

func TestCanLoadCPUGate(t *testing.T) {
	s, _, mon := newTestScheduler(t, testSpecs())
	mon.set(types.ResourceSnapshot{FreeRAMGB: 100, FreeVRAMGB: 100, CPUPercent: 95})
	if ok, reason := s.CanLoad("tiny"); ok || !strings.Contains(reason, "cpu") {
		t.Fatalf("expected cpu refusal, got ok=%v reason=%q", ok, reason)
	}
}

func TestCanLoadSlotLimit(t *testing.T) {
	s, _, _ := newTestScheduler(t, testSpecs())
	ctx := context.Background()
	if err := s.Load(ctx, "tiny"); err != nil {
		t.Fatalf("load tiny: %v", err)
	}
	if err := s.Load(ctx, "coder"); err != nil {
		t.Fatalf("load coder: %v", err)
	}
	ok, reason := s.CanLoad("brain")
	if ok || !strings.Contains(reason, "slots full") {
		t.Fatalf("expected slot refusal, got ok=%v reason=%q", ok, reason)
	}
	// An already-loaded model still passes.
	if ok, _ := s.CanLoad("tiny"); !ok {
		t.Fatalf("loaded model should pass can_load")
	}
}

func TestRemoteModelSkipsResourceChecksButUsesSlot(t *testing.T) {
	specs := append(testSpecs(), types.ModelSpec{
		ID: "cloud", Capabilities: []string{"general"}, BasePerformance: 88,
	})
	s, _, mon := newTestScheduler(t, specs)
	mon.set(types.ResourceSnapshot{FreeRAMGB: 0, FreeVRAMGB: 0, CPUPercent: 10})
	if ok, reason := s.CanLoad("cloud"); !ok {
		t.Fatalf("remote model should pass resource checks: %s", reason)
	}
	ctx := context.Background()
	if err := s.Load(ctx, "cloud"); err != nil {
		t.Fatalf("load cloud: %v", err)
	}
	mon.set(types.ResourceSnapshot{FreeRAMGB: 100, FreeVRAMGB: 100, CPUPercent: 10})
	if err := s.Load(ctx, "tiny"); err != nil {
		t.Fatalf("load tiny: %v", err)
	}
	// Slots are full (2/2); remote entries count like any other.
	if ok, reason := s.CanLoad("brain"); ok || !strings.Contains(reason, "slots full") {
		t.Fatalf("expected slot refusal, got ok=%v reason=%q", ok, reason)
	}
}

func TestLoadedNeverExceedsMaxModels(t *testing.T) {
	s, _, _ := newTestScheduler(t, testSpecs())
	ctx := context.Background()
	for _, id := range []string{"tiny", "coder", "brain"} {
		_ = s.Load(ctx, id)
		if got := len(s.Status().Loaded); got > s.limits.MaxModelsLoaded {
			t.Fatalf("loaded %d exceeds max %d", got, s.limits.MaxModelsLoaded)
		}
	}
	if err := s.Load(ctx, "brain"); !IsInsufficientResources(err) {
		t.Fatalf("expected insufficient resources, got %v", err)
	}
}

func TestAdmitReasonMentionsHeadroom(t *testing.T) {
	s, _, mon := newTestScheduler(t, testSpecs())
	mon.set(types.ResourceSnapshot{FreeRAMGB: 100, FreeVRAMGB: 7, CPUPercent: 10})
	ok, reason := s.CanLoad("coder") // needs 6 + 1.5 > 7
	if ok {
		t.Fatalf("expected refusal")
	}
	want := fmt.Sprintf("%.1f", s.limits.MinFreeVRAMGB)
	if !strings.Contains(reason, want) {
		t.Fatalf("reason %q should mention headroom %s", reason, want)
	}
}
