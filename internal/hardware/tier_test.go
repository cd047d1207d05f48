package hardware

import (
	"testing"

	"fleetd/pkg/types"
)

func TestClassifyTierTable(t *testing.T) {
	cases := []struct {
		vram  float64
		ram   float64
		cores int
		want  types.PerformanceTier
	}{
		{0, 2, 1, types.TierUltraLow},
		{1, 8, 8, types.TierUltraLow},
		{2, 4, 2, types.TierLowEnd},
		{4, 8, 4, types.TierBudget},
		{6, 16, 8, types.TierBudget},
		{8, 16, 6, types.TierMidRange},
		{12, 24, 12, types.TierMidRange},
		{16, 32, 8, types.TierHighEnd},
		{24, 64, 16, types.TierEnthusiast},
		{48, 128, 32, types.TierEnterprise},
		{80, 512, 96, types.TierEnterprise},
		// One starved dimension caps the tier.
		{48, 128, 4, types.TierBudget},
		{24, 8, 16, types.TierBudget},
	}
	for _, c := range cases {
		got := ClassifyTier(c.vram, c.ram, c.cores)
		if got != c.want {
			t.Errorf("ClassifyTier(%v,%v,%d) = %s, want %s", c.vram, c.ram, c.cores, got, c.want)
		}
	}
}

func TestTierMonotonic(t *testing.T) {
	vrams := []float64{0, 2, 4, 8, 16, 24, 48, 96}
	rams := []float64{2, 4, 8, 16, 32, 64, 128, 256}
	cores := []int{1, 2, 4, 6, 8, 16, 32, 64}
	for _, v := range vrams {
		for _, r := range rams {
			for _, c := range cores {
				base := ClassifyTier(v, r, c).Rank()
				if ClassifyTier(v+8, r, c).Rank() < base {
					t.Fatalf("more vram lowered tier at (%v,%v,%d)", v, r, c)
				}
				if ClassifyTier(v, r+32, c).Rank() < base {
					t.Fatalf("more ram lowered tier at (%v,%v,%d)", v, r, c)
				}
				if ClassifyTier(v, r, c+8).Rank() < base {
					t.Fatalf("more cores lowered tier at (%v,%v,%d)", v, r, c)
				}
			}
		}
	}
}

func TestGPUNameFloor(t *testing.T) {
	gpus := []types.GPUInfo{{Name: "NVIDIA H100 80GB HBM3", TotalVRAMGB: 80}}
	// Modest RAM and cores would classify far lower without the floor.
	if got := TierForProfile(gpus, 16, 8); got != types.TierEnterprise {
		t.Fatalf("expected enterprise floor for H100, got %s", got)
	}
	consumer := []types.GPUInfo{{Name: "NVIDIA GeForce RTX 4090", TotalVRAMGB: 24}}
	if got := TierForProfile(consumer, 16, 8); got != types.TierEnthusiast {
		t.Fatalf("expected enthusiast floor for 4090, got %s", got)
	}
}

func TestTierForProfileUsesMaxSingleDevice(t *testing.T) {
	// Two 8GB cards are not one 16GB card.
	gpus := []types.GPUInfo{
		{Name: "NVIDIA GeForce RTX 3070", TotalVRAMGB: 8},
		{Name: "NVIDIA GeForce RTX 3070", TotalVRAMGB: 8},
	}
	if got := TierForProfile(gpus, 32, 12); got != types.TierMidRange {
		t.Fatalf("expected mid_range, got %s", got)
	}
}

func TestLimitsMonotoneInTierRank(t *testing.T) {
	tiers := []types.PerformanceTier{
		types.TierUltraLow, types.TierLowEnd, types.TierBudget, types.TierMidRange,
		types.TierHighEnd, types.TierEnthusiast, types.TierEnterprise,
	}
	prev := LimitsForTier(tiers[0])
	for _, tier := range tiers[1:] {
		l := LimitsForTier(tier)
		if l.MaxModelsLoaded < prev.MaxModelsLoaded {
			t.Fatalf("%s allows fewer models than a weaker tier", tier)
		}
		if l.MinFreeRAMGB < prev.MinFreeRAMGB || l.MinFreeVRAMGB < prev.MinFreeVRAMGB {
			t.Fatalf("%s reserves less headroom than a weaker tier", tier)
		}
		prev = l
	}
}

func TestLimitsForUnknownTier(t *testing.T) {
	l := LimitsForTier(types.PerformanceTier("bogus"))
	if l != LimitsForTier(types.TierUltraLow) {
		t.Fatalf("unknown tier should fall back to ultra_low limits")
	}
}

func TestCandidatesForTierReturnsCopy(t *testing.T) {
	a := CandidatesForTier(types.TierMidRange)
	if len(a) == 0 {
		t.Fatalf("expected candidates for mid_range")
	}
	a[0] = "mutated"
	b := CandidatesForTier(types.TierMidRange)
	if b[0] == "mutated" {
		t.Fatalf("candidate list mutated via returned slice")
	}
}
