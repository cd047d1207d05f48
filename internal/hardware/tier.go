package hardware

import (
	"strings"

	"fleetd/pkg/types"
)

// tierThresholds are conjunctive minimums evaluated top-down: the profile
// gets the highest tier whose thresholds are all satisfied. Conjunction keeps
// the classification monotone in every input.
var tierThresholds = []struct {
	tier     types.PerformanceTier
	minVRAM  float64
	minRAM   float64
	minCores int
}{
	{types.TierEnterprise, 48, 128, 32},
	{types.TierEnthusiast, 24, 64, 16},
	{types.TierHighEnd, 16, 32, 8},
	{types.TierMidRange, 8, 16, 6},
	{types.TierBudget, 4, 8, 4},
	{types.TierLowEnd, 2, 4, 2},
}

// gpuTierFloor maps well-known GPU name substrings to a minimum tier. A
// datacenter card with modest system RAM still deserves its class.
var gpuTierFloor = []struct {
	substr string
	tier   types.PerformanceTier
}{
	{"h200", types.TierEnterprise},
	{"h100", types.TierEnterprise},
	{"b200", types.TierEnterprise},
	{"a100", types.TierEnterprise},
	{"mi300", types.TierEnterprise},
	{"rtx 5090", types.TierEnthusiast},
	{"rtx 4090", types.TierEnthusiast},
	{"a6000", types.TierEnthusiast},
	{"l40", types.TierEnthusiast},
	{"rtx 4080", types.TierHighEnd},
	{"rtx 3090", types.TierHighEnd},
}

// ClassifyTier derives the performance tier from max single-device VRAM,
// total RAM and logical core count. Deterministic for the same inputs.
func ClassifyTier(vramGB, ramGB float64, cores int) types.PerformanceTier {
	for _, t := range tierThresholds {
		if vramGB >= t.minVRAM && ramGB >= t.minRAM && cores >= t.minCores {
			return t.tier
		}
	}
	return types.TierUltraLow
}

// TierForProfile classifies a profile, applying the GPU-name floor override.
func TierForProfile(gpus []types.GPUInfo, ramGB float64, cores int) types.PerformanceTier {
	var maxVRAM float64
	floor := types.TierUltraLow
	for _, g := range gpus {
		if g.TotalVRAMGB > maxVRAM {
			maxVRAM = g.TotalVRAMGB
		}
		name := strings.ToLower(g.Name)
		for _, f := range gpuTierFloor {
			if strings.Contains(name, f.substr) && f.tier.Rank() > floor.Rank() {
				floor = f.tier
			}
		}
	}
	tier := ClassifyTier(maxVRAM, ramGB, cores)
	if floor.Rank() > tier.Rank() {
		return floor
	}
	return tier
}

// tierLimits maps each tier to its scheduler thresholds.
var tierLimits = map[types.PerformanceTier]types.TierLimits{
	types.TierUltraLow:   {MinFreeRAMGB: 1.0, MinFreeVRAMGB: 0.5, MaxModelsLoaded: 1},
	types.TierLowEnd:     {MinFreeRAMGB: 1.5, MinFreeVRAMGB: 0.5, MaxModelsLoaded: 1},
	types.TierBudget:     {MinFreeRAMGB: 2.0, MinFreeVRAMGB: 1.0, MaxModelsLoaded: 2},
	types.TierMidRange:   {MinFreeRAMGB: 2.0, MinFreeVRAMGB: 1.5, MaxModelsLoaded: 2},
	types.TierHighEnd:    {MinFreeRAMGB: 3.0, MinFreeVRAMGB: 2.0, MaxModelsLoaded: 3},
	types.TierEnthusiast: {MinFreeRAMGB: 4.0, MinFreeVRAMGB: 2.0, MaxModelsLoaded: 4},
	types.TierEnterprise: {MinFreeRAMGB: 6.0, MinFreeVRAMGB: 4.0, MaxModelsLoaded: 6},
}

// LimitsForTier returns the scheduler thresholds for a tier.
func LimitsForTier(t types.PerformanceTier) types.TierLimits {
	if l, ok := tierLimits[t]; ok {
		return l
	}
	return tierLimits[types.TierUltraLow]
}

// tierCandidates lists main-brain candidates per tier, best first.
// Hints only, never enforced; every candidate is still admission-gated.
var tierCandidates = map[types.PerformanceTier][]string{
	types.TierUltraLow:   {"llama3.2-1b"},
	types.TierLowEnd:     {"llama3.2-3b", "llama3.2-1b"},
	types.TierBudget:     {"phi3-mini", "llama3.2-3b", "llama3.2-1b"},
	types.TierMidRange:   {"llama3.1-8b", "mistral-7b", "phi3-mini", "llama3.2-3b"},
	types.TierHighEnd:    {"deepseek-r1-14b", "llama3.1-8b", "mistral-7b"},
	types.TierEnthusiast: {"qwen2.5-32b", "deepseek-r1-14b", "llama3.1-8b"},
	types.TierEnterprise: {"llama3.3-70b", "qwen2.5-32b", "deepseek-r1-14b"},
}

// CandidatesForTier returns the recommended main-brain candidate list.
func CandidatesForTier(t types.PerformanceTier) []string {
	ids := tierCandidates[t]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
