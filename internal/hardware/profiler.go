// Package hardware probes the host platform and classifies it into a
// discrete performance tier that calibrates the scheduler.
package hardware

import (
	"context"
	"encoding/json"
	"os"
	"runtime"

	"github.com/rs/zerolog"

	"fleetd/pkg/types"
)

// Conservative defaults applied when every probe fails for a fact.
const (
	DefaultRAMGB  = 8.0
	DefaultVRAMGB = 4.0
	DefaultCores  = 4
)

// Profiler runs hardware probes once at startup and derives the tier.
type Profiler struct {
	probes []Probe
	log    zerolog.Logger
}

// NewProfiler builds a profiler over the given probes, tried in order.
// With no probes it uses the native OS probe plus the nvidia CLI probe.
func NewProfiler(log zerolog.Logger, probes ...Probe) *Profiler {
	if len(probes) == 0 {
		probes = []Probe{NewNativeProbe(), NewNvidiaProbe()}
	}
	return &Profiler{probes: probes, log: log}
}

// Detect probes the platform and returns a complete profile. Individual probe
// failures degrade to conservative defaults; Detect itself never fails.
func (p *Profiler) Detect(ctx context.Context) types.HardwareProfile {
	prof := types.HardwareProfile{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	for _, probe := range p.probes {
		if prof.TotalRAMGB == 0 {
			if ram, err := probe.TotalRAMGB(); err == nil && ram > 0 {
				prof.TotalRAMGB = ram
			} else if err != nil {
				p.log.Debug().Str("probe", probe.Name()).Err(err).Msg("ram probe failed")
			}
		}
		if prof.LogicalCores == 0 {
			if logical, physical, err := probe.CPUCounts(); err == nil && logical > 0 {
				prof.LogicalCores = logical
				prof.PhysicalCores = physical
			} else if err != nil {
				p.log.Debug().Str("probe", probe.Name()).Err(err).Msg("cpu probe failed")
			}
		}
		if len(prof.GPUs) == 0 {
			if gpus, err := probe.GPUs(ctx); err == nil {
				prof.GPUs = gpus
			} else {
				p.log.Debug().Str("probe", probe.Name()).Err(err).Msg("gpu probe failed")
			}
		}
	}

	if prof.TotalRAMGB == 0 {
		prof.TotalRAMGB = DefaultRAMGB
	}
	if prof.LogicalCores == 0 {
		prof.LogicalCores = DefaultCores
	}
	if len(prof.GPUs) == 0 {
		prof.GPUs = []types.GPUInfo{{Name: "unknown", TotalVRAMGB: DefaultVRAMGB}}
	}

	prof.Tier = TierForProfile(prof.GPUs, prof.TotalRAMGB, prof.LogicalCores)
	prof.RecommendedModels = CandidatesForTier(prof.Tier)

	p.log.Info().
		Str("tier", string(prof.Tier)).
		Float64("ram_gb", prof.TotalRAMGB).
		Float64("max_vram_gb", prof.MaxVRAMGB()).
		Int("cores", prof.LogicalCores).
		Msg("hardware detected")
	return prof
}

// SaveSnapshot writes the profile as a JSON side file for diagnostics and
// reuse. Best-effort: failures are logged, never propagated.
func (p *Profiler) SaveSnapshot(prof types.HardwareProfile, path string) {
	if path == "" {
		return
	}
	b, err := json.MarshalIndent(prof, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		p.log.Warn().Err(err).Str("path", path).Msg("hardware snapshot not written")
	}
}
