// Package resources provides live reads of free RAM, free VRAM and CPU load
// that gate every admission decision.
package resources

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"fleetd/pkg/types"
)

// Conservative fallbacks used when every probing strategy fails. Low free
// figures bias admission toward refusing rather than thrashing.
const (
	FallbackFreeRAMGB  = 4.0
	FallbackFreeVRAMGB = 2.0
	FallbackCPUPercent = 50.0
)

// SystemSampler reads RAM and CPU facts.
type SystemSampler interface {
	FreeRAMGB() (float64, error)
	CPUPercent() (float64, error)
}

// VRAMStrategy reads the maximum free VRAM on any single device. Strategies
// are tried in order until one succeeds.
type VRAMStrategy interface {
	Name() string
	FreeVRAMGB(ctx context.Context) (float64, error)
}

// Monitor combines a system sampler with ordered VRAM strategies.
// Snapshot never fails; exhausted strategies degrade to conservative
// constants.
type Monitor struct {
	sys     SystemSampler
	vram    []VRAMStrategy
	timeout time.Duration
	log     zerolog.Logger
}

// NewMonitor builds a monitor with the default sampler and VRAM strategy
// chain (nvidia-smi, then rocm-smi).
func NewMonitor(log zerolog.Logger) *Monitor {
	return NewMonitorWith(log, gopsutilSampler{},
		NewNvidiaVRAM(), NewROCmVRAM())
}

// NewMonitorWith builds a monitor from explicit parts, used by tests and by
// callers with their own probing stack.
func NewMonitorWith(log zerolog.Logger, sys SystemSampler, strategies ...VRAMStrategy) *Monitor {
	return &Monitor{sys: sys, vram: strategies, timeout: 3 * time.Second, log: log}
}

// Snapshot returns a momentary view of free resources. It never returns an
// error: each failed read degrades to its conservative fallback.
func (m *Monitor) Snapshot() types.ResourceSnapshot {
	snap := types.ResourceSnapshot{
		FreeRAMGB:  FallbackFreeRAMGB,
		FreeVRAMGB: FallbackFreeVRAMGB,
		CPUPercent: FallbackCPUPercent,
	}
	if ram, err := m.sys.FreeRAMGB(); err == nil {
		snap.FreeRAMGB = ram
	} else {
		m.log.Debug().Err(err).Msg("ram sample failed")
	}
	if pct, err := m.sys.CPUPercent(); err == nil {
		snap.CPUPercent = pct
	} else {
		m.log.Debug().Err(err).Msg("cpu sample failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	for _, s := range m.vram {
		free, err := s.FreeVRAMGB(ctx)
		if err == nil {
			snap.FreeVRAMGB = free
			return snap
		}
		m.log.Debug().Str("strategy", s.Name()).Err(err).Msg("vram probe failed")
	}
	return snap
}

// gopsutilSampler reads RAM and CPU through OS APIs.
type gopsutilSampler struct{}

func (gopsutilSampler) FreeRAMGB() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return float64(vm.Available) / (1 << 30), nil
}

func (gopsutilSampler) CPUPercent() (float64, error) {
	// Non-blocking sample against the previous call's counters.
	pcts, err := cpu.Percent(0, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, nil
	}
	return pcts[0], nil
}
