package hardware

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"fleetd/pkg/types"
)

// Probe is one hardware detection strategy. Implementations are best-effort:
// each method may fail independently and the profiler will try the next probe
// or fall back to a conservative default.
type Probe interface {
	Name() string
	TotalRAMGB() (float64, error)
	CPUCounts() (logical, physical int, err error)
	GPUs(ctx context.Context) ([]types.GPUInfo, error)
}

// nativeProbe reads memory and CPU facts through OS APIs (gopsutil).
// It has no view of accelerators.
type nativeProbe struct{}

// NewNativeProbe returns the OS-API probe.
func NewNativeProbe() Probe { return nativeProbe{} }

func (nativeProbe) Name() string { return "native" }

func (nativeProbe) TotalRAMGB() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return float64(vm.Total) / (1 << 30), nil
}

func (nativeProbe) CPUCounts() (int, int, error) {
	logical, err := cpu.Counts(true)
	if err != nil {
		return 0, 0, err
	}
	// Physical count is informational only; ignore its failure.
	physical, err := cpu.Counts(false)
	if err != nil {
		physical = 0
	}
	return logical, physical, nil
}

func (nativeProbe) GPUs(context.Context) ([]types.GPUInfo, error) {
	return nil, fmt.Errorf("native probe has no gpu view")
}

// nvidiaProbe shells out to nvidia-smi for accelerator facts. Absence of the
// tool is a missing data point, not an error worth surfacing.
type nvidiaProbe struct {
	bin     string
	timeout time.Duration
}

// NewNvidiaProbe returns the vendor-CLI probe.
func NewNvidiaProbe() Probe {
	return nvidiaProbe{bin: "nvidia-smi", timeout: 3 * time.Second}
}

func (nvidiaProbe) Name() string { return "nvidia-smi" }

func (nvidiaProbe) TotalRAMGB() (float64, error) {
	return 0, fmt.Errorf("nvidia-smi has no ram view")
}

func (nvidiaProbe) CPUCounts() (int, int, error) {
	return 0, 0, fmt.Errorf("nvidia-smi has no cpu view")
}

func (p nvidiaProbe) GPUs(ctx context.Context) ([]types.GPUInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, p.bin,
		"--query-gpu=name,memory.total", "--format=csv,noheader,nounits").Output()
	if err != nil {
		return nil, err
	}
	return parseNvidiaGPUs(out)
}

// parseNvidiaGPUs parses "name, memory.total" CSV lines with MiB values.
func parseNvidiaGPUs(out []byte) ([]types.GPUInfo, error) {
	var gpus []types.GPUInfo
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		idx := strings.LastIndex(line, ",")
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(line[:idx])
		mib, err := strconv.ParseFloat(strings.TrimSpace(line[idx+1:]), 64)
		if err != nil {
			continue
		}
		gpus = append(gpus, types.GPUInfo{Name: name, TotalVRAMGB: mib / 1024})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(gpus) == 0 {
		return nil, fmt.Errorf("no gpus parsed")
	}
	return gpus, nil
}
