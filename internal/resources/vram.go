package resources

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// nvidiaVRAM shells out to nvidia-smi for per-device free memory.
type nvidiaVRAM struct {
	bin string
}

// NewNvidiaVRAM returns the nvidia-smi strategy.
func NewNvidiaVRAM() VRAMStrategy { return nvidiaVRAM{bin: "nvidia-smi"} }

func (nvidiaVRAM) Name() string { return "nvidia-smi" }

func (s nvidiaVRAM) FreeVRAMGB(ctx context.Context) (float64, error) {
	out, err := exec.CommandContext(ctx, s.bin,
		"--query-gpu=memory.free", "--format=csv,noheader,nounits").Output()
	if err != nil {
		return 0, err
	}
	return maxMiBLine(out)
}

// rocmVRAM shells out to rocm-smi for AMD devices.
type rocmVRAM struct {
	bin string
}

// NewROCmVRAM returns the rocm-smi strategy.
func NewROCmVRAM() VRAMStrategy { return rocmVRAM{bin: "rocm-smi"} }

func (rocmVRAM) Name() string { return "rocm-smi" }

func (s rocmVRAM) FreeVRAMGB(ctx context.Context) (float64, error) {
	out, err := exec.CommandContext(ctx, s.bin, "--showmeminfo", "vram", "--csv").Output()
	if err != nil {
		return 0, err
	}
	return parseROCmFree(out)
}

// maxMiBLine parses one MiB value per line and returns the maximum in GB.
// A model must fit on a single device, so devices are never summed.
func maxMiBLine(out []byte) (float64, error) {
	var maxMiB float64
	found := false
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		mib, err := strconv.ParseFloat(line, 64)
		if err != nil {
			continue
		}
		if !found || mib > maxMiB {
			maxMiB = mib
			found = true
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("no per-device values parsed")
	}
	return maxMiB / 1024, nil
}

// parseROCmFree parses rocm-smi CSV rows of the form
// "card0,<total bytes>,<used bytes>" and returns max free in GB.
func parseROCmFree(out []byte) (float64, error) {
	var maxFree float64
	found := false
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		fields := strings.Split(line, ",")
		if len(fields) < 3 || !strings.HasPrefix(fields[0], "card") {
			continue
		}
		total, err1 := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		used, err2 := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err1 != nil || err2 != nil || total < used {
			continue
		}
		free := (total - used) / (1 << 30)
		if !found || free > maxFree {
			maxFree = free
			found = true
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("no per-device values parsed")
	}
	return maxFree, nil
}
