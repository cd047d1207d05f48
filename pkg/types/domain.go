package types

// ModelSpec describes a model known to the catalog. Immutable after load.
type ModelSpec struct {
	// Stable identifier for the model.
	// example: llama3.1-8b
	ID string `json:"id" yaml:"id" toml:"id" example:"llama3.1-8b"`
	// Human-friendly name.
	// example: Llama 3.1 8B Instruct
	Name string `json:"name,omitempty" yaml:"name" toml:"name" example:"Llama 3.1 8B Instruct"`
	// Estimated on-disk / in-memory footprint in GB.
	// example: 4.9
	FootprintGB float64 `json:"footprint_gb" yaml:"footprint_gb" toml:"footprint_gb" example:"4.9"`
	// RAM required to run the model, in GB.
	// example: 8
	RequiredRAMGB float64 `json:"required_ram_gb" yaml:"required_ram_gb" toml:"required_ram_gb" example:"8"`
	// VRAM required on a single device, in GB.
	// example: 6
	RequiredVRAMGB float64 `json:"required_vram_gb" yaml:"required_vram_gb" toml:"required_vram_gb" example:"6"`
	// Free-form capability tags such as "coding", "reasoning", "general".
	Capabilities []string `json:"capabilities,omitempty" yaml:"capabilities" toml:"capabilities"`
	// Base performance score used as the starting point for task scoring.
	// example: 72
	BasePerformance int `json:"base_performance" yaml:"base_performance" toml:"base_performance" example:"72"`
	// Estimated time to load the model weights, in seconds.
	// example: 25
	LoadLatencySec int `json:"load_latency_sec,omitempty" yaml:"load_latency_sec" toml:"load_latency_sec" example:"25"`
	// Per-task-kind score adjustments (task kind -> bonus points).
	SpecialtyBonus map[string]int `json:"specialty_bonus,omitempty" yaml:"specialty_bonus" toml:"specialty_bonus"`
}

// IsRemote reports whether the spec describes a remote/cloud-backed model
// that needs no local resources. Such models skip resource admission checks
// but still occupy a loaded-model slot.
func (m ModelSpec) IsRemote() bool {
	return m.FootprintGB == 0 && m.RequiredRAMGB == 0 && m.RequiredVRAMGB == 0
}

// HasCapability reports whether tag is among the model's capability tags.
func (m ModelSpec) HasCapability(tag string) bool {
	for _, c := range m.Capabilities {
		if c == tag {
			return true
		}
	}
	return false
}

// Task is a unit of inbound work the scheduler must pick a model for.
// Only the prompt's length matters to scheduling, never its content.
type Task struct {
	// Task kind label, e.g. "code", "reasoning", "status", or "*".
	// example: code
	Kind string `json:"kind" example:"code"`
	// Risk/priority level, e.g. "low", "normal", "high".
	// example: normal
	Priority string `json:"priority,omitempty" example:"normal"`
	// Prompt text. The scheduler only inspects its length.
	Prompt string `json:"prompt,omitempty"`
	// Optional override: force this model regardless of scoring.
	ForceModel string `json:"force_model,omitempty"`
}

// GPUInfo describes one detected accelerator.
type GPUInfo struct {
	// Device name as reported by the vendor tool.
	// example: NVIDIA GeForce RTX 4090
	Name string `json:"name" example:"NVIDIA GeForce RTX 4090"`
	// Total VRAM on this device in GB.
	// example: 24
	TotalVRAMGB float64 `json:"total_vram_gb" example:"24"`
}

// PerformanceTier is the discrete hardware capability class derived from
// VRAM, RAM and core counts. Ordered from weakest to strongest.
type PerformanceTier string

const (
	TierUltraLow   PerformanceTier = "ultra_low"
	TierLowEnd     PerformanceTier = "low_end"
	TierBudget     PerformanceTier = "budget"
	TierMidRange   PerformanceTier = "mid_range"
	TierHighEnd    PerformanceTier = "high_end"
	TierEnthusiast PerformanceTier = "enthusiast"
	TierEnterprise PerformanceTier = "enterprise"
)

var tierOrder = []PerformanceTier{
	TierUltraLow, TierLowEnd, TierBudget, TierMidRange,
	TierHighEnd, TierEnthusiast, TierEnterprise,
}

// Rank returns the tier's position in the ordering (ultra_low=0). Unknown
// tiers rank as ultra_low.
func (t PerformanceTier) Rank() int {
	for i, tt := range tierOrder {
		if t == tt {
			return i
		}
	}
	return 0
}

// Valid reports whether t is a known tier value.
func (t PerformanceTier) Valid() bool {
	for _, tt := range tierOrder {
		if t == tt {
			return true
		}
	}
	return false
}

// HardwareProfile is the detected platform description plus the derived tier.
type HardwareProfile struct {
	// Operating system, e.g. "linux".
	OS string `json:"os" example:"linux"`
	// CPU architecture, e.g. "amd64".
	Arch string `json:"arch" example:"amd64"`
	// Logical CPU core count.
	LogicalCores int `json:"logical_cores" example:"16"`
	// Physical CPU core count (0 when unknown).
	PhysicalCores int `json:"physical_cores,omitempty" example:"8"`
	// Total system RAM in GB.
	TotalRAMGB float64 `json:"total_ram_gb" example:"32"`
	// Detected accelerators, possibly empty.
	GPUs []GPUInfo `json:"gpus,omitempty"`
	// Derived performance tier.
	Tier PerformanceTier `json:"tier" example:"mid_range"`
	// Ordered main-brain candidate model ids for this tier. Hints only.
	RecommendedModels []string `json:"recommended_models,omitempty"`
}

// MaxVRAMGB returns the largest single-device VRAM, since a model must fit
// on one device. Zero when no GPU was detected.
func (p HardwareProfile) MaxVRAMGB() float64 {
	var max float64
	for _, g := range p.GPUs {
		if g.TotalVRAMGB > max {
			max = g.TotalVRAMGB
		}
	}
	return max
}

// TierLimits are the scheduler thresholds derived from a PerformanceTier.
type TierLimits struct {
	// Free RAM headroom to always keep, in GB.
	MinFreeRAMGB float64 `json:"min_free_ram_gb" yaml:"min_free_ram_gb" toml:"min_free_ram_gb" example:"2"`
	// Free VRAM headroom to always keep, in GB.
	MinFreeVRAMGB float64 `json:"min_free_vram_gb" yaml:"min_free_vram_gb" toml:"min_free_vram_gb" example:"1.5"`
	// Maximum number of models loaded at once.
	MaxModelsLoaded int `json:"max_models_loaded" yaml:"max_models_loaded" toml:"max_models_loaded" example:"2"`
}

// ResourceSnapshot is a momentary view of free host resources.
type ResourceSnapshot struct {
	// Free system RAM in GB.
	FreeRAMGB float64 `json:"free_ram_gb" example:"12.4"`
	// Maximum free VRAM on any single device, in GB.
	FreeVRAMGB float64 `json:"free_vram_gb" example:"7"`
	// CPU utilization percentage across all cores.
	CPUPercent float64 `json:"cpu_percent" example:"35.5"`
}
