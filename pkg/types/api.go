package types

// RouteRequest asks the scheduler to pick (and load) a model for a task.
type RouteRequest struct {
	// Task kind label.
	// example: code
	Kind string `json:"kind" example:"code"`
	// Risk/priority level.
	// example: normal
	Priority string `json:"priority,omitempty" example:"normal"`
	// Prompt text; only its length is considered.
	Prompt string `json:"prompt,omitempty"`
	// Optional override: force this model regardless of scoring.
	ForceModel string `json:"force_model,omitempty"`
}

// RouteResponse is the scheduler's decision for a routed task.
type RouteResponse struct {
	// Chosen model id.
	// example: llama3.1-8b
	Model string `json:"model" example:"llama3.1-8b"`
	// Human-readable reasoning for the choice.
	// example: main brain suitable for task kind "code"
	Reason string `json:"reason"`
}

// LoadedModelStatus summarizes one loaded model for /status.
type LoadedModelStatus struct {
	// Model id.
	// example: llama3.1-8b
	ModelID string `json:"model_id" example:"llama3.1-8b"`
	// Load time in unix seconds.
	// example: 1700000000
	LoadedAtUnix int64 `json:"loaded_at_unix" example:"1700000000"`
	// Number of tasks served by this model.
	// example: 12
	UsageCount int `json:"usage_count" example:"12"`
	// Whether this model is the protected main brain.
	// example: true
	MainBrain bool `json:"main_brain,omitempty" example:"true"`
}

// TaskRecord is one entry of the scheduler's bounded recent-task history.
type TaskRecord struct {
	// Decision time in unix seconds.
	// example: 1700000000
	TimeUnix int64 `json:"time_unix" example:"1700000000"`
	// Task kind.
	// example: code
	Kind string `json:"kind" example:"code"`
	// Prompt length in characters.
	// example: 420
	PromptLen int `json:"prompt_len" example:"420"`
	// Model selected for the task.
	// example: qwen2.5-coder-7b
	Model string `json:"model" example:"qwen2.5-coder-7b"`
	// Selection reasoning.
	Reason string `json:"reason"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Protected main brain model id; empty in degraded mode.
	// example: llama3.1-8b
	MainBrainModel string `json:"main_brain_model,omitempty" example:"llama3.1-8b"`
	// Currently loaded models.
	Loaded []LoadedModelStatus `json:"loaded"`
	// Hardware tier the scheduler was calibrated for.
	// example: mid_range
	Tier PerformanceTier `json:"tier" example:"mid_range"`
	// Free resources at status time.
	Resources ResourceSnapshot `json:"resources"`
	// Tier-derived thresholds in effect.
	Limits TierLimits `json:"limits"`
	// Loaded-model slots in use.
	// example: 2
	SlotsUsed int `json:"slots_used" example:"2"`
	// Bounded recent-task history, most recent last.
	RecentTasks []TaskRecord `json:"recent_tasks,omitempty"`
	// Total successful model loads.
	// example: 12
	LoadsTotal uint64 `json:"loads_total" example:"12"`
	// Total evictions (including idle sweeps).
	// example: 5
	EvictionsTotal uint64 `json:"evictions_total" example:"5"`
	// Total last-resort fallback selections.
	// example: 1
	FallbacksTotal uint64 `json:"fallbacks_total" example:"1"`
	// Scheduler uptime in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// ModelsResponse wraps the catalog listing returned by GET /models.
type ModelsResponse struct {
	// All known model specs.
	Models []ModelSpec `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: unknown model: mixtral-8x22b
	Error string `json:"error" example:"unknown model: mixtral-8x22b"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}
