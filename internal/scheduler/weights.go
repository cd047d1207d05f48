package scheduler

// Default scoring weights. Heuristic, carried over as configuration rather
// than hard-coded literals; flagged for calibration, not silently changed.
const (
	defaultReasoningBonus      = 20
	defaultCodingBonus         = 20
	defaultQuickTaskBonus      = 15
	defaultHeavyTaskPenalty    = 25
	defaultUsageBonusPerUse    = 2
	defaultUsageBonusCap       = 10
	defaultLoadedBonus         = 30
	defaultSuitablePromptChars = 500
	defaultQuickPromptChars    = 200
	defaultQuickFootprintGB    = 10.0
	defaultHeavyFootprintGB    = 20.0
	defaultMaxCPUPercent       = 90.0
)

// Weights are the configurable constants of the scoring function and
// admission gate. Zero fields take the package defaults.
type Weights struct {
	// Bonus for reasoning-capable models on reasoning/policy tasks.
	ReasoningBonus int
	// Bonus for coding-capable models on code/debugging tasks.
	CodingBonus int
	// Bonus for small models on short prompts.
	QuickTaskBonus int
	// Penalty for heavy models on status/summary tasks.
	HeavyTaskPenalty int
	// Per-use popularity bonus and its cap.
	UsageBonusPerUse int
	UsageBonusCap    int
	// Bonus for models that are already loaded (avoids swap churn).
	LoadedBonus int
	// Prompt length below which the main brain is considered suitable.
	SuitablePromptChars int
	// Prompt length below which the quick-task bonus applies.
	QuickPromptChars int
	// Footprint below which a model counts as small for quick tasks.
	QuickFootprintGB float64
	// Footprint above which a model is penalized for light tasks.
	HeavyFootprintGB float64
	// CPU utilization above which admission refuses any load.
	MaxCPUPercent float64
}

// DefaultWeights returns the built-in weight set.
func DefaultWeights() Weights {
	return Weights{
		ReasoningBonus:      defaultReasoningBonus,
		CodingBonus:         defaultCodingBonus,
		QuickTaskBonus:      defaultQuickTaskBonus,
		HeavyTaskPenalty:    defaultHeavyTaskPenalty,
		UsageBonusPerUse:    defaultUsageBonusPerUse,
		UsageBonusCap:       defaultUsageBonusCap,
		LoadedBonus:         defaultLoadedBonus,
		SuitablePromptChars: defaultSuitablePromptChars,
		QuickPromptChars:    defaultQuickPromptChars,
		QuickFootprintGB:    defaultQuickFootprintGB,
		HeavyFootprintGB:    defaultHeavyFootprintGB,
		MaxCPUPercent:       defaultMaxCPUPercent,
	}
}

// withDefaults fills zero fields from DefaultWeights, so partial overrides
// from a config file leave the rest intact.
func (w Weights) withDefaults() Weights {
	d := DefaultWeights()
	if w.ReasoningBonus == 0 {
		w.ReasoningBonus = d.ReasoningBonus
	}
	if w.CodingBonus == 0 {
		w.CodingBonus = d.CodingBonus
	}
	if w.QuickTaskBonus == 0 {
		w.QuickTaskBonus = d.QuickTaskBonus
	}
	if w.HeavyTaskPenalty == 0 {
		w.HeavyTaskPenalty = d.HeavyTaskPenalty
	}
	if w.UsageBonusPerUse == 0 {
		w.UsageBonusPerUse = d.UsageBonusPerUse
	}
	if w.UsageBonusCap == 0 {
		w.UsageBonusCap = d.UsageBonusCap
	}
	if w.LoadedBonus == 0 {
		w.LoadedBonus = d.LoadedBonus
	}
	if w.SuitablePromptChars == 0 {
		w.SuitablePromptChars = d.SuitablePromptChars
	}
	if w.QuickPromptChars == 0 {
		w.QuickPromptChars = d.QuickPromptChars
	}
	if w.QuickFootprintGB == 0 {
		w.QuickFootprintGB = d.QuickFootprintGB
	}
	if w.HeavyFootprintGB == 0 {
		w.HeavyFootprintGB = d.HeavyFootprintGB
	}
	if w.MaxCPUPercent == 0 {
		w.MaxCPUPercent = d.MaxCPUPercent
	}
	return w
}
