package catalog

import "fleetd/pkg/types"

// Builtin returns the static model table. Resource figures are estimates for
// common quantized builds; the extension file can shadow any entry.
func Builtin() []types.ModelSpec {
	return []types.ModelSpec{
		{
			ID: "llama3.2-1b", Name: "Llama 3.2 1B Instruct",
			FootprintGB: 1.3, RequiredRAMGB: 2, RequiredVRAMGB: 1,
			Capabilities:    []string{"general"},
			BasePerformance: 35, LoadLatencySec: 5,
			SpecialtyBonus: map[string]int{"status": 5, "summary": 5},
		},
		{
			ID: "llama3.2-3b", Name: "Llama 3.2 3B Instruct",
			FootprintGB: 2.0, RequiredRAMGB: 4, RequiredVRAMGB: 2.5,
			Capabilities:    []string{"general"},
			BasePerformance: 45, LoadLatencySec: 8,
		},
		{
			ID: "phi3-mini", Name: "Phi-3 Mini",
			FootprintGB: 2.3, RequiredRAMGB: 4, RequiredVRAMGB: 2.8,
			Capabilities:    []string{"general", "coding"},
			BasePerformance: 50, LoadLatencySec: 8,
			SpecialtyBonus: map[string]int{"code": 5},
		},
		{
			ID: "mistral-7b", Name: "Mistral 7B Instruct",
			FootprintGB: 4.1, RequiredRAMGB: 8, RequiredVRAMGB: 5,
			Capabilities:    []string{"general"},
			BasePerformance: 65, LoadLatencySec: 15,
		},
		{
			ID: "qwen2.5-coder-7b", Name: "Qwen 2.5 Coder 7B",
			FootprintGB: 4.7, RequiredRAMGB: 8, RequiredVRAMGB: 5.5,
			Capabilities:    []string{"coding"},
			BasePerformance: 70, LoadLatencySec: 15,
			SpecialtyBonus: map[string]int{"code": 15, "debugging": 10},
		},
		{
			ID: "llama3.1-8b", Name: "Llama 3.1 8B Instruct",
			FootprintGB: 4.9, RequiredRAMGB: 8, RequiredVRAMGB: 6,
			Capabilities:    []string{"general", "reasoning"},
			BasePerformance: 72, LoadLatencySec: 18,
			SpecialtyBonus: map[string]int{"summary": 5},
		},
		{
			ID: "deepseek-r1-14b", Name: "DeepSeek R1 Distill 14B",
			FootprintGB: 9.0, RequiredRAMGB: 16, RequiredVRAMGB: 10,
			Capabilities:    []string{"reasoning"},
			BasePerformance: 85, LoadLatencySec: 40,
			SpecialtyBonus: map[string]int{"reasoning": 15, "policy": 10},
		},
		{
			ID: "qwen2.5-32b", Name: "Qwen 2.5 32B Instruct",
			FootprintGB: 20.0, RequiredRAMGB: 32, RequiredVRAMGB: 22,
			Capabilities:    []string{"general", "reasoning"},
			BasePerformance: 90, LoadLatencySec: 90,
		},
		{
			ID: "llama3.3-70b", Name: "Llama 3.3 70B Instruct",
			FootprintGB: 40.0, RequiredRAMGB: 64, RequiredVRAMGB: 42,
			Capabilities:    []string{"general", "reasoning", "coding"},
			BasePerformance: 95, LoadLatencySec: 180,
		},
	}
}
