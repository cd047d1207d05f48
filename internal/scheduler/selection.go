package scheduler

import (
	"context"
	"fmt"
	"sort"

	"fleetd/internal/audit"
	"fleetd/pkg/types"
)

// orchestrationKinds must never trigger a model swap: with a main brain
// present they are pinned to it unconditionally.
var orchestrationKinds = map[string]struct{}{
	"server_management":    {},
	"ecosystem_management": {},
	"service_management":   {},
	"policy":               {},
	"arbiter":              {},
	"system_status":        {},
}

// IsOrchestrationKind reports whether kind belongs to the fixed set of
// orchestration task kinds.
func IsOrchestrationKind(kind string) bool {
	_, ok := orchestrationKinds[kind]
	return ok
}

// SelectModelForTask picks the model id to serve a task, possibly evicting
// idle models to make room for the winner. It never fails to answer: when
// nothing passes admission even after eviction, the smallest catalog entry
// is returned as a last resort.
func (s *Scheduler) SelectModelForTask(ctx context.Context, task types.Task) (string, string) {
	snap := s.monitor.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(ctx, task, snap)
}

func (s *Scheduler) selectLocked(ctx context.Context, task types.Task, snap types.ResourceSnapshot) (string, string) {
	if task.ForceModel != "" {
		if _, ok := s.catalog.Lookup(task.ForceModel); ok {
			return task.ForceModel, "forced by task override"
		}
	}

	if s.mainBrain != "" {
		if IsOrchestrationKind(task.Kind) {
			return s.mainBrain, fmt.Sprintf("orchestration task %q pinned to main brain", task.Kind)
		}
		if brain, ok := s.catalog.Lookup(s.mainBrain); ok && s.mainBrainSuits(brain, task) {
			return s.mainBrain, fmt.Sprintf("main brain suitable for task kind %q", task.Kind)
		}
	}

	ranked := s.rankLocked(task)
	if len(ranked) == 0 {
		return "", "catalog is empty"
	}
	for _, c := range ranked {
		if ok, _ := s.admitLocked(c.spec, snap); ok {
			return c.spec.ID, fmt.Sprintf("scored %d, admission ok", c.score)
		}
	}

	// Nothing fits: try to free room for the top-scored candidate.
	top := ranked[0]
	if s.makeRoomLocked(ctx, top.spec, &snap) {
		return top.spec.ID, fmt.Sprintf("scored %d, admitted after eviction", top.score)
	}

	// Last-resort guarantee of an answer.
	small, ok := s.catalog.Smallest()
	if !ok {
		return "", "catalog is empty"
	}
	s.fallbacksTotal++
	fallbacksTotal.Inc()
	s.record(audit.ActionFallback, small.ID, task.Kind, "smallest-footprint fallback, nothing passed admission")
	return small.ID, "smallest-footprint fallback"
}

// mainBrainSuits reports whether the main brain can absorb this task without
// a swap: matching capability or specialty, a generalist brain, a wildcard
// kind, or a short prompt any competent model can handle.
func (s *Scheduler) mainBrainSuits(brain types.ModelSpec, task types.Task) bool {
	if task.Kind == "*" {
		return true
	}
	if brain.HasCapability(task.Kind) {
		return true
	}
	if _, ok := brain.SpecialtyBonus[task.Kind]; ok {
		return true
	}
	if brain.HasCapability("general") {
		return true
	}
	return len(task.Prompt) < s.weights.SuitablePromptChars
}

type candidate struct {
	spec  types.ModelSpec
	score int
}

// rankLocked scores every catalog entry for the task, best first. Ties break
// by id so ranking is deterministic.
func (s *Scheduler) rankLocked(task types.Task) []candidate {
	specs := s.catalog.All()
	ranked := make([]candidate, 0, len(specs))
	for _, spec := range specs {
		ranked = append(ranked, candidate{spec: spec, score: s.scoreLocked(spec, task)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].spec.ID < ranked[j].spec.ID
	})
	return ranked
}

// scoreLocked computes the multi-factor score for one model on one task.
func (s *Scheduler) scoreLocked(spec types.ModelSpec, task types.Task) int {
	w := s.weights
	score := spec.BasePerformance
	if bonus, ok := spec.SpecialtyBonus[task.Kind]; ok {
		score += bonus
	}
	switch task.Kind {
	case "reasoning", "policy":
		if spec.HasCapability("reasoning") {
			score += w.ReasoningBonus
		}
	case "code", "debugging":
		if spec.HasCapability("coding") {
			score += w.CodingBonus
		}
	case "status", "summary":
		if spec.FootprintGB > w.HeavyFootprintGB {
			score -= w.HeavyTaskPenalty
		}
	}
	if len(task.Prompt) < w.QuickPromptChars && spec.FootprintGB < w.QuickFootprintGB {
		score += w.QuickTaskBonus
	}
	if bonus := s.usage[spec.ID] * w.UsageBonusPerUse; bonus > 0 {
		if bonus > w.UsageBonusCap {
			bonus = w.UsageBonusCap
		}
		score += bonus
	}
	if _, ok := s.loaded[spec.ID]; ok {
		score += w.LoadedBonus
	}
	return score
}
