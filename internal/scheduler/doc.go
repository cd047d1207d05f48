// Package scheduler decides which model serves a task, whether it must be
// loaded, and which idle model to evict to make room. It is structured into
// small files by concern:
//
//   - scheduler.go: core Scheduler type, Config, constructor, status/history.
//   - weights.go: configurable scoring weights and their defaults.
//   - errors.go: error types and helpers (IsUnknownModel, IsMainBrainProtected, ...).
//   - admission.go: the CanLoad resource-sufficiency check.
//   - selection.go: task->model scoring and the main-brain fast paths.
//   - load.go: Load, GetOrLoadModelForTask and main-brain initialization.
//   - evict.go: Evict, MakeRoomFor and the idle cleanup sweep.
//   - metrics.go: prometheus counters/gauges.
//
// One mutex guards all state mutation: load and evict transitions are atomic
// with respect to other callers, and admission is re-evaluated immediately
// before every transition commits. The main-brain id, once set, is never
// reassigned and never evicted.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (New, CanLoad, SelectModelForTask,
// GetOrLoadModelForTask, Load, Evict, CleanupIdle, Status, Ready).
package scheduler
