package audit

import "github.com/rs/zerolog"

// LogSink writes decisions as structured log events.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink { return &LogSink{log: log} }

func (s *LogSink) Write(d Decision) error {
	s.log.Info().
		Str("decision_id", d.ID).
		Str("action", d.Action).
		Str("model", d.Model).
		Str("task_kind", d.TaskKind).
		Str("reason", d.Reason).
		Time("at", d.Time).
		Msg("scheduler decision")
	return nil
}

func (s *LogSink) Close() error { return nil }
