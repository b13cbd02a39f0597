// Package publishers delivers run-completion events to configured sinks:
// cloud queues (SQS, SNS, Pub/Sub) or plain HTTP endpoints. Downstream
// consumers use the event to invalidate caches or trigger re-deploys of the
// reader front end.
package publishers

import (
	"context"
	"time"
)

// Event summarizes one completed pipeline run.
type Event struct {
	RunID         string    `json:"run_id"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Articles      int       `json:"articles"`
	NewArticles   int       `json:"new_articles"`
	Sources       int       `json:"sources"`
	FailedSources []string  `json:"failed_sources,omitempty"`
	Reset         bool      `json:"reset"`
}

// Publisher delivers run events to one configured sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger is the minimal logging surface publishers depend on.
type Logger interface {
	DebugObj(msg, event string, fields map[string]any)
	InfoObj(msg, event string, fields map[string]any)
	WarnObj(msg, event string, fields map[string]any)
	ErrorObj(msg, event string, fields map[string]any)
}

type nopLogger struct{}

func (nopLogger) DebugObj(string, string, map[string]any) {}
func (nopLogger) InfoObj(string, string, map[string]any)  {}
func (nopLogger) WarnObj(string, string, map[string]any)  {}
func (nopLogger) ErrorObj(string, string, map[string]any) {}

// ensureLogger guarantees a usable logger.
func ensureLogger(log Logger) Logger {
	if log == nil {
		return nopLogger{}
	}
	return log
}
