package audit

import (
	"sync"

	"go.uber.org/zap"
)

// ============================================================================
// AUDIT LOG — Structured processing trail for one analysis run
// ============================================================================
// Wraps a zap logger and additionally retains every event in order, so the
// report layer can show which sources were processed, skipped, and why. A nil
// *Log is valid and drops everything, which keeps callers free of nil checks.
// ============================================================================

// EventKind classifies an audit event.
type EventKind string

const (
	EventSourceProcessed EventKind = "source_processed"
	EventSourceSkipped   EventKind = "source_skipped"
	EventWarning         EventKind = "warning"
	EventInfo            EventKind = "info"
)

// Event is one retained audit entry.
type Event struct {
	Kind    EventKind
	Source  string // file path when the event is source-scoped, else ""
	Message string
	Records int // rows kept, for source_processed events
}

// Log is a structured logger that also retains its events.
type Log struct {
	mu     sync.Mutex
	logger *zap.Logger
	events []Event
}

// New builds a Log over the given zap logger. A nil logger is replaced with
// a no-op one; events are retained either way.
func New(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

// SourceProcessed records a successfully loaded source.
func (l *Log) SourceProcessed(source string, records int) {
	if l == nil {
		return
	}
	l.logger.Info("source processed",
		zap.String("source", source),
		zap.Int("records", records),
	)
	l.append(Event{Kind: EventSourceProcessed, Source: source, Records: records})
}

// SourceSkipped records a source dropped under the skip-and-continue policy.
func (l *Log) SourceSkipped(source string, reason string) {
	if l == nil {
		return
	}
	l.logger.Warn("source skipped",
		zap.String("source", source),
		zap.String("reason", reason),
	)
	l.append(Event{Kind: EventSourceSkipped, Source: source, Message: reason})
}

// Warn records a non-fatal condition not tied to losing a whole source.
func (l *Log) Warn(source, msg string) {
	if l == nil {
		return
	}
	l.logger.Warn(msg, zap.String("source", source))
	l.append(Event{Kind: EventWarning, Source: source, Message: msg})
}

// Info records a progress note.
func (l *Log) Info(msg string) {
	if l == nil {
		return
	}
	l.logger.Info(msg)
	l.append(Event{Kind: EventInfo, Message: msg})
}

// Events returns a copy of the retained trail in emission order.
func (l *Log) Events() []Event {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Skipped returns the retained source_skipped events.
func (l *Log) Skipped() []Event {
	var out []Event
	for _, e := range l.Events() {
		if e.Kind == EventSourceSkipped {
			out = append(out, e)
		}
	}
	return out
}

// Sync flushes the underlying zap logger.
func (l *Log) Sync() error {
	if l == nil {
		return nil
	}
	return l.logger.Sync()
}

func (l *Log) append(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}
