package audit

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Sink receives a copy of every appended event. Sinks are invoked while the
// log's lock is held, so they observe events in append order and every
// concurrent writer waits on them. Implementations must return quickly.
type Sink interface {
	Write(event SecurityEvent) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(event SecurityEvent) error

func (f SinkFunc) Write(event SecurityEvent) error { return f(event) }

// Log is an in-memory, append-only sequence of security events owned by a
// single session. It is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	events  []SecurityEvent
	sinks   []Sink
	now     func() time.Time
	onError func(error)
}

// Option configures a Log.
type Option func(*Log)

// WithSink mirrors every appended event to s.
func WithSink(s Sink) Option {
	return func(l *Log) {
		if s != nil {
			l.sinks = append(l.sinks, s)
		}
	}
}

// WithClock overrides the timestamp source used by Record.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// WithErrorHandler receives sink failures. Append itself never fails.
func WithErrorHandler(fn func(error)) Option {
	return func(l *Log) { l.onError = fn }
}

// NewLog creates an empty log.
func NewLog(opts ...Option) *Log {
	l := &Log{
		now:     time.Now,
		onError: func(error) {},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append adds event to the end of the log. A zero timestamp is filled in
// from the log's clock.
func (l *Log) Append(event SecurityEvent) {
	l.appendStamped(event)
}

// appendStamped stamps and stores event under the lock, so append order and
// timestamp order agree.
func (l *Log) appendStamped(event SecurityEvent) SecurityEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = l.now()
	}
	l.events = append(l.events, event)

	for _, s := range l.sinks {
		if err := s.Write(event); err != nil {
			l.onError(err)
		}
	}
	return event
}

// Record builds and appends an event in one step and returns it as stored.
func (l *Log) Record(kind Kind, input string) SecurityEvent {
	return l.appendStamped(SecurityEvent{Kind: kind, Input: input})
}

// Recent returns up to n events, most recent first.
func (l *Log) Recent(n int) []SecurityEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || len(l.events) == 0 {
		return []SecurityEvent{}
	}
	if n > len(l.events) {
		n = len(l.events)
	}

	out := make([]SecurityEvent, 0, n)
	for i := len(l.events) - 1; i >= len(l.events)-n; i-- {
		out = append(out, l.events[i])
	}
	return out
}

// Len reports the number of events currently held.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Clear drops every event. It does not touch sinks.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

// ExportAll returns every event in append order.
func (l *Log) ExportAll() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Record, len(l.events))
	for i, e := range l.events {
		out[i] = e.Record()
	}
	return out
}

// WriteJSON writes the full export as an indented JSON array.
func (l *Log) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(l.ExportAll())
}

// ExportFileName is the download name used for full exports.
func ExportFileName(t time.Time) string {
	return "security_logs_" + t.Format("20060102_150405") + ".json"
}
