// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Diagnostic is one recoverable skip event (bad entry, missing field, ...).
type Diagnostic struct {
	// Err is the underlying cause when one exists.
	Err error `json:"-" yaml:"-"`
	// Archive is the archive file path (empty for reader-at sources).
	Archive string `json:"archive" yaml:"archive"`
	// Entry is the archive-internal entry path.
	Entry string `json:"entry" yaml:"entry"`
	// Reason is a human-readable explanation.
	Reason string `json:"reason" yaml:"reason"`
}

// DiagnosticSink consumes diagnostic events. Implementations used with
// AnalyzeMods must be safe for concurrent use.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// DiagnosticFunc adapts a plain function to DiagnosticSink.
type DiagnosticFunc func(d Diagnostic)

// Report calls f(d).
func (f DiagnosticFunc) Report(d Diagnostic) {
	if f != nil {
		f(d)
	}
}

// discardSink drops every event.
type discardSink struct{}

// Report discards d.
func (discardSink) Report(Diagnostic) {}

// logSink forwards diagnostics to a structured logger.
type logSink struct {
	logger *log.Logger
}

// NewLogSink returns a sink that logs every diagnostic at warn level.
func NewLogSink(logger *log.Logger) DiagnosticSink {
	if logger == nil {
		logger = log.Default()
	}

	return logSink{logger: logger}
}

// Report logs d with archive, entry, and cause fields.
func (s logSink) Report(d Diagnostic) {
	keyvals := []any{"archive", d.Archive, "entry", d.Entry}
	if d.Err != nil {
		keyvals = append(keyvals, "err", d.Err)
	}

	s.logger.Warn(d.Reason, keyvals...)
}

// DiagnosticCollector accumulates diagnostics in memory; safe for concurrent use.
type DiagnosticCollector struct {
	items []Diagnostic
	mu    sync.Mutex
}

// Report appends d.
func (c *DiagnosticCollector) Report(d Diagnostic) {
	c.mu.Lock()
	c.items = append(c.items, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of collected events in report order.
func (c *DiagnosticCollector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// teeSink reports to several sinks in order.
type teeSink []DiagnosticSink

// Report forwards d to every sink.
func (t teeSink) Report(d Diagnostic) {
	for _, s := range t {
		s.Report(d)
	}
}

// TeeSinks returns a sink forwarding to every non-nil sink.
func TeeSinks(sinks ...DiagnosticSink) DiagnosticSink {
	out := make(teeSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}

	return out
}
