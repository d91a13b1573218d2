// Copyright 2026 Domainmap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package subscribers

import (
	"fmt"
	"io"
	"sort"

	"github.com/domainmap/domainmap/pkg/output"
)

// DiagnosticSubscriber renders diagnostic events to stderr when the
// requested verbosity covers the event's level.
type DiagnosticSubscriber struct {
	stderr    io.Writer
	verbosity output.OutputLevel
}

// NewDiagnosticSubscriber creates a diagnostic subscriber for the given
// verbosity ceiling (-v => LevelVerbose, -vv => LevelDebug).
func NewDiagnosticSubscriber(stderr io.Writer, verbosity output.OutputLevel) *DiagnosticSubscriber {
	return &DiagnosticSubscriber{stderr: stderr, verbosity: verbosity}
}

// Name returns the subscriber identifier.
func (s *DiagnosticSubscriber) Name() string {
	return "diagnostic"
}

// ShouldHandle accepts diagnostic events at or below the verbosity ceiling.
func (s *DiagnosticSubscriber) ShouldHandle(event output.OutputEvent) bool {
	return event.Type == output.EventDiag && event.Level <= s.verbosity
}

// Handle renders the diagnostic line with its metadata pairs.
func (s *DiagnosticSubscriber) Handle(event output.OutputEvent) {
	line := event.Message
	if len(event.Metadata) > 0 {
		keys := make([]string, 0, len(event.Metadata))
		for k := range event.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			line += fmt.Sprintf(" %s=%v", k, event.Metadata[k])
		}
	}
	fmt.Fprintln(s.stderr, line)
}
