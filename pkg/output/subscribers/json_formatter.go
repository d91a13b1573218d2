// Copyright 2026 Domainmap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package subscribers

import (
	"encoding/json"
	"io"
	"time"

	"github.com/domainmap/domainmap/pkg/output"
)

// JSONFormatter emits structured output when the --json flag is present.
//
// Output format: one JSON object per line (JSON Lines).
type JSONFormatter struct {
	encoder *json.Encoder
}

// NewJSONFormatter creates a new JSONFormatter subscriber.
func NewJSONFormatter(writer io.Writer) *JSONFormatter {
	return &JSONFormatter{encoder: json.NewEncoder(writer)}
}

// Name returns the subscriber identifier.
func (s *JSONFormatter) Name() string {
	return "json-formatter"
}

// ShouldHandle decides if this subscriber cares about the event.
// Diagnostic events belong to the DiagnosticSubscriber.
func (s *JSONFormatter) ShouldHandle(event output.OutputEvent) bool {
	return event.Type != output.EventDiag
}

// Handle processes an output event and renders it as one JSON line.
func (s *JSONFormatter) Handle(event output.OutputEvent) {
	jsonEvent := map[string]any{
		"type":      event.Type,
		"timestamp": event.Timestamp.Format(time.RFC3339),
	}
	if event.Message != "" {
		jsonEvent["message"] = event.Message
	}
	if event.Data != nil {
		jsonEvent["data"] = event.Data
	}
	if len(event.Metadata) > 0 {
		jsonEvent["metadata"] = event.Metadata
	}

	// Encoding errors (e.g. broken pipe) cannot propagate per the
	// subscriber contract; the event is dropped.
	if err := s.encoder.Encode(jsonEvent); err != nil {
		return
	}
}
