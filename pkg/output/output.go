// Copyright 2026 Domainmap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package output

import "time"

// contextKey is a type for context keys to avoid collisions
type contextKey string

// OutputKey is the context key for the Output interface
const OutputKey contextKey = "output"

// OutputEventType defines the type of output event.
type OutputEventType string

const (
	// EventInfo represents a general information message (always visible)
	EventInfo OutputEventType = "info"

	// EventError represents an error message
	EventError OutputEventType = "error"

	// EventWarning represents a warning message
	EventWarning OutputEventType = "warning"

	// EventTable represents tabular data output
	EventTable OutputEventType = "table"

	// EventSummary represents the end-of-run counter summary
	EventSummary OutputEventType = "summary"

	// EventDiag represents diagnostic information (only visible with -v/-vv)
	EventDiag OutputEventType = "diag"
)

// OutputLevel defines the verbosity level for diagnostic messages.
type OutputLevel int

const (
	// LevelNormal is the default level (always shown)
	LevelNormal OutputLevel = 0

	// LevelVerbose is shown with -v flag
	LevelVerbose OutputLevel = 1

	// LevelDebug is shown with -vv flag
	LevelDebug OutputLevel = 2
)

// Stat is one named counter of a run summary. Order is preserved.
type Stat struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// OutputEvent represents a single output event emitted by business logic.
type OutputEvent struct {
	// Type identifies the event category (info, error, summary, etc.)
	Type OutputEventType

	// Level specifies verbosity level (only used for EventDiag)
	Level OutputLevel

	// Message is the primary text content
	Message string

	// Data contains structured data (table headers/rows, summary stats)
	Data any

	// Metadata holds additional key-value pairs for diagnostic events
	Metadata map[string]any

	// Timestamp records when the event was created
	Timestamp time.Time
}

// Output is the primary interface for business logic to emit output events.
// Callers use it without knowing the underlying rendering format
// (human-friendly terminal output or JSON lines).
type Output interface {
	// Info emits a general information message (always visible).
	Info(message string)

	// Error emits an error message.
	Error(err error)

	// Warning emits a warning message.
	Warning(message string)

	// Table emits tabular data with headers and rows.
	Table(headers []string, rows [][]string)

	// Summary emits the run's counter summary under a title.
	Summary(title string, stats []Stat)

	// Diag emits diagnostic information (only visible with -v/-vv).
	Diag(level OutputLevel, message string, metadata map[string]any)
}
