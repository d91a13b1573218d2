// Copyright 2026 Domainmap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package subscribers

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cast"

	"github.com/domainmap/domainmap/pkg/output"
)

// Lipgloss styles for terminal output
var (
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")) // Green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")). // Red
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")). // Yellow
			Bold(true)

	summaryTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("105")). // Purple
				Bold(true)

	statNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // Cyan

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62")) // Blue
)

// HumanFormatter renders human-friendly output (colors, aligned tables,
// counter summaries). Used when --json is NOT present.
type HumanFormatter struct {
	stdout       io.Writer
	stderr       io.Writer
	colorEnabled bool
}

// NewHumanFormatter creates a new HumanFormatter subscriber.
func NewHumanFormatter(stdout, stderr io.Writer, colorEnabled bool) *HumanFormatter {
	return &HumanFormatter{
		stdout:       stdout,
		stderr:       stderr,
		colorEnabled: colorEnabled,
	}
}

// Name returns the subscriber identifier.
func (s *HumanFormatter) Name() string {
	return "human-formatter"
}

// ShouldHandle decides if this subscriber cares about the event.
// Diagnostic events belong to the DiagnosticSubscriber.
func (s *HumanFormatter) ShouldHandle(event output.OutputEvent) bool {
	return event.Type != output.EventDiag
}

// Handle processes an output event and renders it in human-friendly form.
func (s *HumanFormatter) Handle(event output.OutputEvent) {
	switch event.Type {
	case output.EventInfo:
		fmt.Fprintln(s.stdout, s.render(infoStyle, event.Message))
	case output.EventWarning:
		fmt.Fprintln(s.stderr, s.render(warningStyle, "warning: "+event.Message))
	case output.EventError:
		fmt.Fprintln(s.stderr, s.render(errorStyle, "error: "+event.Message))
	case output.EventTable:
		s.printTable(event)
	case output.EventSummary:
		s.printSummary(event)
	}
}

func (s *HumanFormatter) render(style lipgloss.Style, text string) string {
	if !s.colorEnabled {
		return text
	}
	return style.Render(text)
}

func (s *HumanFormatter) printTable(event output.OutputEvent) {
	data, ok := event.Data.(map[string]any)
	if !ok {
		return
	}
	headers := cast.ToStringSlice(data["headers"])
	rows, err := toStringRows(data["rows"])
	if err != nil {
		return
	}

	w := tabwriter.NewWriter(s.stdout, 2, 4, 2, ' ', 0)
	if len(headers) > 0 {
		line := ""
		for i, h := range headers {
			if i > 0 {
				line += "\t"
			}
			line += s.render(tableHeaderStyle, h)
		}
		fmt.Fprintln(w, line)
	}
	for _, row := range rows {
		line := ""
		for i, cell := range row {
			if i > 0 {
				line += "\t"
			}
			line += cell
		}
		fmt.Fprintln(w, line)
	}
	w.Flush()
}

func (s *HumanFormatter) printSummary(event output.OutputEvent) {
	stats, ok := event.Data.([]output.Stat)
	if !ok {
		return
	}
	if event.Message != "" {
		fmt.Fprintln(s.stdout, s.render(summaryTitleStyle, event.Message))
	}
	for i, stat := range stats {
		branch := "├──"
		if i == len(stats)-1 {
			branch = "└──"
		}
		fmt.Fprintf(s.stdout, "%s %s: %d\n", branch, s.render(statNameStyle, stat.Name), stat.Value)
	}
}

func toStringRows(v any) ([][]string, error) {
	if rows, ok := v.([][]string); ok {
		return rows, nil
	}
	raw, err := cast.ToSliceE(v)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, cast.ToStringSlice(r))
	}
	return rows, nil
}
