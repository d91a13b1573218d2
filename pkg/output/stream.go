// Copyright 2026 Domainmap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package output

// OutputSubscriber consumes events from an OutputEventStream. Subscribers
// cannot propagate errors; a subscriber that fails must drop the event.
type OutputSubscriber interface {
	// Name returns the subscriber identifier.
	Name() string

	// ShouldHandle decides if this subscriber cares about the event.
	ShouldHandle(event OutputEvent) bool

	// Handle processes one event.
	Handle(event OutputEvent)
}

// OutputEventStream fans events out to its subscribers synchronously, in
// registration order. The pipeline is single-threaded, matching the
// single-pass nature of a run.
type OutputEventStream struct {
	subscribers []OutputSubscriber
}

// NewOutputEventStream creates an empty stream.
func NewOutputEventStream() *OutputEventStream {
	return &OutputEventStream{}
}

// Subscribe registers a subscriber. Not safe for concurrent use with Emit;
// wiring happens once at startup.
func (s *OutputEventStream) Subscribe(sub OutputSubscriber) {
	s.subscribers = append(s.subscribers, sub)
}

// Emit delivers an event to every interested subscriber.
func (s *OutputEventStream) Emit(event OutputEvent) {
	for _, sub := range s.subscribers {
		if sub.ShouldHandle(event) {
			sub.Handle(event)
		}
	}
}
