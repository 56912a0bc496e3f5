// Package memory records scan events in process for tests and local
// runs without a Pub/Sub project.
package memory

import (
	"context"
	"fmt"
	"sync"
)

// Event is one recorded publish: the topic it was sent to and the
// scan-event payload as handed to Publish, before any serialization.
type Event struct {
	Topic   string
	Payload any
}

// Publisher satisfies the publisher port by appending events to an
// in-process log. Safe for concurrent scans.
type Publisher struct {
	mu     sync.RWMutex
	events []Event
}

// New returns an empty event recorder.
func New() *Publisher {
	return &Publisher{}
}

// Publish appends the event and returns a sequence-numbered local ID.
func (p *Publisher) Publish(_ context.Context, topic string, payload any) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, Event{Topic: topic, Payload: payload})
	return fmt.Sprintf("local-%d", len(p.events)), nil
}

// Events returns a copy of the recorded events in publish order.
func (p *Publisher) Events() []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// ByTopic returns the recorded events published to one topic.
func (p *Publisher) ByTopic(topic string) []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []Event
	for _, ev := range p.events {
		if ev.Topic == topic {
			out = append(out, ev)
		}
	}
	return out
}
