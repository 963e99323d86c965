package dummy

import (
	"sync"

	"stem-session/src/application/events"
)

var _ events.Publisher = &Publisher{}

func NewDummyPublisher() *Publisher {
	return &Publisher{}
}

// Publisher collects events under a lock - the extraction worker
// publishes from its own goroutine.
type Publisher struct {
	Unavailable bool

	mu     sync.Mutex
	events []events.Event
}

func (p *Publisher) Publish(event events.Event) error {
	if p.Unavailable {
		return NetworkFailure
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)
	return nil
}

func (p *Publisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	collected := make([]events.Event, len(p.events))
	copy(collected, p.events)
	return collected
}

func (p *Publisher) EventsOfType(eventType string) []events.Event {
	matching := []events.Event{}

	for _, event := range p.Events() {
		if event.EventType() == eventType {
			matching = append(matching, event)
		}
	}

	return matching
}
