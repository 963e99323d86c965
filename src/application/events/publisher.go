package events

import (
	"stem-session/src/lib/cerr"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

//counterfeiter:generate . Publisher
type Publisher interface {
	Publish(event Event) error
}

var _ Publisher = MultiPublisher{}

// MultiPublisher fans an event out to every registered publisher and
// reports the first failure after all of them have seen the event.
type MultiPublisher struct {
	publishers []Publisher
}

func NewMultiPublisher(publishers ...Publisher) MultiPublisher {
	return MultiPublisher{
		publishers: publishers,
	}
}

func (m MultiPublisher) Publish(event Event) error {
	var firstErr error

	for _, publisher := range m.publishers {
		err := publisher.Publish(event)
		if err != nil && firstErr == nil {
			firstErr = cerr.Field("event_type", event.EventType()).
				Wrap(err).Error("Failed to publish event")
		}
	}

	return firstErr
}
