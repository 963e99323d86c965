package events

import (
	"github.com/apex/log"
)

var _ Publisher = &ChannelPublisher{}

// ChannelPublisher feeds an in-process front end. Events are advisory,
// so when the channel is full the oldest event is dropped rather than
// stalling the session's command path.
type ChannelPublisher struct {
	events chan Event
}

func NewChannelPublisher(bufferSize int) *ChannelPublisher {
	return &ChannelPublisher{
		events: make(chan Event, bufferSize),
	}
}

func (c *ChannelPublisher) Publish(event Event) error {
	for {
		select {
		case c.events <- event:
			return nil
		default:
		}

		select {
		case dropped := <-c.events:
			log.WithField("event_type", dropped.EventType()).
				Warn("Dropping unconsumed event")
		default:
		}
	}
}

func (c *ChannelPublisher) Events() <-chan Event {
	return c.events
}
