package events

import (
	"encoding/json"

	"stem-session/src/lib/werror"

	"github.com/streadway/amqp"
)

var _ Publisher = RabbitMQPublisher{}

// RabbitMQPublisher mirrors session notifications onto a queue so that
// out-of-process observers can follow along. The event type rides on
// the message Type field, the event itself is the JSON body.
func NewRabbitMQPublisher(conn *amqp.Connection, queueName string) (RabbitMQPublisher, error) {
	channel, err := conn.Channel()
	if err != nil {
		return RabbitMQPublisher{}, werror.WrapError("Failed to create rabbit channel", err)
	}

	_, err = channel.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)

	if err != nil {
		_ = channel.Close()
		return RabbitMQPublisher{}, werror.WrapError("Failed to declare queue", err)
	}

	return RabbitMQPublisher{
		channel:   channel,
		queueName: queueName,
	}, nil
}

type RabbitMQPublisher struct {
	channel   *amqp.Channel
	queueName string
}

func (r RabbitMQPublisher) Publish(event Event) error {
	jsonBytes, err := json.Marshal(event)
	if err != nil {
		return werror.WrapError("Failed to marshal event body", err)
	}

	msg := amqp.Publishing{
		Type:         event.EventType(),
		Body:         jsonBytes,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
	}

	return r.channel.Publish("", r.queueName, false, false, msg)
}
