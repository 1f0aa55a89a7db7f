package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const releaseQueueName = "game.released"

// AMQPPublisher publishes release events to a durable RabbitMQ queue.
// Each publish opens a short-lived connection; release events are rare
// enough (a handful per day) that connection reuse isn't worth the
// reconnect bookkeeping.
type AMQPPublisher struct {
	url string
}

// NewAMQPPublisher creates a publisher. Returns nil when url is empty so
// callers can run without a broker.
func NewAMQPPublisher(url string) *AMQPPublisher {
	if url == "" {
		return nil
	}
	return &AMQPPublisher{url: url}
}

// PublishGameReleased publishes a GameReleasedEvent to the game.released
// queue. Messages are marked persistent so they survive broker restarts.
// Any error is logged and returned; the caller treats it as non-fatal.
func (p *AMQPPublisher) PublishGameReleased(ctx context.Context, event GameReleasedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		releaseQueueName, // name
		true,             // durable
		false,            // autoDelete
		false,            // exclusive
		false,            // noWait
		nil,              // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",               // default exchange
		releaseQueueName, // routing key = queue name
		false,            // mandatory
		false,            // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
