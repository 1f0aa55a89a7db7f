package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartReleaseConsumer connects to RabbitMQ, declares the game.released
// queue (durable), and starts consuming messages. Each event is appended to
// logs/releases.log as a single human-readable line, giving operators an
// audit trail of which releases fanned out and to how many users. The
// function runs a reconnect loop with backoff and never returns under normal
// operation; call it in its own goroutine.
func StartReleaseConsumer(url string) {
	if url == "" {
		log.Println("release-consumer: no broker configured, not starting")
		return
	}

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("release-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeReleases(conn); err != nil {
			log.Printf("release-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeReleases(conn *amqp.Connection) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(releaseQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	deliveries, err := ch.Consume(releaseQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for d := range deliveries {
		var event GameReleasedEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			log.Printf("release-consumer: bad payload, rejecting: %v", err)
			_ = d.Reject(false)
			continue
		}

		line := fmt.Sprintf("%s released game=%d title=%q platform=%q notified=%d\n",
			time.Now().UTC().Format(time.RFC3339), event.GameID, event.Title, event.Platform, event.NotifiedUsers)
		if err := appendReleaseLog(line); err != nil {
			log.Printf("release-consumer: write log failed: %v", err)
			_ = d.Nack(false, true)
			continue
		}

		_ = d.Ack(false)
	}

	return fmt.Errorf("delivery channel closed")
}

func appendReleaseLog(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join("logs", "releases.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = f.WriteString(line)
	return err
}
