package hub

import (
	"encoding/json"
	"testing"
)

func TestSubscribeAndBroadcast(t *testing.T) {
	h := NewHub()
	client := make(Client, 1)
	h.Subscribe(TopicInterest, client)

	h.Broadcast(TopicInterest, Event{Type: "interest.changed", Payload: map[string]interface{}{"game_id": 1}})

	select {
	case raw := <-client:
		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if event.Type != "interest.changed" {
			t.Errorf("event type = %q", event.Type)
		}
	default:
		t.Fatal("no event delivered")
	}
}

func TestBroadcast_OtherTopicNotDelivered(t *testing.T) {
	h := NewHub()
	client := make(Client, 1)
	h.Subscribe(NotificationTopic(7), client)

	h.Broadcast(TopicInterest, Event{Type: "interest.changed"})

	select {
	case <-client:
		t.Fatal("event delivered to wrong topic")
	default:
	}
}

func TestUnsubscribe_ClosesClient(t *testing.T) {
	h := NewHub()
	client := make(Client, 1)
	h.Subscribe(TopicInterest, client)
	h.Unsubscribe(TopicInterest, client)

	if _, ok := <-client; ok {
		t.Fatal("client channel not closed")
	}

	// Broadcasting to the now-empty topic must not panic.
	h.Broadcast(TopicInterest, Event{Type: "interest.changed"})
}

func TestBroadcast_SlowClientDoesNotBlock(t *testing.T) {
	h := NewHub()
	client := make(Client) // unbuffered, nobody reading
	h.Subscribe(TopicInterest, client)

	done := make(chan struct{})
	go func() {
		h.Broadcast(TopicInterest, Event{Type: "interest.changed"})
		close(done)
	}()

	select {
	case <-done:
	default:
		// Give the goroutine a moment; the non-blocking send must return.
		<-done
	}
}

func TestNotificationTopic(t *testing.T) {
	if got := NotificationTopic(42); got != "notifications:42" {
		t.Errorf("NotificationTopic(42) = %q", got)
	}
}
