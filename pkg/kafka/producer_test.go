package kafka

import (
	"errors"
	"testing"
)

func TestDLQMessage_NilHeaders(t *testing.T) {
	p := &Producer{topic: "stayindia.bookings"}

	// a hand-constructed message has no header map
	msg := Message{Key: "booking-1", Value: []byte(`{}`)}

	stamped := p.dlqMessage(msg, errors.New("broker unreachable"))

	if stamped.Headers[HeaderOriginalTopic] != "stayindia.bookings" {
		t.Errorf("original-topic header = %q, want %q", stamped.Headers[HeaderOriginalTopic], "stayindia.bookings")
	}
	if stamped.Headers["dlq-error"] != "broker unreachable" {
		t.Errorf("dlq-error header = %q", stamped.Headers["dlq-error"])
	}
	if stamped.Headers["dlq-timestamp"] == "" {
		t.Error("expected dlq-timestamp header to be set")
	}
}

func TestDLQMessage_PreservesExistingHeaders(t *testing.T) {
	p := &Producer{topic: "stayindia.bookings"}

	msg := NewMessage().
		WithKey("booking-2").
		WithValue(map[string]string{"id": "booking-2"}).
		WithEventType("booking.confirmed").
		WithSource("bookings").
		Build()

	stamped := p.dlqMessage(msg, errors.New("write failed"))

	if stamped.Headers["event-type"] != "booking.confirmed" {
		t.Errorf("event-type header = %q, want booking.confirmed", stamped.Headers["event-type"])
	}
	if stamped.Headers[HeaderOriginalTopic] != "stayindia.bookings" {
		t.Errorf("original-topic header = %q", stamped.Headers[HeaderOriginalTopic])
	}
}
