package service

import (
	"context"

	"stayindia/pkg/kafka"
	"stayindia/pkg/model"
)

// BookingNotifier publishes post-admission events. Implementations must not
// be relied on for correctness of the admission itself.
type BookingNotifier interface {
	BookingConfirmed(ctx context.Context, event *model.BookingConfirmedEvent) error
}

type kafkaBookingNotifier struct {
	producer *kafka.Producer
}

func NewKafkaBookingNotifier(producer *kafka.Producer) BookingNotifier {
	return &kafkaBookingNotifier{producer: producer}
}

func (n *kafkaBookingNotifier) BookingConfirmed(ctx context.Context, event *model.BookingConfirmedEvent) error {
	msg := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(model.EventTypeBookingConfirmed).
		WithSource("bookings").
		Build()

	return n.producer.Publish(ctx, msg)
}
