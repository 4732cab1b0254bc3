package kafka

import (
	"context"
	"time"

	"reservo/pkg/logger"
)

// Event types emitted by the bookings service
const (
	EventBookingCreated     = "booking.created"
	EventBookingRescheduled = "booking.rescheduled"
	EventBookingCancelled   = "booking.cancelled"
	EventBookingStatusSet   = "booking.status_changed"

	EventSchemaVersion = "1.0"
)

// Topics used by the bookings service
const (
	TopicBookingEvents    = "reservo.booking.events"
	TopicBookingEventsDLQ = "reservo.booking.events.dlq"
)

// BookingEvent is the payload published for every booking lifecycle change.
// Keyed by workspace ID so events for a workspace stay ordered.
type BookingEvent struct {
	BookingID       string    `json:"booking_id"`
	WorkspaceID     string    `json:"workspace_id"`
	ContactID       string    `json:"contact_id"`
	ServiceTypeID   string    `json:"service_type_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// EventPublisher publishes booking lifecycle events. Implementations must not
// block the request path on broker failures.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, eventType string, event BookingEvent)
	Close() error
}

// Publisher publishes booking events through a Kafka producer. Publish
// failures are logged and swallowed so a broker outage never fails a booking.
type Publisher struct {
	producer *Producer
	log      *logger.Logger
	source   string
}

// NewPublisher creates an event publisher backed by the given producer.
func NewPublisher(producer *Producer, log *logger.Logger, source string) *Publisher {
	return &Publisher{
		producer: producer,
		log:      log,
		source:   source,
	}
}

// PublishBookingEvent publishes a booking lifecycle event.
func (p *Publisher) PublishBookingEvent(ctx context.Context, eventType string, event BookingEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	msg := NewMessage().
		WithKey(event.WorkspaceID).
		WithValue(event).
		WithEventType(eventType).
		WithSchemaVersion(EventSchemaVersion).
		WithSource(p.source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("failed to publish booking event",
			"event_type", eventType,
			"booking_id", event.BookingID,
			"workspace_id", event.WorkspaceID,
			"error", err)
		return
	}

	p.log.Debug("published booking event",
		"event_type", eventType,
		"event_id", msg.GetEventID(),
		"booking_id", event.BookingID)
}

// Close closes the underlying producer.
func (p *Publisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher discards events. Used when Kafka is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishBookingEvent(ctx context.Context, eventType string, event BookingEvent) {
}

func (NoopPublisher) Close() error { return nil }
