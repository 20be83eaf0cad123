package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aircompany/bookingflow/internal/domain"
	"github.com/segmentio/kafka-go"
)

// BookingEvent is the record published for every booking state change.
type BookingEvent struct {
	Type         string              `json:"type"`
	TicketNumber string              `json:"ticket_number"`
	Reference    string              `json:"reference"`
	IdentityID   string              `json:"identity_id"`
	FlightNumber string              `json:"flight_number"`
	Route        string              `json:"route"`
	Email        string              `json:"email"`
	TotalPaid    domain.Money        `json:"total_paid"`
	Status       domain.RecordStatus `json:"status"`
	Origin       domain.RecordOrigin `json:"origin"`
	OccurredAt   time.Time           `json:"occurred_at"`
}

const (
	EventBookingConfirmed      = "booking_confirmed"
	EventBookingLocalSimulated = "booking_local_simulated"
	EventBookingCancelled      = "booking_cancelled"
	EventBookingReconciled     = "booking_reconciled"
)

// NewBookingEvent builds the event payload for a record state change.
func NewBookingEvent(eventType string, rec domain.BookingRecord) BookingEvent {
	return BookingEvent{
		Type:         eventType,
		TicketNumber: rec.TicketNumber,
		Reference:    rec.BookingReference,
		IdentityID:   rec.IdentityID,
		FlightNumber: rec.Flight.FlightNumber,
		Route:        rec.Flight.Route(),
		Email:        rec.Passenger.Email,
		TotalPaid:    rec.TotalPaid,
		Status:       rec.Status,
		Origin:       rec.Origin,
		OccurredAt:   time.Now(),
	}
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
