package email

import (
	"context"

	"github.com/aircompany/bookingflow/internal/kafka"
	"go.uber.org/zap"
)

// Sender delivers booking confirmations. The transport is a stub that logs
// the outgoing message; wiring a real provider is deployment configuration.
type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.logger.Info("sending booking notification",
		zap.String("to", event.Email),
		zap.String("type", event.Type),
		zap.String("ticket", event.TicketNumber),
		zap.String("route", event.Route))
	return nil
}
