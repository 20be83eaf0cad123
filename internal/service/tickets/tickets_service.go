package tickets

import (
	"context"

	"github.com/aircompany/bookingflow/internal/domain"
	"github.com/aircompany/bookingflow/internal/kafka"
	"github.com/aircompany/bookingflow/internal/remote"
	"github.com/aircompany/bookingflow/internal/repository"
	"go.uber.org/zap"
)

type TicketUseCase interface {
	List(ctx context.Context, identityID string) ([]domain.BookingRecord, error)
	Get(ctx context.Context, ticketNumber string) (*domain.BookingRecord, error)
	Cancel(ctx context.Context, ticketNumber string) (*domain.BookingRecord, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// TicketService merges the durable local record list with whatever the
// remote collaborator currently returns for the active identity.
type TicketService struct {
	records  repository.BookingRecordRepository
	remote   remote.Client
	producer Producer
	topic    string
	logger   *zap.Logger
}

func NewTicketService(records repository.BookingRecordRepository, remoteClient remote.Client, producer Producer, topic string, logger *zap.Logger) *TicketService {
	return &TicketService{
		records:  records,
		remote:   remoteClient,
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// List returns the merged ticket view. Remote unavailability degrades to the
// local list alone; it never fails the listing.
func (s *TicketService) List(ctx context.Context, identityID string) ([]domain.BookingRecord, error) {
	local, err := s.records.ListByIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}

	remoteRecords, err := s.remote.ListReservations(ctx, identityID)
	if err != nil {
		s.logger.Warn("remote reservation list unavailable, serving local records",
			zap.String("identity", identityID), zap.Error(err))
		remoteRecords = nil
	}

	return Merge(local, remoteRecords), nil
}

func (s *TicketService) Get(ctx context.Context, ticketNumber string) (*domain.BookingRecord, error) {
	return s.records.GetByTicketNumber(ctx, ticketNumber)
}

func (s *TicketService) Cancel(ctx context.Context, ticketNumber string) (*domain.BookingRecord, error) {
	current, err := s.records.GetByTicketNumber(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.RecordStatusCancelled {
		return current, nil
	}

	updated, err := s.records.UpdateStatus(ctx, ticketNumber, domain.RecordStatusCancelled)
	if err != nil {
		return nil, err
	}
	if s.producer != nil && s.topic != "" {
		event := kafka.NewBookingEvent(kafka.EventBookingCancelled, *updated)
		if err := s.producer.Publish(ctx, s.topic, updated.TicketNumber, event); err != nil {
			s.logger.Warn("failed to publish cancellation event",
				zap.String("ticket", updated.TicketNumber), zap.Error(err))
		}
	}
	return updated, nil
}

var _ TicketUseCase = (*TicketService)(nil)
