package tickets

import (
	"context"

	"github.com/aircompany/bookingflow/internal/kafka"
	"github.com/aircompany/bookingflow/internal/remote"
	"github.com/aircompany/bookingflow/internal/repository"
	"go.uber.org/zap"
)

// Reconciler re-submits locally simulated records to the remote collaborator
// once it is reachable again. A reconciled record keeps its ticket number and
// flips origin to remote.
type Reconciler struct {
	records  repository.BookingRecordRepository
	remote   remote.Client
	producer Producer
	topic    string
	logger   *zap.Logger
}

func NewReconciler(records repository.BookingRecordRepository, remoteClient remote.Client, producer Producer, topic string, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		records:  records,
		remote:   remoteClient,
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Sweep walks the pending local_simulated records and returns how many were
// reconciled. Records the collaborator still cannot take stay pending for
// the next sweep.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	pending, err := r.records.ListLocalSimulated(ctx)
	if err != nil {
		return 0, err
	}

	reconciled := 0
	for _, rec := range pending {
		_, err := r.remote.CreateReservation(ctx, remote.ReservationRequest{
			FlightID:   rec.Flight.FlightID,
			IdentityID: rec.IdentityID,
			CabinClass: rec.CabinClass,
			Passenger:  rec.Passenger,
			Seat:       rec.Seat,
		})
		if err != nil {
			r.logger.Warn("record not yet reconcilable",
				zap.String("ticket", rec.TicketNumber), zap.Error(err))
			continue
		}

		updated, err := r.records.MarkReconciled(ctx, rec.TicketNumber)
		if err != nil {
			r.logger.Error("failed to mark record reconciled",
				zap.String("ticket", rec.TicketNumber), zap.Error(err))
			continue
		}
		reconciled++

		if r.producer != nil && r.topic != "" {
			event := kafka.NewBookingEvent(kafka.EventBookingReconciled, *updated)
			if err := r.producer.Publish(ctx, r.topic, updated.TicketNumber, event); err != nil {
				r.logger.Warn("failed to publish reconciliation event",
					zap.String("ticket", updated.TicketNumber), zap.Error(err))
			}
		}
	}
	return reconciled, nil
}
