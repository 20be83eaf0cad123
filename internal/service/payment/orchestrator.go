// Package payment executes the two-phase reserve-then-charge operation
// against the remote collaborator, degrading to a locally simulated outcome
// when the collaborator is unreachable.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aircompany/bookingflow/internal/domain"
	"github.com/aircompany/bookingflow/internal/kafka"
	"github.com/aircompany/bookingflow/internal/remote"
	"github.com/aircompany/bookingflow/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSubmissionInFlight rejects a duplicate submission while a reserve/charge
// pair is still processing. No second record is ever created.
var ErrSubmissionInFlight = errors.New("a payment attempt for this booking is already processing")

type Locker interface {
	AcquireSubmissionLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	ReleaseSubmissionLock(ctx context.Context, sessionID string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Orchestrator struct {
	remote   remote.Client
	records  repository.BookingRecordRepository
	locks    Locker
	producer Producer
	topic    string
	lockTTL  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

type OrchestratorOption func(*Orchestrator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func NewOrchestrator(
	remoteClient remote.Client,
	records repository.BookingRecordRepository,
	locks Locker,
	producer Producer,
	topic string,
	lockTTL time.Duration,
	logger *zap.Logger,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		remote:   remoteClient,
		records:  records,
		locks:    locks,
		producer: producer,
		topic:    topic,
		lockTTL:  lockTTL,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SubmitInput is the snapshot of a booking session at submission time.
type SubmitInput struct {
	SessionID  string
	IdentityID string
	Flight     domain.FlightOffer
	CabinClass domain.CabinClass
	Passenger  domain.PassengerRecord
	Seat       *domain.SeatSelection
	Instrument domain.PaymentInstrument
	Total      domain.Money
}

// Submit runs reserve then charge. Remote unavailability on either phase is
// absorbed by synthesizing a local identifier and continuing; the resulting
// record is tagged local_simulated so reconciliation can find it later. The
// caller is never blocked by the collaborator being down. Exactly one
// BookingRecord is written per successful submission.
func (o *Orchestrator) Submit(ctx context.Context, in SubmitInput) (*domain.BookingRecord, error) {
	// The attempt's outcome is recorded even when the caller disconnects
	// mid-submission, so the whole pipeline runs detached from the request
	// context's cancellation.
	ctx = context.WithoutCancel(ctx)

	if o.locks != nil {
		ok, err := o.locks.AcquireSubmissionLock(ctx, in.SessionID, o.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire submission lock: %w", err)
		}
		if !ok {
			return nil, ErrSubmissionInFlight
		}
		defer func() {
			_ = o.locks.ReleaseSubmissionLock(ctx, in.SessionID)
		}()
	}

	origin := domain.OriginRemote

	reservation, err := o.remote.CreateReservation(ctx, remote.ReservationRequest{
		FlightID:   in.Flight.FlightID,
		IdentityID: in.IdentityID,
		CabinClass: in.CabinClass,
		Passenger:  in.Passenger,
		Seat:       in.Seat,
	})
	if err != nil {
		var unavailable *remote.UnavailableError
		if !errors.As(err, &unavailable) {
			return nil, err
		}
		reservation = o.simulateReservation()
		origin = domain.OriginLocalSimulated
		o.logger.Warn("reservation phase unavailable, simulating locally",
			zap.String("session", in.SessionID),
			zap.String("reservation", reservation.ReservationNumber))
	}

	charge, err := o.remote.ChargePayment(ctx, remote.ChargeRequest{
		ReservationID: reservation.ReservationID,
		Amount:        in.Total,
		Method:        in.Instrument.Method,
		Card:          in.Instrument.Card,
		PointsToApply: in.Instrument.PointsToApply,
	})
	if err != nil {
		var unavailable *remote.UnavailableError
		if !errors.As(err, &unavailable) {
			return nil, err
		}
		charge = o.simulateCharge()
		origin = domain.OriginLocalSimulated
		o.logger.Warn("charge phase unavailable, simulating locally",
			zap.String("session", in.SessionID),
			zap.String("confirmation", charge.PaymentConfirmationID))
	}

	record := &domain.BookingRecord{
		TicketNumber:          ticketNumberFor(reservation.ReservationNumber),
		BookingReference:      reservation.ReservationNumber,
		PaymentConfirmationID: charge.PaymentConfirmationID,
		IdentityID:            in.IdentityID,
		Flight:                in.Flight,
		Passenger:             in.Passenger,
		Seat:                  in.Seat,
		CabinClass:            in.CabinClass,
		TotalPaid:             in.Total,
		PaymentMethod:         in.Instrument.Method,
		Status:                domain.RecordStatusConfirmed,
		Origin:                origin,
		CreatedAt:             o.now(),
	}

	// The record is written even on a genuinely remote success so it stays
	// listable offline.
	if err := o.records.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("persist booking record: %w", err)
	}

	o.publish(ctx, record)
	return record, nil
}

func (o *Orchestrator) publish(ctx context.Context, rec *domain.BookingRecord) {
	if o.producer == nil || o.topic == "" {
		return
	}
	eventType := kafka.EventBookingConfirmed
	if rec.Origin == domain.OriginLocalSimulated {
		eventType = kafka.EventBookingLocalSimulated
	}
	event := kafka.NewBookingEvent(eventType, *rec)
	if err := o.producer.Publish(ctx, o.topic, rec.TicketNumber, event); err != nil {
		o.logger.Warn("failed to publish booking event",
			zap.String("ticket", rec.TicketNumber), zap.Error(err))
	}
}

func (o *Orchestrator) simulateReservation() *remote.ReservationResult {
	return &remote.ReservationResult{
		ReservationID:     uuid.NewString(),
		ReservationNumber: o.generateNumber("RES"),
	}
}

func (o *Orchestrator) simulateCharge() *remote.ChargeResult {
	return &remote.ChargeResult{
		PaymentConfirmationID: o.generateNumber("PAY"),
	}
}

func (o *Orchestrator) generateNumber(prefix string) string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%d-%s", prefix, o.now().UnixMilli(), fragment)
}

// ticketNumberFor derives the ticket identifier from the reservation number
// so the locally written record and the remote collaborator's copy key the
// same ticket in the store merge.
func ticketNumberFor(reservationNumber string) string {
	if rest, ok := strings.CutPrefix(reservationNumber, "RES-"); ok {
		return "TCK-" + rest
	}
	return "TCK-" + reservationNumber
}
