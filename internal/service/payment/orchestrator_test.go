package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aircompany/bookingflow/internal/domain"
	"github.com/aircompany/bookingflow/internal/kafka"
	"github.com/aircompany/bookingflow/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) SearchFlights(ctx context.Context, q remote.SearchQuery) ([]domain.FlightOffer, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightOffer), args.Error(1)
}

func (m *mockRemote) Locations(ctx context.Context) ([]domain.Location, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

func (m *mockRemote) ReachableDestinations(ctx context.Context, originCode string) ([]domain.Location, error) {
	args := m.Called(ctx, originCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

func (m *mockRemote) ReachableOrigins(ctx context.Context, destinationCode string) ([]domain.Location, error) {
	args := m.Called(ctx, destinationCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

func (m *mockRemote) RefreshOffer(ctx context.Context, flightID string) (*domain.FlightOffer, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightOffer), args.Error(1)
}

func (m *mockRemote) CreateReservation(ctx context.Context, req remote.ReservationRequest) (*remote.ReservationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*remote.ReservationResult), args.Error(1)
}

func (m *mockRemote) ChargePayment(ctx context.Context, req remote.ChargeRequest) (*remote.ChargeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*remote.ChargeResult), args.Error(1)
}

func (m *mockRemote) ListReservations(ctx context.Context, identityID string) ([]domain.BookingRecord, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingRecord), args.Error(1)
}

type mockRecords struct {
	mock.Mock
}

func (m *mockRecords) Append(ctx context.Context, rec *domain.BookingRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *mockRecords) ListByIdentity(ctx context.Context, identityID string) ([]domain.BookingRecord, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingRecord), args.Error(1)
}

func (m *mockRecords) GetByTicketNumber(ctx context.Context, ticketNumber string) (*domain.BookingRecord, error) {
	args := m.Called(ctx, ticketNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRecord), args.Error(1)
}

func (m *mockRecords) UpdateStatus(ctx context.Context, ticketNumber string, status domain.RecordStatus) (*domain.BookingRecord, error) {
	args := m.Called(ctx, ticketNumber, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRecord), args.Error(1)
}

func (m *mockRecords) MarkReconciled(ctx context.Context, ticketNumber string) (*domain.BookingRecord, error) {
	args := m.Called(ctx, ticketNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRecord), args.Error(1)
}

func (m *mockRecords) ListLocalSimulated(ctx context.Context) ([]domain.BookingRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingRecord), args.Error(1)
}

type mockLocks struct {
	mock.Mock
}

func (m *mockLocks) AcquireSubmissionLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, sessionID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockLocks) ReleaseSubmissionLock(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func submitFixture() SubmitInput {
	return SubmitInput{
		SessionID:  "sess-1",
		IdentityID: "user-7",
		Flight: domain.FlightOffer{
			FlightID:     "FL-100",
			FlightNumber: "JU310",
			Origin:       "BEG",
			Destination:  "CDG",
			BasePrice:    domain.Money(12700),
		},
		CabinClass: domain.CabinEconomy,
		Passenger: domain.PassengerRecord{
			FirstName: "Ana",
			LastName:  "Petrovic",
			Email:     "ana@example.com",
		},
		Seat: &domain.SeatSelection{SeatID: "3-B", Tier: domain.SeatTierPremium, PremiumSurcharge: domain.Money(1500)},
		Instrument: domain.PaymentInstrument{
			Method: domain.PaymentMethodCard,
			Card:   &domain.CardDetails{Number: "4111111111111111", Expiry: "12/30", CVC: "123", HolderName: "Ana Petrovic"},
		},
		Total: domain.Money(14200),
	}
}

func TestSubmitRemoteSuccess(t *testing.T) {
	rem := new(mockRemote)
	recs := new(mockRecords)
	prod := new(mockProducer)

	rem.On("CreateReservation", mock.Anything, mock.Anything).
		Return(&remote.ReservationResult{ReservationID: "r-1", ReservationNumber: "RES-1700000000000-AB12CD34"}, nil).Once()
	rem.On("ChargePayment", mock.Anything, mock.Anything).
		Return(&remote.ChargeResult{PaymentConfirmationID: "conf-99"}, nil).Once()
	recs.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
	prod.On("Publish", mock.Anything, "bookings", "TCK-1700000000000-AB12CD34", mock.Anything).Return(nil).Once()

	orch := NewOrchestrator(rem, recs, nil, prod, "bookings", time.Second, zap.NewNop())
	rec, err := orch.Submit(context.Background(), submitFixture())

	require.NoError(t, err)
	assert.Equal(t, "TCK-1700000000000-AB12CD34", rec.TicketNumber)
	assert.Equal(t, "RES-1700000000000-AB12CD34", rec.BookingReference)
	assert.Equal(t, "conf-99", rec.PaymentConfirmationID)
	assert.Equal(t, domain.OriginRemote, rec.Origin)
	assert.Equal(t, domain.RecordStatusConfirmed, rec.Status)
	assert.Equal(t, "142.00", rec.TotalPaid.String())

	rem.AssertExpectations(t)
	recs.AssertExpectations(t)
	prod.AssertExpectations(t)
}

func TestSubmitReservationPhaseUnavailable(t *testing.T) {
	rem := new(mockRemote)
	recs := new(mockRecords)
	prod := new(mockProducer)

	rem.On("CreateReservation", mock.Anything, mock.Anything).
		Return(nil, &remote.UnavailableError{Op: "createReservation", Err: errors.New("connection refused")}).Once()
	rem.On("ChargePayment", mock.Anything, mock.Anything).
		Return(&remote.ChargeResult{PaymentConfirmationID: "conf-1"}, nil).Once()
	recs.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
	prod.On("Publish", mock.Anything, "bookings", mock.Anything, mock.MatchedBy(func(v interface{}) bool {
		event, ok := v.(kafka.BookingEvent)
		return ok && event.Type == kafka.EventBookingLocalSimulated
	})).Return(nil).Once()

	orch := NewOrchestrator(rem, recs, nil, prod, "bookings", time.Second, zap.NewNop())
	rec, err := orch.Submit(context.Background(), submitFixture())

	require.NoError(t, err)
	assert.Equal(t, domain.OriginLocalSimulated, rec.Origin)
	assert.Equal(t, domain.RecordStatusConfirmed, rec.Status)
	assert.True(t, len(rec.TicketNumber) > 4 && rec.TicketNumber[:4] == "TCK-")
	assert.True(t, len(rec.BookingReference) > 4 && rec.BookingReference[:4] == "RES-")

	rem.AssertExpectations(t)
	recs.AssertExpectations(t)
	prod.AssertExpectations(t)
}

func TestSubmitChargePhaseUnavailable(t *testing.T) {
	rem := new(mockRemote)
	recs := new(mockRecords)

	rem.On("CreateReservation", mock.Anything, mock.Anything).
		Return(&remote.ReservationResult{ReservationID: "r-1", ReservationNumber: "RES-5-XYZ"}, nil).Once()
	rem.On("ChargePayment", mock.Anything, mock.Anything).
		Return(nil, &remote.UnavailableError{Op: "chargePayment", Err: errors.New("status 503")}).Once()
	recs.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

	orch := NewOrchestrator(rem, recs, nil, nil, "", time.Second, zap.NewNop())
	rec, err := orch.Submit(context.Background(), submitFixture())

	require.NoError(t, err)
	assert.Equal(t, domain.OriginLocalSimulated, rec.Origin)
	assert.Equal(t, "TCK-5-XYZ", rec.TicketNumber)
	assert.True(t, len(rec.PaymentConfirmationID) > 4 && rec.PaymentConfirmationID[:4] == "PAY-")

	rem.AssertExpectations(t)
	recs.AssertExpectations(t)
}

func TestSubmitDuplicateRejected(t *testing.T) {
	rem := new(mockRemote)
	recs := new(mockRecords)
	locks := new(mockLocks)

	locks.On("AcquireSubmissionLock", mock.Anything, "sess-1", time.Second).Return(false, nil).Once()

	orch := NewOrchestrator(rem, recs, locks, nil, "", time.Second, zap.NewNop())
	rec, err := orch.Submit(context.Background(), submitFixture())

	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	rem.AssertNotCalled(t, "CreateReservation", mock.Anything, mock.Anything)
	recs.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	locks.AssertExpectations(t)
}

func TestSubmitCompletesAfterCallerDisconnect(t *testing.T) {
	rem := new(mockRemote)
	recs := new(mockRecords)
	locks := new(mockLocks)

	// every downstream call must see a live context despite the canceled
	// request context
	liveCtx := mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	})
	locks.On("AcquireSubmissionLock", liveCtx, "sess-1", time.Second).Return(true, nil).Once()
	locks.On("ReleaseSubmissionLock", liveCtx, "sess-1").Return(nil).Once()
	rem.On("CreateReservation", liveCtx, mock.Anything).
		Return(&remote.ReservationResult{ReservationID: "r-1", ReservationNumber: "RES-9-DISC"}, nil).Once()
	rem.On("ChargePayment", liveCtx, mock.Anything).
		Return(&remote.ChargeResult{PaymentConfirmationID: "conf-9"}, nil).Once()
	recs.On("Append", liveCtx, mock.Anything).Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := NewOrchestrator(rem, recs, locks, nil, "", time.Second, zap.NewNop())
	rec, err := orch.Submit(ctx, submitFixture())

	require.NoError(t, err)
	assert.Equal(t, "TCK-9-DISC", rec.TicketNumber)
	assert.Equal(t, domain.RecordStatusConfirmed, rec.Status)

	rem.AssertExpectations(t)
	recs.AssertExpectations(t)
	locks.AssertExpectations(t)
}

func TestSubmitUnexpectedErrorSurfaces(t *testing.T) {
	rem := new(mockRemote)
	recs := new(mockRecords)

	boom := errors.New("double booking detected")
	rem.On("CreateReservation", mock.Anything, mock.Anything).Return(nil, boom).Once()

	orch := NewOrchestrator(rem, recs, nil, nil, "", time.Second, zap.NewNop())
	rec, err := orch.Submit(context.Background(), submitFixture())

	assert.Nil(t, rec)
	assert.ErrorIs(t, err, boom)
	recs.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	rem.AssertExpectations(t)
}
