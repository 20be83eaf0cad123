package tickets

import (
	"context"
	"errors"
	"testing"

	"github.com/aircompany/bookingflow/internal/domain"
	"github.com/aircompany/bookingflow/internal/kafka"
	"github.com/aircompany/bookingflow/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSweepReconcilesReachableRecords(t *testing.T) {
	recs := new(mockRecords)
	rem := new(mockRemote)
	prod := new(mockProducer)

	pending := rec("TCK-A", domain.RecordStatusConfirmed, domain.OriginLocalSimulated)
	recs.On("ListLocalSimulated", mock.Anything).Return([]domain.BookingRecord{pending}, nil).Once()
	rem.On("CreateReservation", mock.Anything, mock.Anything).
		Return(&remote.ReservationResult{ReservationID: "r-1", ReservationNumber: "RES-1"}, nil).Once()

	flipped := pending
	flipped.Origin = domain.OriginRemote
	recs.On("MarkReconciled", mock.Anything, "TCK-A").Return(&flipped, nil).Once()
	prod.On("Publish", mock.Anything, "bookings", "TCK-A", mock.MatchedBy(func(v interface{}) bool {
		event, ok := v.(kafka.BookingEvent)
		return ok && event.Type == kafka.EventBookingReconciled
	})).Return(nil).Once()

	r := NewReconciler(recs, rem, prod, "bookings", zap.NewNop())
	n, err := r.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	recs.AssertExpectations(t)
	rem.AssertExpectations(t)
	prod.AssertExpectations(t)
}

func TestSweepSkipsStillUnreachable(t *testing.T) {
	recs := new(mockRecords)
	rem := new(mockRemote)

	pending := rec("TCK-A", domain.RecordStatusConfirmed, domain.OriginLocalSimulated)
	recs.On("ListLocalSimulated", mock.Anything).Return([]domain.BookingRecord{pending}, nil).Once()
	rem.On("CreateReservation", mock.Anything, mock.Anything).
		Return(nil, &remote.UnavailableError{Op: "createReservation", Err: errors.New("connection refused")}).Once()

	r := NewReconciler(recs, rem, nil, "", zap.NewNop())
	n, err := r.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, n)
	recs.AssertNotCalled(t, "MarkReconciled", mock.Anything, mock.Anything)
}

func TestSweepEmptyBacklog(t *testing.T) {
	recs := new(mockRecords)
	rem := new(mockRemote)

	recs.On("ListLocalSimulated", mock.Anything).Return([]domain.BookingRecord{}, nil).Once()

	r := NewReconciler(recs, rem, nil, "", zap.NewNop())
	n, err := r.Sweep(context.Background())

	require.NoError(t, err)
	assert.Zero(t, n)
}
