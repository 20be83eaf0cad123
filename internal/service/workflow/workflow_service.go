// Package workflow is the stage machine driving one booking attempt from
// flight selection through confirmation. All stage transitions and session
// mutations go through the Controller; nothing else touches a session.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aircompany/bookingflow/internal/domain"
	"github.com/aircompany/bookingflow/internal/pricing"
	"github.com/aircompany/bookingflow/internal/service/payment"
	"github.com/aircompany/bookingflow/internal/validate"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSeatUnknown     = errors.New("no such seat on this aircraft")
	ErrSeatUnavailable = errors.New("seat is unavailable")
	ErrDetailsLocked   = errors.New("passenger and seat can only be changed on the details step")
	ErrNotAtPayment    = errors.New("session is not at the payment step")
	ErrOfferExpired    = errors.New("the price offer has expired, refresh it before submitting")
)

// GuardViolation reports a blocked forward transition. Reasons enumerate
// every failed item so the caller can show one actionable message. The
// session is left untouched.
type GuardViolation struct {
	From    domain.WorkflowStage
	To      domain.WorkflowStage
	Reasons []string
}

func (e *GuardViolation) Error() string {
	return fmt.Sprintf("cannot advance from %s to %s: %s", e.From, e.To, strings.Join(e.Reasons, "; "))
}

type WorkflowUseCase interface {
	StartSession(ctx context.Context, in StartSessionInput) (*domain.BookingSession, error)
	GetSession(ctx context.Context, id string) (*domain.BookingSession, error)
	Advance(ctx context.Context, id string) (*domain.BookingSession, error)
	Back(ctx context.Context, id string) (*domain.BookingSession, error)
	UpdatePassenger(ctx context.Context, id string, fields map[validate.Field]string) (*domain.BookingSession, []validate.Error, error)
	SelectSeat(ctx context.Context, id, seatID string) (*domain.BookingSession, error)
	ClearSeat(ctx context.Context, id string) (*domain.BookingSession, error)
	ChangeCabin(ctx context.Context, id string, cabin domain.CabinClass) (*domain.BookingSession, error)
	RefreshOffer(ctx context.Context, id string) (*domain.BookingSession, error)
	SubmitPayment(ctx context.Context, id string, instrument domain.PaymentInstrument) (*domain.BookingSession, *domain.BookingRecord, error)
}

// Submitter runs the two-phase payment operation.
type Submitter interface {
	Submit(ctx context.Context, in payment.SubmitInput) (*domain.BookingRecord, error)
}

// OfferRefresher replaces an expired flight offer with a fresh quote.
type OfferRefresher interface {
	RefreshOffer(ctx context.Context, flightID string) (*domain.FlightOffer, error)
}

type Controller struct {
	sessions  *SessionManager
	submitter Submitter
	offers    OfferRefresher
	policy    validate.Policy
	surcharge domain.Money
	logger    *zap.Logger
	now       func() time.Time
}

type ControllerOption func(*Controller)

// WithClock overrides the time source.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.now = now
	}
}

func NewController(
	sessions *SessionManager,
	submitter Submitter,
	offers OfferRefresher,
	policy validate.Policy,
	premiumSurcharge domain.Money,
	logger *zap.Logger,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		sessions:  sessions,
		submitter: submitter,
		offers:    offers,
		policy:    policy,
		surcharge: premiumSurcharge,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type StartSessionInput struct {
	IdentityID string             `json:"identity_id"`
	Flight     domain.FlightOffer `json:"flight"`
	Cabin      domain.CabinClass  `json:"cabin"`
}

// StartSession creates a session around a chosen flight. Choosing the flight
// is itself the guard out of the search stage, so a new session starts at
// selection.
func (c *Controller) StartSession(ctx context.Context, in StartSessionInput) (*domain.BookingSession, error) {
	if in.Flight.FlightID == "" {
		return nil, &GuardViolation{
			From:    domain.StageSearch,
			To:      domain.StageSelection,
			Reasons: []string{"no flight selected"},
		}
	}
	cabin := in.Cabin
	if cabin == "" {
		cabin = domain.CabinEconomy
	}

	s := domain.BookingSession{
		ID:            uuid.NewString(),
		IdentityID:    in.IdentityID,
		Flight:        in.Flight,
		SelectedCabin: cabin,
		ComputedTotal: pricing.Total(in.Flight, cabin, nil),
		Stage:         domain.StageSelection,
		CreatedAt:     c.now(),
	}
	c.sessions.put(s)
	c.logger.Info("booking session started",
		zap.String("session", s.ID),
		zap.String("flight", s.Flight.FlightID),
		zap.String("route", s.Flight.Route()))
	return &s, nil
}

func (c *Controller) GetSession(ctx context.Context, id string) (*domain.BookingSession, error) {
	slot, err := c.sessions.slot(id)
	if err != nil {
		return nil, err
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	s := slot.session
	return &s, nil
}

// Advance moves the session one stage forward when the stage's guard holds.
// The payment stage never advances here: confirmation happens only through
// SubmitPayment.
func (c *Controller) Advance(ctx context.Context, id string) (*domain.BookingSession, error) {
	slot, err := c.sessions.slot(id)
	if err != nil {
		return nil, err
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()

	next, ok := slot.session.Stage.Next()
	if !ok {
		return nil, &GuardViolation{
			From:    slot.session.Stage,
			To:      slot.session.Stage,
			Reasons: []string{"booking is already confirmed"},
		}
	}
	if reasons := c.guardReasons(&slot.session, next); len(reasons) > 0 {
		return nil, &GuardViolation{From: slot.session.Stage, To: next, Reasons: reasons}
	}

	slot.session.Stage = next
	s := slot.session
	return &s, nil
}

// Back moves one stage backward. Entered data is kept so a later forward
// pass restores prior values instead of resetting them.
func (c *Controller) Back(ctx context.Context, id string) (*domain.BookingSession, error) {
	slot, err := c.sessions.slot(id)
	if err != nil {
		return nil, err
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()

	prev, ok := slot.session.Stage.Prev()
	if !ok {
		return nil, fmt.Errorf("cannot navigate back from the %s stage", slot.session.Stage)
	}
	slot.session.Stage = prev
	s := slot.session
	return &s, nil
}

func (c *Controller) guardReasons(s *domain.BookingSession, to domain.WorkflowStage) []string {
	switch to {
	case domain.StageSelection:
		if s.Flight.FlightID == "" {
			return []string{"no flight selected"}
		}
	case domain.StagePayment:
		var reasons []string
		p := domain.PassengerRecord{}
		if s.Passenger != nil {
			p = *s.Passenger
		}
		for _, e := range validate.Passenger(p, c.now(), c.policy) {
			reasons = append(reasons, e.Error())
		}
		if s.Seat == nil {
			reasons = append(reasons, "no seat selected")
		}
		return reasons
	case domain.StageConfirmed:
		return []string{"payment must be submitted to confirm the booking"}
	}
	return nil
}

// UpdatePassenger applies incremental field edits on the details step. Only
// the touched fields are validated; the returned report covers exactly those
// fields so untouched inputs keep formatting live without error noise.
func (c *Controller) UpdatePassenger(ctx context.Context, id string, fields map[validate.Field]string) (*domain.BookingSession, []validate.Error, error) {
	slot, err := c.sessions.slot(id)
	if err != nil {
		return nil, nil, err
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()

	if slot.session.Stage != domain.StageDetails {
		return nil, nil, ErrDetailsLocked
	}
	if slot.session.Passenger == nil {
		slot.session.Passenger = &domain.PassengerRecord{}
	}

	var report []validate.Error
	for _, f := range validate.PassengerFields {
		raw, touched := fields[f]
		if !touched {
			continue
		}
		formatted := validate.Format(f, raw)
		c.setPassengerField(slot.session.Passenger, f, formatted)
		if e := validate.Check(f, formatted, c.now(), c.policy); e != nil {
			report = append(report, *e)
		}
	}

	s := slot.session
	return &s, report, nil
}

func (c *Controller) setPassengerField(p *domain.PassengerRecord, f validate.Field, value string) {
	switch f {
	case validate.FieldFirstName:
		p.FirstName = value
	case validate.FieldLastName:
		p.LastName = value
	case validate.FieldDateOfBirth:
		p.DateOfBirth = value
	case validate.FieldDocumentNumber:
		p.DocumentNumber = value
	case validate.FieldPhone:
		p.Phone = value
	case validate.FieldEmail:
		p.Email = value
	}
}

// SelectSeat picks a seat from the cabin chart and reprices the session.
func (c *Controller) SelectSeat(ctx context.Context, id, seatID string) (*domain.BookingSession, error) {
	slot, err := c.sessions.slot(id)
	if err != nil {
		return nil, err
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()

	if slot.session.Stage != domain.StageDetails {
		return nil, ErrDetailsLocked
	}
	tier, ok := SeatTierFor(seatID)
	if !ok {
		return nil, ErrSeatUnknown
	}
	if tier == domain.SeatTierUnavailable {
		return nil, ErrSeatUnavailable
	}

	seat := &domain.SeatSelection{SeatID: seatID, Tier: tier}
	if tier == domain.SeatTierPremium {
		seat.PremiumSurcharge = c.surcharge
	}
	slot.session.Seat = seat
	c.reprice(&slot.session)
	s := slot.session
	return &s, nil
}

func (c *Controller) ClearSeat(ctx context.Context, id string) (*domain.BookingSession, error) {
	slot, err := c.sessions.slot(id)
	if err != nil {
		return nil, err
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()

	if slot.session.Stage != domain.StageDetails {
		return nil, ErrDetailsLocked
	}
	slot.session.Seat = nil
	c.reprice(&slot.session)
	s := slot.session
	return &s, nil
}

func (c *Controller) ChangeCabin(ctx context.Context, id string, cabin domain.CabinClass) (*domain.BookingSession, error) {
	slot, err := c.sessions.slot(id)
	if err != nil {
		return nil, err
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()

	switch slot.session.Stage {
	case domain.StageSelection, domain.StageDetails:
	default:
		return nil, ErrDetailsLocked
	}
	slot.session.SelectedCabin = cabin
	c.reprice(&slot.session)
	s := slot.session
	return &s, nil
}

// RefreshOffer replaces the held flight offer wholesale with a fresh quote
// and reprices. Used when a promotional price expires mid-flow.
func (c *Controller) RefreshOffer(ctx context.Context, id string) (*domain.BookingSession, error) {
	slot, err := c.sessions.slot(id)
	if err != nil {
		return nil, err
	}

	slot.mu.Lock()
	if slot.session.Stage == domain.StageConfirmed {
		slot.mu.Unlock()
		return nil, fmt.Errorf("booking is already confirmed")
	}
	flightID := slot.session.Flight.FlightID
	slot.mu.Unlock()

	fresh, err := c.offers.RefreshOffer(ctx, flightID)
	if err != nil {
		return nil, err
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()
	slot.session.Flight = *fresh
	c.reprice(&slot.session)
	c.logger.Info("offer refreshed",
		zap.String("session", id),
		zap.String("flight", flightID),
		zap.String("total", slot.session.ComputedTotal.String()))
	s := slot.session
	return &s, nil
}

func (c *Controller) reprice(s *domain.BookingSession) {
	s.ComputedTotal = pricing.Total(s.Flight, s.SelectedCabin, s.Seat)
}

// SubmitPayment validates the instrument and runs the two-phase payment
// operation. The session lock is released for the duration of the remote
// call: the user may navigate backward meanwhile, and the attempt's result
// is still recorded. A second submission while one is in flight is rejected.
func (c *Controller) SubmitPayment(ctx context.Context, id string, instrument domain.PaymentInstrument) (*domain.BookingSession, *domain.BookingRecord, error) {
	slot, err := c.sessions.slot(id)
	if err != nil {
		return nil, nil, err
	}

	slot.mu.Lock()
	if slot.session.Stage != domain.StagePayment {
		slot.mu.Unlock()
		return nil, nil, ErrNotAtPayment
	}
	if errs := validate.Instrument(instrument, c.now()); len(errs) > 0 {
		slot.mu.Unlock()
		reasons := make([]string, 0, len(errs))
		for _, e := range errs {
			reasons = append(reasons, e.Error())
		}
		return nil, nil, &GuardViolation{From: domain.StagePayment, To: domain.StageConfirmed, Reasons: reasons}
	}
	if slot.session.Flight.Expired(c.now()) {
		slot.mu.Unlock()
		return nil, nil, ErrOfferExpired
	}
	if slot.submitting {
		slot.mu.Unlock()
		return nil, nil, payment.ErrSubmissionInFlight
	}
	slot.submitting = true
	slot.session.Payment = &instrument

	in := payment.SubmitInput{
		SessionID:  slot.session.ID,
		IdentityID: slot.session.IdentityID,
		Flight:     slot.session.Flight,
		CabinClass: slot.session.SelectedCabin,
		Passenger:  *slot.session.Passenger,
		Seat:       slot.session.Seat,
		Instrument: instrument,
		Total:      slot.session.ComputedTotal,
	}
	slot.mu.Unlock()

	rec, err := c.submitter.Submit(ctx, in)

	slot.mu.Lock()
	defer slot.mu.Unlock()
	slot.submitting = false
	if err != nil {
		return nil, nil, err
	}
	// Only flip the stage if the user is still on the payment step; a
	// backward navigation mid-submission keeps the recorded outcome without
	// yanking the session forward underneath them. A confirmed session has
	// reached its terminal outcome and is dropped; the BookingRecord is the
	// durable artifact from here on.
	if slot.session.Stage == domain.StagePayment {
		slot.session.Stage = domain.StageConfirmed
		c.sessions.Delete(id)
		c.logger.Info("booking session confirmed",
			zap.String("session", id),
			zap.String("ticket", rec.TicketNumber))
	}
	s := slot.session
	return &s, rec, nil
}

var _ WorkflowUseCase = (*Controller)(nil)
