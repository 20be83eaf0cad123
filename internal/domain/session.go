package domain

import "time"

type WorkflowStage string

const (
	StageSearch    WorkflowStage = "search"
	StageSelection WorkflowStage = "selection"
	StageDetails   WorkflowStage = "details"
	StagePayment   WorkflowStage = "payment"
	StageConfirmed WorkflowStage = "confirmed"
)

// Next returns the forward neighbour of a stage. Confirmed is terminal.
func (s WorkflowStage) Next() (WorkflowStage, bool) {
	switch s {
	case StageSearch:
		return StageSelection, true
	case StageSelection:
		return StageDetails, true
	case StageDetails:
		return StagePayment, true
	case StagePayment:
		return StageConfirmed, true
	default:
		return s, false
	}
}

// Prev returns the backward neighbour of a stage.
func (s WorkflowStage) Prev() (WorkflowStage, bool) {
	switch s {
	case StageSelection:
		return StageSearch, true
	case StageDetails:
		return StageSelection, true
	case StagePayment:
		return StageDetails, true
	default:
		return s, false
	}
}

// BookingSession is the aggregate threaded through the wizard. It is owned
// by the workflow for the lifetime of one booking attempt.
type BookingSession struct {
	ID            string             `json:"id"`
	IdentityID    string             `json:"identity_id"`
	Flight        FlightOffer        `json:"flight"`
	SelectedCabin CabinClass         `json:"selected_cabin"`
	Passenger     *PassengerRecord   `json:"passenger,omitempty"`
	Seat          *SeatSelection     `json:"seat,omitempty"`
	Payment       *PaymentInstrument `json:"payment,omitempty"`
	ComputedTotal Money              `json:"computed_total"`
	Stage         WorkflowStage      `json:"stage"`
	CreatedAt     time.Time          `json:"created_at"`
}
