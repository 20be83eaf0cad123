package domain

import "time"

type RecordStatus string

const (
	RecordStatusCreated   RecordStatus = "Created"
	RecordStatusConfirmed RecordStatus = "Confirmed"
	RecordStatusCancelled RecordStatus = "Cancelled"
	RecordStatusUsed      RecordStatus = "Used"
)

type RecordOrigin string

const (
	// OriginRemote marks records confirmed by the remote collaborator.
	OriginRemote RecordOrigin = "remote"
	// OriginLocalSimulated marks records synthesized while the remote
	// collaborator was unreachable. They are kept inspectable for later
	// reconciliation, never hidden.
	OriginLocalSimulated RecordOrigin = "local_simulated"
)

// BookingRecord is the persisted outcome of one successful payment attempt.
// It is immutable except for status changes and reconciliation of origin.
type BookingRecord struct {
	TicketNumber          string          `json:"ticket_number"`
	BookingReference      string          `json:"booking_reference"`
	PaymentConfirmationID string          `json:"payment_confirmation_id"`
	IdentityID            string          `json:"identity_id"`
	Flight                FlightOffer     `json:"flight"`
	Passenger             PassengerRecord `json:"passenger"`
	Seat                  *SeatSelection  `json:"seat,omitempty"`
	CabinClass            CabinClass      `json:"cabin_class"`
	TotalPaid             Money           `json:"total_paid"`
	PaymentMethod         PaymentMethod   `json:"payment_method"`
	Status                RecordStatus    `json:"status"`
	Origin                RecordOrigin    `json:"origin"`
	CreatedAt             time.Time       `json:"created_at"`
}
