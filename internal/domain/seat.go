package domain

type SeatTier string

const (
	SeatTierIncluded    SeatTier = "included"
	SeatTierPremium     SeatTier = "premium"
	SeatTierUnavailable SeatTier = "unavailable"
)

// SeatSelection is the at-most-one selected seat of a booking session.
// SeatID set implies Tier != unavailable.
type SeatSelection struct {
	SeatID           string   `json:"seat_id"`
	Tier             SeatTier `json:"tier"`
	PremiumSurcharge Money    `json:"premium_surcharge"`
}

// Surcharge is zero unless the seat is premium.
func (s SeatSelection) Surcharge() Money {
	if s.Tier == SeatTierPremium {
		return s.PremiumSurcharge
	}
	return 0
}
