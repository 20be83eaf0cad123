package workflow

import "github.com/aircompany/bookingflow/internal/domain"

// cabinLayout is the static seat chart for the single aircraft type served
// by the booking flow: six rows A-F in the main cabin plus a rear section
// R1-R6 with columns A-C. Seats missing from the chart do not exist.
var cabinLayout = map[string]domain.SeatTier{
	"1-A": domain.SeatTierIncluded, "1-B": domain.SeatTierIncluded, "1-C": domain.SeatTierPremium,
	"1-D": domain.SeatTierIncluded, "1-E": domain.SeatTierUnavailable, "1-F": domain.SeatTierIncluded,
	"2-A": domain.SeatTierIncluded, "2-B": domain.SeatTierIncluded, "2-C": domain.SeatTierIncluded,
	"2-D": domain.SeatTierPremium, "2-E": domain.SeatTierPremium, "2-F": domain.SeatTierIncluded,
	"3-A": domain.SeatTierIncluded, "3-B": domain.SeatTierPremium, "3-C": domain.SeatTierIncluded,
	"3-D": domain.SeatTierIncluded, "3-E": domain.SeatTierIncluded, "3-F": domain.SeatTierIncluded,
	"4-A": domain.SeatTierIncluded, "4-B": domain.SeatTierIncluded, "4-C": domain.SeatTierIncluded,
	"4-D": domain.SeatTierIncluded, "4-E": domain.SeatTierPremium, "4-F": domain.SeatTierIncluded,
	"5-A": domain.SeatTierIncluded, "5-B": domain.SeatTierIncluded, "5-C": domain.SeatTierIncluded,
	"5-D": domain.SeatTierIncluded, "5-E": domain.SeatTierIncluded, "5-F": domain.SeatTierUnavailable,
	"6-A": domain.SeatTierIncluded, "6-B": domain.SeatTierPremium, "6-C": domain.SeatTierIncluded,
	"6-D": domain.SeatTierIncluded, "6-E": domain.SeatTierIncluded, "6-F": domain.SeatTierIncluded,
	"R1-A": domain.SeatTierPremium, "R1-B": domain.SeatTierIncluded, "R1-C": domain.SeatTierIncluded,
	"R2-A": domain.SeatTierIncluded, "R2-B": domain.SeatTierIncluded, "R2-C": domain.SeatTierPremium,
	"R3-A": domain.SeatTierIncluded, "R3-B": domain.SeatTierPremium, "R3-C": domain.SeatTierIncluded,
	"R4-A": domain.SeatTierIncluded, "R4-B": domain.SeatTierIncluded, "R4-C": domain.SeatTierIncluded,
	"R5-A": domain.SeatTierIncluded, "R5-B": domain.SeatTierIncluded, "R5-C": domain.SeatTierPremium,
	"R6-A": domain.SeatTierIncluded, "R6-B": domain.SeatTierIncluded, "R6-C": domain.SeatTierIncluded,
}

// SeatTierFor looks a seat up in the chart. The second return is false for
// seat ids that do not exist on the aircraft.
func SeatTierFor(seatID string) (domain.SeatTier, bool) {
	tier, ok := cabinLayout[seatID]
	return tier, ok
}

// SeatMap returns a copy of the full chart for rendering.
func SeatMap() map[string]domain.SeatTier {
	out := make(map[string]domain.SeatTier, len(cabinLayout))
	for id, tier := range cabinLayout {
		out[id] = tier
	}
	return out
}
