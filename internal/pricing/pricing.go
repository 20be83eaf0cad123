// Package pricing derives the payable total of a booking session.
package pricing

import "github.com/aircompany/bookingflow/internal/domain"

// TaxesAndFees is a fixed zero placeholder; no tax model is in scope.
const TaxesAndFees = domain.Money(0)

// Total computes cabin base price plus the optional seat surcharge. It is
// recomputed synchronously on every cabin or seat change; a stored total is
// never trusted.
func Total(flight domain.FlightOffer, cabin domain.CabinClass, seat *domain.SeatSelection) domain.Money {
	total := flight.CabinPrice(cabin) + TaxesAndFees
	if seat != nil {
		total += seat.Surcharge()
	}
	return total
}
