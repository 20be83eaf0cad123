package domain

import "time"

type CabinClass string

const (
	CabinEconomy  CabinClass = "economy"
	CabinBusiness CabinClass = "business"
	CabinFirst    CabinClass = "first"
)

// CabinOffer is a price quoted for a specific service class on a flight.
type CabinOffer struct {
	CabinClass CabinClass `json:"cabin_class"`
	Price      Money      `json:"price"`
}

// FlightOffer is read-only once selected; a refresh replaces it wholesale
// after the promotional price expires.
type FlightOffer struct {
	FlightID       string       `json:"flight_id"`
	FlightNumber   string       `json:"flight_number"`
	Origin         string       `json:"origin"`
	Destination    string       `json:"destination"`
	DepartureTime  time.Time    `json:"departure_time"`
	ArrivalTime    time.Time    `json:"arrival_time"`
	BasePrice      Money        `json:"base_price"`
	AvailableSeats int          `json:"available_seats"`
	CabinOffers    []CabinOffer `json:"cabin_offers,omitempty"`
	OfferExpiry    *time.Time   `json:"offer_expiry,omitempty"`
}

// CabinPrice returns the quoted price for the given cabin, falling back to
// the base price when the flight carries no per-cabin quote.
func (f FlightOffer) CabinPrice(cabin CabinClass) Money {
	for _, co := range f.CabinOffers {
		if co.CabinClass == cabin {
			return co.Price
		}
	}
	return f.BasePrice
}

// Expired reports whether the promotional price is past its expiry.
func (f FlightOffer) Expired(now time.Time) bool {
	return f.OfferExpiry != nil && now.After(*f.OfferExpiry)
}

// Route renders the "BEG → CDG" route string used on documents.
func (f FlightOffer) Route() string {
	return f.Origin + " → " + f.Destination
}
