package rank

import (
	"testing"

	"github.com/aircompany/bookingflow/internal/domain"
	"github.com/stretchr/testify/assert"
)

var airports = []domain.Location{
	{Code: "CDG", City: "Paris", Country: "France", Name: "Charles de Gaulle Airport", SearchLabel: "Paris (CDG)"},
	{Code: "BEG", City: "Belgrade", Country: "Serbia", Name: "Nikola Tesla Airport", SearchLabel: "Belgrade (BEG)"},
	{Code: "ORY", City: "Paris", Country: "France", Name: "Orly Airport", SearchLabel: "Paris (ORY)"},
	{Code: "BER", City: "Berlin", Country: "Germany", Name: "Brandenburg Airport", SearchLabel: "Berlin (BER)"},
	{Code: "JFK", City: "New York", Country: "United States", Name: "John F. Kennedy International", SearchLabel: "New York (JFK)"},
	{Code: "LHR", City: "London", Country: "United Kingdom", Name: "Heathrow Airport", SearchLabel: "London (LHR)"},
}

func TestRank_EmptyQueryKeepsOriginalOrder(t *testing.T) {
	got := Rank(airports, "")
	assert.Equal(t, airports, got)

	got = Rank(airports, "   ")
	assert.Equal(t, airports, got)
}

func TestRank_ExactCodeIsFirst(t *testing.T) {
	got := Rank(airports, "BEG")
	assert.NotEmpty(t, got)
	assert.Equal(t, "BEG", got[0].Code)

	got = Rank(airports, "cdg")
	assert.NotEmpty(t, got)
	assert.Equal(t, "CDG", got[0].Code)
}

func TestRank_AllTokensMustMatch(t *testing.T) {
	got := Rank(airports, "paris orly")
	assert.Len(t, got, 1)
	assert.Equal(t, "ORY", got[0].Code)

	got = Rank(airports, "paris tokyo")
	assert.Empty(t, got)
}

func TestRank_CityPrefixBeatsCountryPrefix(t *testing.T) {
	// "ber" prefixes the city Berlin and the code BER; Belgrade matches
	// no prefix rule on "ber" but does not contain the token anyway.
	got := Rank(airports, "ber")
	assert.Equal(t, "BER", got[0].Code)
}

func TestRank_FallsBackToAlphabeticalCity(t *testing.T) {
	// "airport" matches several entries with no prefix relation.
	got := Rank(airports, "airport")
	cities := make([]string, len(got))
	for i, l := range got {
		cities[i] = l.City
	}
	for i := 1; i < len(cities); i++ {
		assert.LessOrEqual(t, cities[i-1], cities[i])
	}
}

func TestRank_Deterministic(t *testing.T) {
	first := Rank(airports, "paris")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Rank(airports, "paris"))
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	original := make([]domain.Location, len(airports))
	copy(original, airports)
	_ = Rank(airports, "london heathrow")
	assert.Equal(t, original, airports)
}

func TestRank_MatchesAcrossFields(t *testing.T) {
	got := Rank(airports, "serbia")
	assert.Len(t, got, 1)
	assert.Equal(t, "BEG", got[0].Code)

	got = Rank(airports, "kennedy")
	assert.Len(t, got, 1)
	assert.Equal(t, "JFK", got[0].Code)
}

func TestTop_Caps(t *testing.T) {
	assert.Len(t, Top(airports, 3), 3)
	assert.Len(t, Top(airports, 100), len(airports))
	assert.Equal(t, airports[:AnywhereGeneralLimit], Top(airports, AnywhereGeneralLimit))
}
