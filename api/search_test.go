package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aircompany/bookingflow/internal/domain"
	"github.com/aircompany/bookingflow/internal/remote"
	"github.com/aircompany/bookingflow/internal/service/search"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSearchUseCase struct {
	mock.Mock
}

func (m *MockSearchUseCase) Locations(ctx context.Context, query, anywhereFor string, direction search.Direction) (*search.LocationsResult, error) {
	args := m.Called(ctx, query, anywhereFor, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*search.LocationsResult), args.Error(1)
}

func (m *MockSearchUseCase) Flights(ctx context.Context, q remote.SearchQuery) ([]domain.FlightOffer, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightOffer), args.Error(1)
}

func TestSearchHandler_locations(t *testing.T) {
	mockService := &MockSearchUseCase{}
	handler := NewSearchHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/locations?q=paris", nil)

	result := &search.LocationsResult{
		General: []domain.Location{{Code: "CDG", City: "Paris", Country: "France"}},
	}
	mockService.On("Locations", c.Request.Context(), "paris", "", search.DirectionFrom).Return(result, nil)

	handler.locations(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CDG")
	mockService.AssertExpectations(t)
}

func TestSearchHandler_locationsBadDirection(t *testing.T) {
	mockService := &MockSearchUseCase{}
	handler := NewSearchHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/locations?direction=sideways", nil)

	handler.locations(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchHandler_searchFlights(t *testing.T) {
	mockService := &MockSearchUseCase{}
	handler := NewSearchHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/flights/search?origin=BEG&destination=CDG&date=2025-09-10&passengers=1", nil)

	offers := []domain.FlightOffer{{FlightID: "FL-310", FlightNumber: "JU310", Origin: "BEG", Destination: "CDG"}}
	mockService.On("Flights", c.Request.Context(), mock.Anything).Return(offers, nil)

	handler.searchFlights(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "JU310")
	mockService.AssertExpectations(t)
}

func TestSearchHandler_searchFlightsBadDate(t *testing.T) {
	mockService := &MockSearchUseCase{}
	handler := NewSearchHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/flights/search?origin=BEG&destination=CDG&date=10.09.2025", nil)

	handler.searchFlights(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
