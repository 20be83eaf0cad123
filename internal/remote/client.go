// Package remote is the HTTP client for the flight/booking/payment
// collaborator service. Every operation maps a transport or service failure
// to UnavailableError so callers can apply the local fallback policy.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aircompany/bookingflow/config"
	"github.com/aircompany/bookingflow/internal/domain"
	"go.uber.org/zap"
)

// UnavailableError marks a remote operation that failed for infrastructure
// reasons. It is the only error class the payment orchestrator absorbs.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("remote %s unavailable: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// SearchQuery carries the flight search parameters.
type SearchQuery struct {
	Origin      string
	Destination string
	Date        time.Time
	Passengers  int
}

type ReservationRequest struct {
	FlightID   string                 `json:"flight_id"`
	IdentityID string                 `json:"identity_id"`
	CabinClass domain.CabinClass      `json:"cabin_class"`
	Passenger  domain.PassengerRecord `json:"passenger"`
	Seat       *domain.SeatSelection  `json:"seat,omitempty"`
}

type ReservationResult struct {
	ReservationID     string `json:"reservation_id"`
	ReservationNumber string `json:"reservation_number"`
}

type ChargeRequest struct {
	ReservationID string               `json:"reservation_id"`
	Amount        domain.Money         `json:"amount"`
	Method        domain.PaymentMethod `json:"method"`
	Card          *domain.CardDetails  `json:"card,omitempty"`
	PointsToApply int64                `json:"points_to_apply,omitempty"`
}

type ChargeResult struct {
	PaymentConfirmationID string `json:"payment_confirmation_id"`
}

// Client is the collaborator operation surface consumed by the engine.
type Client interface {
	SearchFlights(ctx context.Context, q SearchQuery) ([]domain.FlightOffer, error)
	Locations(ctx context.Context) ([]domain.Location, error)
	ReachableDestinations(ctx context.Context, originCode string) ([]domain.Location, error)
	ReachableOrigins(ctx context.Context, destinationCode string) ([]domain.Location, error)
	RefreshOffer(ctx context.Context, flightID string) (*domain.FlightOffer, error)
	CreateReservation(ctx context.Context, req ReservationRequest) (*ReservationResult, error)
	ChargePayment(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	ListReservations(ctx context.Context, identityID string) ([]domain.BookingRecord, error)
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPClient(cfg config.RemoteConfig, logger *zap.Logger) *HTTPClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *HTTPClient) SearchFlights(ctx context.Context, q SearchQuery) ([]domain.FlightOffer, error) {
	params := url.Values{}
	params.Set("origin", q.Origin)
	params.Set("destination", q.Destination)
	params.Set("date", q.Date.Format("2006-01-02"))
	params.Set("passengers", strconv.Itoa(q.Passengers))

	var offers []domain.FlightOffer
	if err := c.get(ctx, "searchFlights", "/flights/search?"+params.Encode(), &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

func (c *HTTPClient) Locations(ctx context.Context) ([]domain.Location, error) {
	var locations []domain.Location
	if err := c.get(ctx, "getLocations", "/flights/airports", &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (c *HTTPClient) ReachableDestinations(ctx context.Context, originCode string) ([]domain.Location, error) {
	var locations []domain.Location
	path := "/flights/destinations?origin=" + url.QueryEscape(originCode)
	if err := c.get(ctx, "getReachableDestinations", path, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (c *HTTPClient) ReachableOrigins(ctx context.Context, destinationCode string) ([]domain.Location, error) {
	var locations []domain.Location
	path := "/flights/origins?destination=" + url.QueryEscape(destinationCode)
	if err := c.get(ctx, "getReachableOrigins", path, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (c *HTTPClient) RefreshOffer(ctx context.Context, flightID string) (*domain.FlightOffer, error) {
	var offer domain.FlightOffer
	path := "/flights/" + url.PathEscape(flightID) + "/refresh-offer"
	if err := c.post(ctx, "refreshOffer", path, nil, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

func (c *HTTPClient) CreateReservation(ctx context.Context, req ReservationRequest) (*ReservationResult, error) {
	var res ReservationResult
	if err := c.post(ctx, "createReservation", "/bookings/reservations", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ChargePayment(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	var res ChargeResult
	if err := c.post(ctx, "chargePayment", "/bookings/payments", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ListReservations(ctx context.Context, identityID string) ([]domain.BookingRecord, error) {
	var records []domain.BookingRecord
	path := "/users/" + url.PathEscape(identityID) + "/reservations"
	if err := c.get(ctx, "listReservationsForIdentity", path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *HTTPClient) get(ctx context.Context, op, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &UnavailableError{Op: op, Err: err}
	}
	return c.do(op, req, out)
}

func (c *HTTPClient) post(ctx context.Context, op, path string, body, out interface{}) error {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return &UnavailableError{Op: op, Err: err}
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &payload)
	if err != nil {
		return &UnavailableError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(op, req, out)
}

func (c *HTTPClient) do(op string, req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("remote call failed", zap.String("op", op), zap.Error(err))
		return &UnavailableError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("remote call rejected",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode))
		return &UnavailableError{Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UnavailableError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

var _ Client = (*HTTPClient)(nil)
