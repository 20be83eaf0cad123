// Package search serves the location pickers and the flight search step.
package search

import (
	"context"

	"github.com/aircompany/bookingflow/internal/domain"
	"github.com/aircompany/bookingflow/internal/rank"
	"github.com/aircompany/bookingflow/internal/remote"
	"go.uber.org/zap"
)

// Direction selects which side of the route the Anywhere mode fixes.
type Direction string

const (
	DirectionFrom Direction = "from"
	DirectionTo   Direction = "to"
)

// LocationsResult carries the ranked picker lists. Reachable is only set in
// Anywhere mode, where it is shown above the shortened general list.
type LocationsResult struct {
	Reachable []domain.Location `json:"reachable,omitempty"`
	General   []domain.Location `json:"general"`
}

type SearchUseCase interface {
	Locations(ctx context.Context, query, anywhereFor string, direction Direction) (*LocationsResult, error)
	Flights(ctx context.Context, q remote.SearchQuery) ([]domain.FlightOffer, error)
}

// LocationCache is the read-through cache over the airport reference list.
type LocationCache interface {
	GetLocations(ctx context.Context) ([]domain.Location, error)
	SetLocations(ctx context.Context, locations []domain.Location) error
}

type SearchService struct {
	remote remote.Client
	cache  LocationCache
	logger *zap.Logger
}

func NewSearchService(remoteClient remote.Client, cache LocationCache, logger *zap.Logger) *SearchService {
	return &SearchService{remote: remoteClient, cache: cache, logger: logger}
}

// Locations ranks the airport list against the query. When anywhereFor names
// an airport code, the result splits into the destinations (or origins,
// per direction) actually reachable from it and a shortened general list.
func (s *SearchService) Locations(ctx context.Context, query, anywhereFor string, direction Direction) (*LocationsResult, error) {
	all, err := s.allLocations(ctx)
	if err != nil {
		return nil, err
	}
	ranked := rank.Rank(all, query)

	if anywhereFor == "" {
		return &LocationsResult{General: rank.Top(ranked, rank.GeneralLimit)}, nil
	}

	reachable, err := s.reachableFor(ctx, anywhereFor, direction)
	if err != nil {
		s.logger.Warn("reachable list unavailable, serving general list only",
			zap.String("airport", anywhereFor), zap.Error(err))
		return &LocationsResult{General: rank.Top(ranked, rank.GeneralLimit)}, nil
	}

	reachableCodes := make(map[string]struct{}, len(reachable))
	for _, loc := range reachable {
		reachableCodes[loc.Code] = struct{}{}
	}

	var inReach, general []domain.Location
	for _, loc := range ranked {
		if _, ok := reachableCodes[loc.Code]; ok {
			inReach = append(inReach, loc)
		} else {
			general = append(general, loc)
		}
	}
	return &LocationsResult{
		Reachable: rank.Top(inReach, rank.AnywhereReachableLimit),
		General:   rank.Top(general, rank.AnywhereGeneralLimit),
	}, nil
}

func (s *SearchService) Flights(ctx context.Context, q remote.SearchQuery) ([]domain.FlightOffer, error) {
	return s.remote.SearchFlights(ctx, q)
}

func (s *SearchService) allLocations(ctx context.Context) ([]domain.Location, error) {
	if s.cache != nil {
		cached, err := s.cache.GetLocations(ctx)
		if err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	fresh, err := s.remote.Locations(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetLocations(ctx, fresh); err != nil {
			s.logger.Warn("failed to cache locations", zap.Error(err))
		}
	}
	return fresh, nil
}

func (s *SearchService) reachableFor(ctx context.Context, code string, direction Direction) ([]domain.Location, error) {
	if direction == DirectionTo {
		return s.remote.ReachableOrigins(ctx, code)
	}
	return s.remote.ReachableDestinations(ctx, code)
}

var _ SearchUseCase = (*SearchService)(nil)
