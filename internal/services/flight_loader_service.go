package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/skyroster/roster-backend/internal/models"
)

// ErrSuperseded is returned when a newer load started before this one
// finished. The stale result must be discarded by the caller.
var ErrSuperseded = errors.New("flight load superseded by a newer request")

// FlightStore supplies flight detail with the persisted roster
type FlightStore interface {
	GetByID(ctx context.Context, flightID int64) (*models.Flight, error)
}

// CrewStore supplies the eligible crew pools
type CrewStore interface {
	ListAvailableFlightCrew(ctx context.Context) ([]models.FlightCrewMember, error)
	ListAvailableCabinCrew(ctx context.Context) ([]models.CabinCrewMember, error)
}

// FlightLoaderService loads flight data for roster sessions. Each load is
// stamped with a monotonic generation; when flights are switched quickly,
// only the most recent load wins and earlier completions are discarded.
// Flight detail is cached in Redis when a client is configured, degrading
// to direct repository reads otherwise.
type FlightLoaderService struct {
	flights FlightStore
	crew    CrewStore
	cache   *redis.Client
	ttl     time.Duration
	logger  *logrus.Logger

	generation atomic.Uint64
}

// NewFlightLoaderService creates a FlightLoaderService. cache may be nil
// to disable caching.
func NewFlightLoaderService(flights FlightStore, crew CrewStore, cache *redis.Client, ttl time.Duration, logger *logrus.Logger) *FlightLoaderService {
	return &FlightLoaderService{
		flights: flights,
		crew:    crew,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// Load fetches the flight detail and eligible crew pools. Returns
// ErrSuperseded when another Load started while this one was in flight.
func (s *FlightLoaderService) Load(ctx context.Context, flightID int64) (*FlightData, error) {
	gen := s.generation.Add(1)

	flight, err := s.flightDetail(ctx, flightID)
	if err != nil {
		return nil, err
	}

	flightPool, err := s.crew.ListAvailableFlightCrew(ctx)
	if err != nil {
		return nil, fmt.Errorf("list flight crew: %w", err)
	}
	cabinPool, err := s.crew.ListAvailableCabinCrew(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cabin crew: %w", err)
	}

	if gen != s.generation.Load() {
		s.logger.WithFields(logrus.Fields{
			"flight_id":  flightID,
			"generation": gen,
		}).Debug("discarding superseded flight load")
		return nil, ErrSuperseded
	}

	return &FlightData{
		Flight:         *flight,
		FlightCrewPool: flightPool,
		CabinCrewPool:  cabinPool,
	}, nil
}

func (s *FlightLoaderService) flightDetail(ctx context.Context, flightID int64) (*models.Flight, error) {
	key := fmt.Sprintf("roster:flight:%d", flightID)

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var flight models.Flight
			if err := json.Unmarshal(raw, &flight); err == nil {
				return &flight, nil
			}
			// Corrupt cache entry; fall through to the repository.
			_ = s.cache.Del(ctx, key).Err()
		} else if !errors.Is(err, redis.Nil) {
			s.logger.WithError(err).Debug("flight cache read failed")
		}
	}

	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(flight); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
				s.logger.WithError(err).Debug("flight cache write failed")
			}
		}
	}

	return flight, nil
}
