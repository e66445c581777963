package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skyroster/roster-backend/internal/models"
	"github.com/skyroster/roster-backend/internal/queue"
	"github.com/skyroster/roster-backend/pkg/seatmap"
)

// Guard rejections surfaced by roster operations. Composition and
// assignment violations are NOT errors; these cover illegal operations
// and unknown identifiers only.
var (
	ErrSessionNotFound   = errors.New("roster session not found")
	ErrPassengerNotFound = errors.New("passenger not found on flight")
	ErrCrewNotFound      = errors.New("crew member not in eligible pool")
	ErrInvalidSeatLabel  = errors.New("seat label is not part of the aircraft grid")
	ErrCrewSeat          = errors.New("seat is held by a crew member")
	ErrSeatOccupied      = errors.New("seat is held by another passenger")
)

// Crew kinds accepted by selection operations
const (
	CrewKindFlight = "flight"
	CrewKindCabin  = "cabin"
)

// FlightData bundles everything a roster session needs: the flight detail
// with its persisted roster plus the eligible crew pools.
type FlightData struct {
	Flight         models.Flight
	FlightCrewPool []models.FlightCrewMember
	CabinCrewPool  []models.CabinCrewMember
}

// FlightLoader supplies flight data for a session
type FlightLoader interface {
	Load(ctx context.Context, flightID int64) (*FlightData, error)
}

// EventPublisher receives roster output events after every mutation
type EventPublisher interface {
	PublishCrewSelected(ctx context.Context, event queue.CrewSelectedEvent) error
	PublishSeatsAssigned(ctx context.Context, event queue.SeatsAssignedEvent) error
}

// rosterSession holds the mutable editing state for one opened flight:
// the crew selection sets and the uncommitted passenger seat overrides.
// All state is touched under the session mutex; every mutation is followed
// by a synchronous occupancy rebuild and revalidation, so query results
// always reflect the latest mutation.
type rosterSession struct {
	mu sync.Mutex

	id        uuid.UUID
	data      *FlightData
	createdAt time.Time

	selectedFlightCrew map[int64]bool
	selectedCabinCrew  map[int64]bool
	overrides          map[int64]string
}

// ValidationResult carries the crew composition violations and the seat
// assignment violations for a session. Empty slices mean compliant.
type ValidationResult struct {
	CrewViolations []string `json:"crew_violations"`
	SeatViolations []string `json:"seat_violations"`
}

// SessionState is the snapshot returned to the presentation layer after
// every operation.
type SessionState struct {
	SessionID     string                           `json:"session_id"`
	FlightID      int64                            `json:"flight_id"`
	FlightNumber  string                           `json:"flight_number"`
	FlightCrewIDs []int64                          `json:"flight_crew_ids"`
	CabinCrewIDs  []int64                          `json:"cabin_crew_ids"`
	Assignments   map[int64]string                 `json:"assignments"`
	Occupancy     map[string]models.OccupancyEntry `json:"occupancy"`
	Validation    ValidationResult                 `json:"validation"`
}

// SeatMapView is the rendered grid with current occupancy for display
type SeatMapView struct {
	Plan      seatmap.Plan                     `json:"plan"`
	Grid      [][]seatmap.Seat                 `json:"grid"`
	Occupancy map[string]models.OccupancyEntry `json:"occupancy"`
}

// RosterService owns roster sessions and implements the seat assignment
// engine and crew selection operations on top of them.
type RosterService struct {
	mu       sync.RWMutex
	sessions map[string]*rosterSession

	loader    FlightLoader
	publisher EventPublisher
	logger    *logrus.Logger
}

// NewRosterService creates a new RosterService. The publisher may be nil
// when event output is disabled.
func NewRosterService(loader FlightLoader, publisher EventPublisher, logger *logrus.Logger) *RosterService {
	return &RosterService{
		sessions:  make(map[string]*rosterSession),
		loader:    loader,
		publisher: publisher,
		logger:    logger,
	}
}

// OpenSession loads the flight and starts a roster editing session for
// it. The selection sets are pre-seeded from the crew already persisted
// on the flight; overrides start empty.
func (s *RosterService) OpenSession(ctx context.Context, flightID int64) (*SessionState, error) {
	data, err := s.loader.Load(ctx, flightID)
	if err != nil {
		return nil, err
	}

	session := &rosterSession{
		id:                 uuid.New(),
		data:               data,
		createdAt:          time.Now(),
		selectedFlightCrew: make(map[int64]bool),
		selectedCabinCrew:  make(map[int64]bool),
		overrides:          make(map[int64]string),
	}
	for _, m := range data.Flight.FlightCrew {
		session.selectedFlightCrew[m.ID] = true
	}
	for _, m := range data.Flight.CabinCrew {
		session.selectedCabinCrew[m.ID] = true
	}

	s.mu.Lock()
	s.sessions[session.id.String()] = session
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"session_id": session.id,
		"flight_id":  flightID,
	}).Info("roster session opened")

	session.mu.Lock()
	defer session.mu.Unlock()
	return s.snapshot(session), nil
}

// CloseSession discards a session and its uncommitted state
func (s *RosterService) CloseSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *RosterService) session(sessionID string) (*rosterSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// SelectCrew adds a crew member to the selection set of the given kind.
// Selecting an already-selected member is a no-op.
func (s *RosterService) SelectCrew(ctx context.Context, sessionID, kind string, memberID int64) (*SessionState, error) {
	return s.mutateSelection(ctx, sessionID, kind, memberID, true)
}

// DeselectCrew removes a crew member from the selection set of the given
// kind. Removing an absent member is a no-op.
func (s *RosterService) DeselectCrew(ctx context.Context, sessionID, kind string, memberID int64) (*SessionState, error) {
	return s.mutateSelection(ctx, sessionID, kind, memberID, false)
}

func (s *RosterService) mutateSelection(ctx context.Context, sessionID, kind string, memberID int64, selected bool) (*SessionState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	switch kind {
	case CrewKindFlight:
		if selected && !flightCrewInPool(session.data, memberID) {
			return nil, ErrCrewNotFound
		}
		applySelection(session.selectedFlightCrew, memberID, selected)
	case CrewKindCabin:
		if selected && !cabinCrewInPool(session.data, memberID) {
			return nil, ErrCrewNotFound
		}
		applySelection(session.selectedCabinCrew, memberID, selected)
	default:
		return nil, fmt.Errorf("unknown crew kind %q", kind)
	}

	s.publishCrewSelected(ctx, session)
	return s.snapshot(session), nil
}

// QuickSelect runs the heuristic selector over the eligible pools and
// unions the result into the current selection. It never removes existing
// selections, and the caller still sees the validator output in the
// returned state: quick select is a starting point, not a guarantee.
func (s *RosterService) QuickSelect(ctx context.Context, sessionID string) (*SessionState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	flightIDs, cabinIDs := QuickSelectCrew(session.data.FlightCrewPool, session.data.CabinCrewPool)
	for _, id := range flightIDs {
		session.selectedFlightCrew[id] = true
	}
	for _, id := range cabinIDs {
		session.selectedCabinCrew[id] = true
	}

	s.publishCrewSelected(ctx, session)
	return s.snapshot(session), nil
}

// AssignSeat records an override assigning a passenger to a seat.
// Preconditions: the label must be a real seat on the grid, must not be
// held by crew, and must not be held by a different passenger (no
// implicit swap). Re-assigning a passenger replaces their previous
// override; assigning the seat they already hold is a no-op.
func (s *RosterService) AssignSeat(ctx context.Context, sessionID string, passengerID int64, seatLabel string) (*SessionState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if !passengerOnFlight(session.data, passengerID) {
		return nil, ErrPassengerNotFound
	}
	if _, _, ok := seatmap.Parse(seatLabel, session.data.Flight.VehicleType.SeatingPlan); !ok {
		return nil, ErrInvalidSeatLabel
	}

	index := s.occupancy(session)
	if entry, held := index[seatLabel]; held {
		if entry.IsCrew() {
			return nil, ErrCrewSeat
		}
		if entry.OccupantID != passengerID {
			return nil, ErrSeatOccupied
		}
		if session.overrides[passengerID] == seatLabel {
			// Idempotent re-assign: nothing changed, no event.
			return s.snapshot(session), nil
		}
	}

	session.overrides[passengerID] = seatLabel
	s.publishSeatsAssigned(ctx, session)
	return s.snapshot(session), nil
}

// UnassignSeat removes a passenger's override if present; no-op otherwise
func (s *RosterService) UnassignSeat(ctx context.Context, sessionID string, passengerID int64) (*SessionState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if _, ok := session.overrides[passengerID]; ok {
		delete(session.overrides, passengerID)
		s.publishSeatsAssigned(ctx, session)
	}
	return s.snapshot(session), nil
}

// Validate recomputes and returns the current violations on demand
func (s *RosterService) Validate(sessionID string) (*ValidationResult, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	result := s.validate(session)
	return &result, nil
}

// SeatMap renders the seat grid with current occupancy
func (s *RosterService) SeatMap(sessionID string) (*SeatMapView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	plan := session.data.Flight.VehicleType.SeatingPlan
	return &SeatMapView{
		Plan:      plan,
		Grid:      seatmap.Grid(plan),
		Occupancy: s.occupancy(session),
	}, nil
}

// State returns the current session snapshot without mutating anything
func (s *RosterService) State(sessionID string) (*SessionState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	return s.snapshot(session), nil
}

// occupancy rebuilds the occupancy index from the persisted roster plus
// the session overrides. Called with the session mutex held.
func (s *RosterService) occupancy(session *rosterSession) map[string]models.OccupancyEntry {
	return BuildOccupancyIndex(
		session.data.Flight.FlightCrew,
		session.data.Flight.CabinCrew,
		session.data.Flight.Passengers,
		session.overrides,
	)
}

// validate recomputes crew and seat violations. Called with the session
// mutex held.
func (s *RosterService) validate(session *rosterSession) ValidationResult {
	var flightCrew []models.FlightCrewMember
	for _, m := range session.data.FlightCrewPool {
		if session.selectedFlightCrew[m.ID] {
			flightCrew = append(flightCrew, m)
		}
	}
	// Persisted crew may not appear in the eligible pool; they still
	// count toward composition.
	for _, m := range session.data.Flight.FlightCrew {
		if session.selectedFlightCrew[m.ID] && !flightCrewInPool(sessionPoolOnly(session), m.ID) {
			flightCrew = append(flightCrew, m)
		}
	}

	var cabinCrew []models.CabinCrewMember
	for _, m := range session.data.CabinCrewPool {
		if session.selectedCabinCrew[m.ID] {
			cabinCrew = append(cabinCrew, m)
		}
	}
	for _, m := range session.data.Flight.CabinCrew {
		if session.selectedCabinCrew[m.ID] && !cabinCrewInPool(sessionPoolOnly(session), m.ID) {
			cabinCrew = append(cabinCrew, m)
		}
	}

	return ValidationResult{
		CrewViolations: ValidateCrewComposition(flightCrew, cabinCrew),
		SeatViolations: s.seatViolations(session),
	}
}

// seatViolations reports duplicate effective seat assignments and the
// count of assignable passengers still without a seat. Infants (parent_id
// set) are permanently exempt from the missing-seat count.
func (s *RosterService) seatViolations(session *rosterSession) []string {
	violations := []string{}

	effective := make(map[int64]string)
	for _, p := range session.data.Flight.Passengers {
		if p.SeatNumber != nil && *p.SeatNumber != "" {
			effective[p.ID] = *p.SeatNumber
		}
	}
	for passengerID, label := range session.overrides {
		effective[passengerID] = label
	}

	holders := make(map[string]int)
	for _, label := range effective {
		holders[label]++
	}
	var duplicates []string
	for label, count := range holders {
		if count > 1 {
			duplicates = append(duplicates, fmt.Sprintf("Seat %s is assigned to %d passengers", label, count))
		}
	}
	sort.Strings(duplicates)
	violations = append(violations, duplicates...)

	missing := 0
	for _, p := range session.data.Flight.Passengers {
		if p.IsInfant() {
			continue
		}
		if _, ok := effective[p.ID]; !ok {
			missing++
		}
	}
	if missing > 0 {
		violations = append(violations, fmt.Sprintf("%d passenger(s) have no seat assigned", missing))
	}

	return violations
}

// snapshot builds the state returned to callers. Called with the session
// mutex held.
func (s *RosterService) snapshot(session *rosterSession) *SessionState {
	assignments := make(map[int64]string, len(session.overrides))
	for passengerID, label := range session.overrides {
		assignments[passengerID] = label
	}

	return &SessionState{
		SessionID:     session.id.String(),
		FlightID:      session.data.Flight.ID,
		FlightNumber:  session.data.Flight.FlightNumber,
		FlightCrewIDs: sortedIDs(session.selectedFlightCrew),
		CabinCrewIDs:  sortedIDs(session.selectedCabinCrew),
		Assignments:   assignments,
		Occupancy:     s.occupancy(session),
		Validation:    s.validate(session),
	}
}

func (s *RosterService) publishCrewSelected(ctx context.Context, session *rosterSession) {
	if s.publisher == nil {
		return
	}
	event := queue.CrewSelectedEvent{
		FlightID:      session.data.Flight.ID,
		FlightCrewIDs: sortedIDs(session.selectedFlightCrew),
		CabinCrewIDs:  sortedIDs(session.selectedCabinCrew),
		SelectedAt:    time.Now().UTC(),
	}
	if err := s.publisher.PublishCrewSelected(ctx, event); err != nil {
		s.logger.WithError(err).Warn("crew selected event not published")
	}
}

func (s *RosterService) publishSeatsAssigned(ctx context.Context, session *rosterSession) {
	if s.publisher == nil {
		return
	}
	assignments := make(map[int64]string, len(session.overrides))
	for passengerID, label := range session.overrides {
		assignments[passengerID] = label
	}
	event := queue.SeatsAssignedEvent{
		FlightID:    session.data.Flight.ID,
		Assignments: assignments,
		AssignedAt:  time.Now().UTC(),
	}
	if err := s.publisher.PublishSeatsAssigned(ctx, event); err != nil {
		s.logger.WithError(err).Warn("seats assigned event not published")
	}
}

func applySelection(set map[int64]bool, memberID int64, selected bool) {
	if selected {
		set[memberID] = true
	} else {
		delete(set, memberID)
	}
}

func flightCrewInPool(data *FlightData, memberID int64) bool {
	for _, m := range data.FlightCrewPool {
		if m.ID == memberID {
			return true
		}
	}
	return false
}

func cabinCrewInPool(data *FlightData, memberID int64) bool {
	for _, m := range data.CabinCrewPool {
		if m.ID == memberID {
			return true
		}
	}
	return false
}

func passengerOnFlight(data *FlightData, passengerID int64) bool {
	for _, p := range data.Flight.Passengers {
		if p.ID == passengerID {
			return true
		}
	}
	return false
}

func sessionPoolOnly(session *rosterSession) *FlightData {
	return &FlightData{
		FlightCrewPool: session.data.FlightCrewPool,
		CabinCrewPool:  session.data.CabinCrewPool,
	}
}

func sortedIDs(set map[int64]bool) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
