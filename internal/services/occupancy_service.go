package services

import (
	"github.com/skyroster/roster-backend/internal/models"
	"github.com/skyroster/roster-backend/pkg/seatmap"
)

// BuildOccupancyIndex folds the persisted roster and the in-progress
// overrides into a seat-label -> occupant map. Insertion order defines
// precedence: passenger persisted seats, then flight crew, then cabin
// crew, then overrides. Overrides win over everything and also evict any
// earlier entry attributed to the same passenger under a different label,
// so a passenger holds at most one seat.
//
// The index is rebuilt in full after every mutation; aircraft are bounded
// at a few hundred seats, so a full rebuild is cheaper than keeping the
// map incrementally consistent.
func BuildOccupancyIndex(
	flightCrew []models.FlightCrewMember,
	cabinCrew []models.CabinCrewMember,
	passengers []models.Passenger,
	overrides map[int64]string,
) map[string]models.OccupancyEntry {
	index := make(map[string]models.OccupancyEntry)

	for _, p := range passengers {
		if p.SeatNumber == nil || *p.SeatNumber == "" {
			continue
		}
		index[*p.SeatNumber] = models.OccupancyEntry{
			SeatLabel:   *p.SeatNumber,
			Kind:        models.OccupantPassenger,
			OccupantID:  p.ID,
			DisplayName: p.Name,
		}
	}

	for i, m := range flightCrew {
		label := crewSeatLabel(m.SeatNumber, seatmap.FlightCrewLabel(i+1))
		index[label] = models.OccupancyEntry{
			SeatLabel:   label,
			Kind:        models.OccupantFlightCrew,
			OccupantID:  m.ID,
			DisplayName: m.Name,
		}
	}

	for i, m := range cabinCrew {
		label := crewSeatLabel(m.SeatNumber, seatmap.CabinCrewLabel(i+1))
		index[label] = models.OccupancyEntry{
			SeatLabel:   label,
			Kind:        models.OccupantCabinCrew,
			OccupantID:  m.ID,
			DisplayName: m.Name,
		}
	}

	if len(overrides) == 0 {
		return index
	}

	names := make(map[int64]string, len(passengers))
	for _, p := range passengers {
		names[p.ID] = p.Name
	}

	for passengerID, label := range overrides {
		// Evict the passenger's previous seat, persisted or otherwise.
		for seat, entry := range index {
			if entry.Kind == models.OccupantPassenger && entry.OccupantID == passengerID && seat != label {
				delete(index, seat)
			}
		}
		index[label] = models.OccupancyEntry{
			SeatLabel:   label,
			Kind:        models.OccupantPassenger,
			OccupantID:  passengerID,
			DisplayName: names[passengerID],
		}
	}

	return index
}

// crewSeatLabel returns the persisted seat when present, otherwise the
// positional pseudo-label. Pseudo-labels are recomputed on every build and
// follow list position, not identity.
func crewSeatLabel(persisted *string, pseudo string) string {
	if persisted != nil && *persisted != "" {
		return *persisted
	}
	return pseudo
}
