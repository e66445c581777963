package services

import (
	"sort"

	"github.com/skyroster/roster-backend/internal/models"
)

// Quick-select caps for cabin crew, applied in this order.
const (
	quickSelectChiefs   = 2
	quickSelectRegulars = 8
	quickSelectChefs    = 1
)

// seniorityRank orders flight crew for quick selection. Unknown levels
// rank alongside trainees.
var seniorityRank = map[string]int{
	"senior":       3,
	"intermediate": 2,
	"junior":       1,
	"trainee":      0,
}

// QuickSelectCrew deterministically picks a recommended starting selection
// from the eligible pools. It is a heuristic: the result is a reasonable
// default, not guaranteed compliant, and callers must re-run
// ValidateCrewComposition afterwards.
//
// Flight crew: for Captain, First Officer and Flight Engineer in that
// order, the most senior qualified member of each role is taken (stable
// sort, ties broken by pool order). Cabin crew: up to 2 qualified chiefs,
// 8 qualified regulars and 1 qualified chef, in pool order.
func QuickSelectCrew(flightPool []models.FlightCrewMember, cabinPool []models.CabinCrewMember) (flightIDs, cabinIDs []int64) {
	roles := []models.CrewRole{models.RoleCaptain, models.RoleFirstOfficer, models.RoleFlightEngineer}
	for _, role := range roles {
		var candidates []models.FlightCrewMember
		for _, m := range flightPool {
			if m.Qualified && tagEquals(string(m.Role), string(role)) {
				candidates = append(candidates, m)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return rankOf(candidates[i].SeniorityLevel) > rankOf(candidates[j].SeniorityLevel)
		})
		flightIDs = append(flightIDs, candidates[0].ID)
	}

	cabinIDs = append(cabinIDs, takeAttendants(cabinPool, models.AttendantChief, quickSelectChiefs)...)
	cabinIDs = append(cabinIDs, takeAttendants(cabinPool, models.AttendantRegular, quickSelectRegulars)...)
	cabinIDs = append(cabinIDs, takeAttendants(cabinPool, models.AttendantChef, quickSelectChefs)...)

	return flightIDs, cabinIDs
}

func rankOf(seniority string) int {
	for level, rank := range seniorityRank {
		if tagEquals(seniority, level) {
			return rank
		}
	}
	return 0
}

// takeAttendants picks up to limit qualified attendants of one type in
// pool order.
func takeAttendants(pool []models.CabinCrewMember, attendantType models.AttendantType, limit int) []int64 {
	var ids []int64
	for _, m := range pool {
		if len(ids) >= limit {
			break
		}
		if m.Qualified && tagEquals(m.AttendantType, string(attendantType)) {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
