package services

import (
	"fmt"
	"strings"

	"github.com/skyroster/roster-backend/internal/models"
)

// Crew composition limits
const (
	MaxTrainees = 2
	MinChiefs   = 1
	MaxChiefs   = 4
	MinRegulars = 4
	MaxRegulars = 16
	MaxChefs    = 2
)

// tagEquals compares role/seniority/type tags case-insensitively. The
// source data mixes capitalization ("senior" vs "Senior"); normalization
// happens here at compare time, never by rewriting the data.
func tagEquals(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ValidateCrewComposition evaluates the staffing rules against the
// selected crew and returns one human-readable violation per broken rule,
// in rule-declaration order. All rules are evaluated independently; an
// empty slice means the selection is compliant. Violations are data, not
// errors: a non-compliant selection is a valid result.
func ValidateCrewComposition(flightCrew []models.FlightCrewMember, cabinCrew []models.CabinCrewMember) []string {
	violations := []string{}

	hasCaptain := false
	hasFirstOfficer := false
	hasSenior := false
	hasJuniorOrIntermediate := false
	trainees := 0
	for _, m := range flightCrew {
		if tagEquals(string(m.Role), string(models.RoleCaptain)) {
			hasCaptain = true
		}
		if tagEquals(string(m.Role), string(models.RoleFirstOfficer)) {
			hasFirstOfficer = true
		}
		switch {
		case tagEquals(m.SeniorityLevel, string(models.SenioritySenior)):
			hasSenior = true
		case tagEquals(m.SeniorityLevel, string(models.SeniorityJunior)),
			tagEquals(m.SeniorityLevel, string(models.SeniorityIntermediate)):
			hasJuniorOrIntermediate = true
		case tagEquals(m.SeniorityLevel, string(models.SeniorityTrainee)):
			trainees++
		}
	}

	if !hasCaptain {
		violations = append(violations, "Need at least 1 Captain")
	}
	if !hasFirstOfficer {
		violations = append(violations, "Need at least 1 First Officer")
	}
	if !hasSenior {
		violations = append(violations, "Need at least 1 Senior flight crew member")
	}
	if !hasJuniorOrIntermediate {
		violations = append(violations, "Need at least 1 Junior or Intermediate flight crew member")
	}
	if trainees > MaxTrainees {
		violations = append(violations, fmt.Sprintf("At most %d Trainees allowed (selected %d)", MaxTrainees, trainees))
	}

	chiefs, regulars, chefs := 0, 0, 0
	for _, m := range cabinCrew {
		switch {
		case tagEquals(m.AttendantType, string(models.AttendantChief)):
			chiefs++
		case tagEquals(m.AttendantType, string(models.AttendantRegular)):
			regulars++
		case tagEquals(m.AttendantType, string(models.AttendantChef)):
			chefs++
		}
	}

	if chiefs < MinChiefs || chiefs > MaxChiefs {
		violations = append(violations, fmt.Sprintf("Need %d-%d Chief attendants (selected %d)", MinChiefs, MaxChiefs, chiefs))
	}
	if regulars < MinRegulars || regulars > MaxRegulars {
		violations = append(violations, fmt.Sprintf("Need %d-%d Regular attendants (selected %d)", MinRegulars, MaxRegulars, regulars))
	}
	if chefs > MaxChefs {
		violations = append(violations, fmt.Sprintf("At most %d Chefs allowed (selected %d)", MaxChefs, chefs))
	}

	return violations
}
