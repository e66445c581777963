package models

import "github.com/lib/pq"

// CrewRole represents a flight crew role
type CrewRole string

const (
	RoleCaptain        CrewRole = "Captain"
	RoleFirstOfficer   CrewRole = "First Officer"
	RoleFlightEngineer CrewRole = "Flight Engineer"
)

// SeniorityLevel represents flight crew seniority.
// Source data mixes capitalization ("senior", "Senior", "SENIOR"), so
// comparisons must always go through a case-insensitive helper.
type SeniorityLevel string

const (
	SenioritySenior       SeniorityLevel = "Senior"
	SeniorityIntermediate SeniorityLevel = "Intermediate"
	SeniorityJunior       SeniorityLevel = "Junior"
	SeniorityTrainee      SeniorityLevel = "Trainee"
)

// AttendantType represents the cabin crew attendant category
type AttendantType string

const (
	AttendantChief   AttendantType = "chief"
	AttendantRegular AttendantType = "regular"
	AttendantChef    AttendantType = "chef"
)

// FlightCrewMember represents a pilot or flight engineer eligible for
// rostering. Records are fetched fresh per flight and treated as
// immutable for the duration of a selection round.
type FlightCrewMember struct {
	ID             int64          `json:"id" db:"id"`
	Name           string         `json:"name" db:"name"`
	Role           CrewRole       `json:"role" db:"role"`
	SeniorityLevel string         `json:"seniority_level" db:"seniority_level"`
	Qualified      bool           `json:"qualified" db:"qualified"`
	Age            int            `json:"age" db:"age"`
	Nationality    string         `json:"nationality" db:"nationality"`
	LicenseNumber  string         `json:"license_number" db:"license_number"`
	Languages      pq.StringArray `json:"languages" db:"languages"`
	SeatNumber     *string        `json:"seat_number,omitempty" db:"seat_number"`
}

// CabinCrewMember represents a cabin attendant eligible for rostering
type CabinCrewMember struct {
	ID            int64          `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	AttendantType string         `json:"attendant_type" db:"attendant_type"`
	Qualified     bool           `json:"qualified" db:"qualified"`
	Age           int            `json:"age" db:"age"`
	Nationality   string         `json:"nationality" db:"nationality"`
	EmployeeID    string         `json:"employee_id" db:"employee_id"`
	Languages     pq.StringArray `json:"languages" db:"languages"`
	Recipes       pq.StringArray `json:"recipes,omitempty" db:"recipes"`
	SeatNumber    *string        `json:"seat_number,omitempty" db:"seat_number"`
}
