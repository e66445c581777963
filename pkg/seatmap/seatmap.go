// Package seatmap provides pure seat-grid math for aircraft seating plans:
// deterministic seat-label generation, label parsing, fare-class
// classification and crew pseudo-labels. All functions are total; malformed
// plans degrade to an empty grid instead of failing.
package seatmap

import (
	"fmt"
	"strconv"
	"strings"
)

// columnAlphabet is the fixed ordered column alphabet. Plans wider than
// eleven seats per row are not supported by any airframe we roster.
const columnAlphabet = "ABCDEFGHIJK"

// Fare classes derived from the business/economy row split.
const (
	ClassBusiness = "Business"
	ClassEconomy  = "Economy"
)

// Plan describes an aircraft seating plan as supplied by the vehicle type.
type Plan struct {
	Rows        int `json:"rows" db:"seat_rows"`
	SeatsPerRow int `json:"seats_per_row" db:"seats_per_row"`
	Business    int `json:"business" db:"business_seats"`
	Economy     int `json:"economy" db:"economy_seats"`
}

// Seat is one cell of the rendered grid.
type Seat struct {
	Label string `json:"label"`
	Class string `json:"class"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
}

// RowCount returns the number of passenger rows in the plan. Negative row
// counts are treated as an empty plan.
func RowCount(p Plan) int {
	if p.Rows < 0 || p.SeatsPerRow <= 0 {
		return 0
	}
	return p.Rows
}

// SeatsPerRow returns the usable column count, capped at the column
// alphabet length.
func SeatsPerRow(p Plan) int {
	if p.SeatsPerRow <= 0 {
		return 0
	}
	if p.SeatsPerRow > len(columnAlphabet) {
		return len(columnAlphabet)
	}
	return p.SeatsPerRow
}

// BusinessRowCount returns the number of leading rows classified as
// business: the business seat quota divided by seats-per-row, rounded up.
func BusinessRowCount(p Plan) int {
	cols := SeatsPerRow(p)
	if cols == 0 || p.Business <= 0 {
		return 0
	}
	return (p.Business + cols - 1) / cols
}

// EconomyRowCount returns the remaining rows after the business block.
func EconomyRowCount(p Plan) int {
	n := RowCount(p) - BusinessRowCount(p)
	if n < 0 {
		return 0
	}
	return n
}

// Label returns the seat label for a 1-based row and 0-based column index,
// e.g. Label(12, 0) == "12A". Out-of-alphabet columns return "".
func Label(row, col int) string {
	if row < 1 || col < 0 || col >= len(columnAlphabet) {
		return ""
	}
	return strconv.Itoa(row) + string(columnAlphabet[col])
}

// Class reports the fare class of a row under the plan's row split.
func Class(row int, p Plan) string {
	if row <= BusinessRowCount(p) {
		return ClassBusiness
	}
	return ClassEconomy
}

// Parse splits a passenger seat label into its 1-based row and 0-based
// column index and checks both against the plan's grid. Crew pseudo-labels
// and labels outside the grid report ok == false.
func Parse(label string, p Plan) (row, col int, ok bool) {
	if len(label) < 2 {
		return 0, 0, false
	}
	letter := label[len(label)-1]
	col = strings.IndexByte(columnAlphabet, letter)
	if col < 0 || col >= SeatsPerRow(p) {
		return 0, 0, false
	}
	row, err := strconv.Atoi(label[:len(label)-1])
	if err != nil || row < 1 || row > RowCount(p) {
		return 0, 0, false
	}
	return row, col, true
}

// IsCrewLabel reports whether a label belongs to the crew pseudo-label
// scheme (FC<n>, CC<n>, COCKPIT-L, ...) rather than the numeric-row
// passenger scheme.
func IsCrewLabel(label string) bool {
	if label == "" {
		return false
	}
	return label[0] < '0' || label[0] > '9'
}

// FlightCrewLabel returns the auto-generated pseudo-label for the flight
// crew member at the given 1-based list position. Labels are positional,
// not id-stable: if the crew list reorders, labels move with the position.
func FlightCrewLabel(position int) string {
	return fmt.Sprintf("FC%d", position)
}

// CabinCrewLabel is the cabin-crew counterpart of FlightCrewLabel.
func CabinCrewLabel(position int) string {
	return fmt.Sprintf("CC%d", position)
}

// Grid renders the full seat grid for the plan, row by row. A malformed
// plan (zero or negative dimensions) yields an empty grid.
func Grid(p Plan) [][]Seat {
	rows := RowCount(p)
	cols := SeatsPerRow(p)
	if rows == 0 || cols == 0 {
		return nil
	}
	grid := make([][]Seat, 0, rows)
	for row := 1; row <= rows; row++ {
		class := Class(row, p)
		line := make([]Seat, 0, cols)
		for col := 0; col < cols; col++ {
			line = append(line, Seat{
				Label: Label(row, col),
				Class: class,
				Row:   row,
				Col:   col,
			})
		}
		grid = append(grid, line)
	}
	return grid
}
