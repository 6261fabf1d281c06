package entity

import (
	"strconv"

	"github.com/google/uuid"
)

type Seat struct {
	ID         uuid.UUID `db:"id"`
	ShowtimeID uuid.UUID `db:"showtime_id"`
	SeatRow    string    `db:"seat_row"`    // A, B, C, etc.
	SeatNumber int       `db:"seat_number"` // 1, 2, 3, etc.
	IsBooked   bool      `db:"is_booked"`
}

// Label returns the printed seat name, e.g. A7.
func (s Seat) Label() string {
	return s.SeatRow + strconv.Itoa(s.SeatNumber)
}
