package entity

import (
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is one confirmed purchase. SeatID holds the first requested seat;
// the full seat set lives in booking_seats.
type Booking struct {
	BaseSimple
	UserID      uuid.UUID     `db:"user_id"`
	ShowtimeID  uuid.UUID     `db:"showtime_id"`
	SeatID      uuid.UUID     `db:"seat_id"`
	TotalAmount int64         `db:"total_amount"`
	Status      BookingStatus `db:"status"`

	SeatIDs []uuid.UUID `db:"-"`
}
