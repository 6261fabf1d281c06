package response

import (
	"time"

	"movie-booking/internal/data/entity"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID          string               `json:"id"`
	UserID      string               `json:"user_id"`
	ShowtimeID  string               `json:"showtime_id"`
	SeatID      string               `json:"seat_id"`
	SeatIDs     []string             `json:"seat_ids"`
	TotalAmount int64                `json:"total_amount"`
	Status      entity.BookingStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
}

// BookingToResponse falls back to the representative seat when the
// booking carries no seat set.
func BookingToResponse(booking *entity.Booking) BookingResponse {
	seatIDs := booking.SeatIDs
	if len(seatIDs) == 0 && booking.SeatID != uuid.Nil {
		seatIDs = []uuid.UUID{booking.SeatID}
	}

	ids := make([]string, len(seatIDs))
	for i, id := range seatIDs {
		ids[i] = id.String()
	}

	return BookingResponse{
		ID:          booking.ID.String(),
		UserID:      booking.UserID.String(),
		ShowtimeID:  booking.ShowtimeID.String(),
		SeatID:      booking.SeatID.String(),
		SeatIDs:     ids,
		TotalAmount: booking.TotalAmount,
		Status:      booking.Status,
		CreatedAt:   booking.CreatedAt,
	}
}
