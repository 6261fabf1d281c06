package request

type CreateBookingRequest struct {
	ShowtimeID string   `json:"showtime_id" validate:"required,uuid"`
	SeatIDs    []string `json:"seat_ids" validate:"required,min=1,unique,dive,uuid"`
}

type AvailabilityRequest struct {
	ShowtimeID string   `validate:"required,uuid"`
	SeatIDs    []string `validate:"required,min=1,unique,dive,uuid"`
}
