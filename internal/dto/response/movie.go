package response

import (
	"time"

	"movie-booking/internal/data/entity"
)

type MovieResponse struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	DurationInMinutes int    `json:"duration_in_minutes"`
	PosterURL         string `json:"poster_url"`
	ReleaseDate       string `json:"release_date"`
}

type ShowtimeResponse struct {
	ID        string    `json:"id"`
	MovieID   string    `json:"movie_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Price     int64     `json:"price"`
}

type SeatResponse struct {
	ID         string `json:"id"`
	ShowtimeID string `json:"showtime_id"`
	SeatRow    string `json:"seat_row"`
	SeatNumber int    `json:"seat_number"`
	Label      string `json:"label"`
	IsBooked   bool   `json:"is_booked"`
}

type AvailabilityResponse struct {
	ShowtimeID         string   `json:"showtime_id"`
	Available          bool     `json:"available"`
	ConflictingSeatIDs []string `json:"conflicting_seat_ids"`
}

// Helper converters
func MovieToResponse(movie *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:                movie.ID.String(),
		Title:             movie.Title,
		Description:       movie.Description,
		DurationInMinutes: movie.DurationInMinutes,
		PosterURL:         movie.PosterURL,
		ReleaseDate:       movie.ReleaseDate.Format("2006-01-02"),
	}
}

func ShowtimeToResponse(showtime *entity.Showtime) ShowtimeResponse {
	return ShowtimeResponse{
		ID:        showtime.ID.String(),
		MovieID:   showtime.MovieID.String(),
		StartTime: showtime.StartTime,
		EndTime:   showtime.EndTime,
		Price:     showtime.Price,
	}
}

func SeatToResponse(seat *entity.Seat) SeatResponse {
	return SeatResponse{
		ID:         seat.ID.String(),
		ShowtimeID: seat.ShowtimeID.String(),
		SeatRow:    seat.SeatRow,
		SeatNumber: seat.SeatNumber,
		Label:      seat.Label(),
		IsBooked:   seat.IsBooked,
	}
}
