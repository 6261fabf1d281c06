package repository

import (
	"time"

	"movie-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Tx          database.Transactor
	User        UserRepository
	Session     SessionRepository
	Movie       MovieRepository
	Showtime    ShowtimeRepository
	Seat        SeatRepository
	Booking     BookingRepository
	BookingSeat BookingSeatRepository
}

func NewRepository(db database.PgxIface, lockTimeout time.Duration, log *zap.Logger) *Repository {
	return &Repository{
		Tx:          database.NewTransactor(db, lockTimeout, log),
		User:        NewUserRepository(db, log),
		Session:     NewSessionRepository(db, log),
		Movie:       NewMovieRepository(db, log),
		Showtime:    NewShowtimeRepository(db, log),
		Seat:        NewSeatRepository(db, log),
		Booking:     NewBookingRepository(db, log),
		BookingSeat: NewBookingSeatRepository(db, log),
	}
}
