package entity

import (
	"time"

	"github.com/google/uuid"
)

type Showtime struct {
	ID        uuid.UUID `db:"id"`
	MovieID   uuid.UUID `db:"movie_id"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	Price     int64     `db:"price"` // minor currency units
}
