package entity

import (
	"time"

	"github.com/google/uuid"
)

type Movie struct {
	ID                uuid.UUID `db:"id"`
	Title             string    `db:"title"`
	Description       string    `db:"description"`
	DurationInMinutes int       `db:"duration_in_minutes"`
	PosterURL         string    `db:"poster_url"`
	ReleaseDate       time.Time `db:"release_date"`
}
