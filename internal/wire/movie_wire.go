package wire

import (
	"movie-booking/internal/adaptor"
	"movie-booking/internal/data/repository"
	"movie-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireMovie configures the public catalog routes
func wireMovie(
	r chi.Router,
	movieHandler *adaptor.MovieHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/movies", func(r chi.Router) {
		r.Get("/", movieHandler.GetMovies)
		r.Get("/{movieId}", movieHandler.GetMovieByID)
		r.Get("/{movieId}/showtimes", movieHandler.GetShowtimes)
	})

	r.Route("/api/showtimes/{showtimeId}", func(r chi.Router) {
		r.Get("/seats", movieHandler.GetSeats)
		r.Get("/availability", movieHandler.CheckAvailability)
	})
}
