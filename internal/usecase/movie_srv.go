package usecase

import (
	"context"
	"fmt"

	"movie-booking/internal/data/cache"
	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MovieService serves the read-only catalog. Movies and showtimes go
// through the catalog cache; seats are always read from the database.
type MovieService interface {
	GetMovies(ctx context.Context) ([]response.MovieResponse, error)
	GetMovieByID(ctx context.Context, movieID uuid.UUID) (*response.MovieResponse, error)
	GetShowtimes(ctx context.Context, movieID uuid.UUID) ([]response.ShowtimeResponse, error)
	GetSeats(ctx context.Context, showtimeID uuid.UUID) ([]response.SeatResponse, error)
}

type movieService struct {
	repo  *repository.Repository
	cache cache.CatalogCache
	log   *zap.Logger
}

func NewMovieService(repo *repository.Repository, catalog cache.CatalogCache, log *zap.Logger) MovieService {
	if catalog == nil {
		catalog = cache.NoopCatalog{}
	}

	return &movieService{
		repo:  repo,
		cache: catalog,
		log:   log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) GetMovies(ctx context.Context) ([]response.MovieResponse, error) {
	movies, err := s.loadMovies(ctx)
	if err != nil {
		return nil, err
	}

	data := make([]response.MovieResponse, len(movies))
	for i, movie := range movies {
		data[i] = response.MovieToResponse(movie)
	}

	return data, nil
}

func (s *movieService) GetMovieByID(ctx context.Context, movieID uuid.UUID) (*response.MovieResponse, error) {
	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) GetShowtimes(ctx context.Context, movieID uuid.UUID) ([]response.ShowtimeResponse, error) {
	showtimes, hit, err := s.cache.GetShowtimes(ctx, movieID)
	if err != nil {
		s.log.Warn("Catalog cache read failed", zap.Error(err), zap.String("movie_id", movieID.String()))
	}

	if !hit {
		if _, err := s.findMovie(ctx, movieID); err != nil {
			return nil, err
		}

		showtimes, err = s.repo.Showtime.FindByMovieID(ctx, movieID)
		if err != nil {
			s.log.Error("Failed to get showtimes", zap.Error(err), zap.String("movie_id", movieID.String()))
			return nil, fmt.Errorf("%w: get showtimes: %w", ErrStorage, err)
		}

		if err := s.cache.SetShowtimes(ctx, movieID, showtimes); err != nil {
			s.log.Warn("Catalog cache write failed", zap.Error(err), zap.String("movie_id", movieID.String()))
		}
	}

	data := make([]response.ShowtimeResponse, len(showtimes))
	for i, showtime := range showtimes {
		data[i] = response.ShowtimeToResponse(showtime)
	}

	return data, nil
}

func (s *movieService) GetSeats(ctx context.Context, showtimeID uuid.UUID) ([]response.SeatResponse, error) {
	showtime, err := s.repo.Showtime.FindByID(ctx, showtimeID)
	if err != nil {
		s.log.Error("Failed to get showtime", zap.Error(err), zap.String("showtime_id", showtimeID.String()))
		return nil, fmt.Errorf("%w: get showtime: %w", ErrStorage, err)
	}
	if showtime == nil {
		return nil, fmt.Errorf("showtime %s: %w", showtimeID, ErrNotFound)
	}

	seats, err := s.repo.Seat.FindByShowtimeID(ctx, showtimeID)
	if err != nil {
		s.log.Error("Failed to get seats", zap.Error(err), zap.String("showtime_id", showtimeID.String()))
		return nil, fmt.Errorf("%w: get seats: %w", ErrStorage, err)
	}

	data := make([]response.SeatResponse, len(seats))
	for i, seat := range seats {
		data[i] = response.SeatToResponse(seat)
	}

	return data, nil
}

func (s *movieService) loadMovies(ctx context.Context) ([]*entity.Movie, error) {
	movies, hit, err := s.cache.GetMovies(ctx)
	if err != nil {
		s.log.Warn("Catalog cache read failed", zap.Error(err))
	}
	if hit {
		return movies, nil
	}

	movies, err = s.repo.Movie.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to get movies", zap.Error(err))
		return nil, fmt.Errorf("%w: get movies: %w", ErrStorage, err)
	}

	if err := s.cache.SetMovies(ctx, movies); err != nil {
		s.log.Warn("Catalog cache write failed", zap.Error(err))
	}

	return movies, nil
}

func (s *movieService) findMovie(ctx context.Context, movieID uuid.UUID) (*entity.Movie, error) {
	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to get movie", zap.Error(err), zap.String("movie_id", movieID.String()))
		return nil, fmt.Errorf("%w: get movie: %w", ErrStorage, err)
	}
	if movie == nil {
		return nil, fmt.Errorf("movie %s: %w", movieID, ErrNotFound)
	}
	return movie, nil
}
