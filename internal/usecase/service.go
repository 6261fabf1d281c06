package usecase

import (
	"movie-booking/internal/data/cache"
	"movie-booking/internal/data/repository"
	"movie-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Movie   MovieService
	Booking BookingService
}

func NewService(repo *repository.Repository, catalog cache.CatalogCache, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(repo, config, log),
		User:    NewUserService(repo.User, log),
		Movie:   NewMovieService(repo, catalog, log),
		Booking: NewBookingService(repo, log),
	}
}
