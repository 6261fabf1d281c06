package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/request"
	"movie-booking/internal/usecase"
	"movie-booking/pkg/database"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"
)

const (
	dbImageName = "postgres:16-alpine"
	dbName      = "movie_booking"
	dbUser      = "test_user"
	dbPassword  = "test_password"
)

type PostgresSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        database.PgxIface
	repo      *repository.Repository
	bookings  usecase.BookingService
	userID    uuid.UUID
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx, dbImageName,
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		s.T().Skipf("postgres container unavailable: %v", err)
	}
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.Require().NoError(database.Migrate(dsn))

	s.db, err = database.InitDB(ctx, utils.DatabaseConfig{URL: dsn, MaxConns: 20, ConnectRetries: 3}, zap.NewNop())
	s.Require().NoError(err)

	s.repo = repository.NewRepository(s.db, 2*time.Second, zap.NewNop())
	s.bookings = usecase.NewBookingService(s.repo, zap.NewNop())

	s.userID = uuid.New()
	s.Require().NoError(s.repo.User.Create(ctx, &entity.User{
		BaseSimple:   entity.BaseSimple{ID: s.userID, CreatedAt: time.Now()},
		Username:     "integration",
		PasswordHash: "x",
	}))
}

func (s *PostgresSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		if err := testcontainers.TerminateContainer(s.container); err != nil {
			s.T().Logf("failed to terminate container: %v", err)
		}
	}
}

// showtimeSeats picks the nth seeded showtime of the first movie.
func (s *PostgresSuite) showtimeSeats(n int) (*entity.Showtime, []*entity.Seat) {
	ctx := context.Background()

	movies, err := s.repo.Movie.FindAll(ctx)
	s.Require().NoError(err)
	s.Require().NotEmpty(movies)

	showtimes, err := s.repo.Showtime.FindByMovieID(ctx, movies[0].ID)
	s.Require().NoError(err)
	s.Require().Greater(len(showtimes), n)

	seats, err := s.repo.Seat.FindByShowtimeID(ctx, showtimes[n].ID)
	s.Require().NoError(err)
	s.Require().Len(seats, 50)

	return showtimes[n], seats
}

func seatRequest(showtimeID uuid.UUID, seats ...*entity.Seat) *request.CreateBookingRequest {
	ids := make([]string, len(seats))
	for i, seat := range seats {
		ids[i] = seat.ID.String()
	}
	return &request.CreateBookingRequest{ShowtimeID: showtimeID.String(), SeatIDs: ids}
}

func (s *PostgresSuite) TestConcurrentOverlappingBookings() {
	showtime, seats := s.showtimeSeats(0)
	shared := seats[0]

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.bookings.CreateBooking(context.Background(), s.userID,
				seatRequest(showtime.ID, shared, seats[i+1]))
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		if err == nil {
			winners++
			continue
		}
		var conflict *usecase.SeatConflictError
		s.Require().True(errors.As(err, &conflict), "attempt %d: %v", i, err)
		s.Equal([]uuid.UUID{shared.ID}, conflict.SeatIDs)
	}
	s.Equal(1, winners)

	after, err := s.repo.Seat.FindByIDs(context.Background(), showtime.ID, []uuid.UUID{shared.ID})
	s.Require().NoError(err)
	s.True(after[0].IsBooked)

	booked := 0
	current, err := s.repo.Seat.FindByShowtimeID(context.Background(), showtime.ID)
	s.Require().NoError(err)
	for _, seat := range current {
		if seat.IsBooked {
			booked++
		}
	}
	s.Equal(2, booked)
}

func (s *PostgresSuite) TestConcurrentDisjointBookings() {
	showtime, seats := s.showtimeSeats(1)

	const attempts = 5
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.bookings.CreateBooking(context.Background(), s.userID,
				seatRequest(showtime.ID, seats[2*i], seats[2*i+1]))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		s.NoError(err)
	}

	ids := make([]uuid.UUID, 2*attempts)
	for i := range ids {
		ids[i] = seats[i].ID
	}
	after, err := s.repo.Seat.FindByIDs(context.Background(), showtime.ID, ids)
	s.Require().NoError(err)
	for _, seat := range after {
		s.True(seat.IsBooked, seat.Label())
	}
}

func (s *PostgresSuite) TestBookingPersistsSeatSet() {
	showtime, seats := s.showtimeSeats(2)

	booking, err := s.bookings.CreateBooking(context.Background(), s.userID,
		seatRequest(showtime.ID, seats[10], seats[11], seats[12]))
	s.Require().NoError(err)
	s.Equal(showtime.Price*3, booking.TotalAmount)

	bookingID := uuid.MustParse(booking.ID)
	stored, err := s.repo.Booking.FindByID(context.Background(), bookingID)
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Equal(seats[10].ID, stored.SeatID)
	s.Equal(entity.BookingStatusConfirmed, stored.Status)

	seatSets, err := s.repo.BookingSeat.FindSeatIDsByBookingIDs(context.Background(), []uuid.UUID{bookingID})
	s.Require().NoError(err)
	s.ElementsMatch([]uuid.UUID{seats[10].ID, seats[11].ID, seats[12].ID}, seatSets[bookingID])

	page, err := s.bookings.GetUserBookings(context.Background(), s.userID, &request.PaginatedRequest{Page: 1, PerPage: 100})
	s.Require().NoError(err)
	s.NotEmpty(page.Data)
}

func (s *PostgresSuite) TestLockTimeoutRollsBack() {
	ctx := context.Background()
	showtime, seats := s.showtimeSeats(2)
	target := seats[40]

	fast := usecase.NewBookingService(repository.NewRepository(s.db, 200*time.Millisecond, zap.NewNop()), zap.NewNop())

	holder, err := s.db.Begin(ctx)
	s.Require().NoError(err)
	defer holder.Rollback(ctx)

	_, err = holder.Exec(ctx, `SELECT id FROM seats WHERE id = $1 FOR UPDATE`, target.ID)
	s.Require().NoError(err)

	_, err = fast.CreateBooking(ctx, s.userID, seatRequest(showtime.ID, seats[41], target))
	s.Require().Error(err)
	s.ErrorIs(err, usecase.ErrTimeout)

	s.Require().NoError(holder.Rollback(ctx))

	after, err := s.repo.Seat.FindByIDs(ctx, showtime.ID, []uuid.UUID{seats[41].ID, target.ID})
	s.Require().NoError(err)
	for _, seat := range after {
		s.False(seat.IsBooked, seat.Label())
	}
}

func (s *PostgresSuite) TestUsersAndSessions() {
	ctx := context.Background()

	user := &entity.User{
		BaseSimple:   entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Username:     "dup",
		PasswordHash: "x",
	}
	s.Require().NoError(s.repo.User.Create(ctx, user))

	clone := *user
	clone.ID = uuid.New()
	s.ErrorIs(s.repo.User.Create(ctx, &clone), repository.ErrDuplicateUsername)

	found, err := s.repo.User.FindByUsername(ctx, "dup")
	s.Require().NoError(err)
	s.Equal(user.ID, found.ID)

	missing, err := s.repo.User.FindByID(ctx, uuid.New())
	s.Require().NoError(err)
	s.Nil(missing)

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:     user.ID,
		Token:      uuid.New(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	s.Require().NoError(s.repo.Session.Create(ctx, session))

	valid, err := s.repo.Session.FindValidSession(ctx, session.Token)
	s.Require().NoError(err)
	s.Require().NotNil(valid)
	s.Equal(user.ID, valid.UserID)

	s.Require().NoError(s.repo.Session.Revoke(ctx, session.Token))
	s.ErrorIs(s.repo.Session.Revoke(ctx, session.Token), repository.ErrSessionNotFound)

	revoked, err := s.repo.Session.FindValidSession(ctx, session.Token)
	s.Require().NoError(err)
	s.Nil(revoked)
}
