package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/request"
	"movie-booking/internal/dto/response"
	"movie-booking/pkg/database"
	"movie-booking/pkg/metrics"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// CheckAvailability is the read-only seat check, without locks.
	CheckAvailability(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) (*Availability, error)
}

type bookingService struct {
	repo    *repository.Repository
	checker *seatChecker
	log     *zap.Logger
	now     func() time.Time
}

func NewBookingService(repo *repository.Repository, log *zap.Logger) BookingService {
	log = log.With(zap.String("service", "booking"))
	return &bookingService{
		repo:    repo,
		checker: newSeatChecker(repo, log),
		log:     log,
		now:     time.Now,
	}
}

func (s *bookingService) CheckAvailability(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) (*Availability, error) {
	result, _, err := s.checker.check(ctx, showtimeID, seatIDs, false)
	if err != nil {
		return nil, classifyStorageError(err)
	}
	return result, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	booking, err := s.createBooking(ctx, userID, req)
	metrics.ObserveBooking(bookingOutcome(err))

	if err != nil {
		s.logFailure(err, userID, req)
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("showtime_id", booking.ShowtimeID.String()),
		zap.Int("seat_count", len(booking.SeatIDs)),
		zap.Int64("total_amount", booking.TotalAmount),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) createBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*entity.Booking, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	showtimeID, err := uuid.Parse(req.ShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid showtime ID %q", ErrValidation, req.ShowtimeID)
	}

	seatIDs, err := utils.ParseUUIDs(req.SeatIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid seat ID: %v", ErrValidation, err)
	}

	var booking *entity.Booking
	start := time.Now()
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		availability, showtime, err := s.checker.check(ctx, showtimeID, seatIDs, true)
		if err != nil {
			return err
		}
		if !availability.Available {
			return &SeatConflictError{SeatIDs: availability.ConflictingSeatIDs}
		}

		total, err := ComputeTotal(showtime, len(seatIDs))
		if err != nil {
			return err
		}

		booking = &entity.Booking{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: s.now(),
			},
			UserID:      userID,
			ShowtimeID:  showtimeID,
			SeatID:      seatIDs[0],
			TotalAmount: total,
			Status:      entity.BookingStatusConfirmed,
			SeatIDs:     seatIDs,
		}

		if err := s.repo.Booking.Create(ctx, booking); err != nil {
			return err
		}

		if err := s.repo.BookingSeat.CreateBatch(ctx, booking.ID, seatIDs); err != nil {
			return err
		}

		marked, err := s.repo.Seat.MarkBooked(ctx, showtimeID, seatIDs)
		if err != nil {
			return err
		}
		if marked != int64(len(seatIDs)) {
			return fmt.Errorf("%w: marked %d of %d seats booked", ErrStorage, marked, len(seatIDs))
		}

		return nil
	})
	metrics.ObserveBookingTx(time.Since(start))
	if err != nil {
		return nil, classifyStorageError(err)
	}

	return booking, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		s.log.Error("Failed to get user bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("page", req.Page),
			zap.Int("per_page", limit),
		)
		return nil, fmt.Errorf("%w: get user bookings: %w", ErrStorage, err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Error(err))
		return nil, fmt.Errorf("%w: count user bookings: %w", ErrStorage, err)
	}

	ids := make([]uuid.UUID, len(bookings))
	for i, booking := range bookings {
		ids[i] = booking.ID
	}

	seatsByBooking, err := s.repo.BookingSeat.FindSeatIDsByBookingIDs(ctx, ids)
	if err != nil {
		s.log.Error("Failed to load booking seats", zap.Error(err))
		return nil, fmt.Errorf("%w: load booking seats: %w", ErrStorage, err)
	}

	data := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		booking.SeatIDs = seatsByBooking[booking.ID]
		data[i] = response.BookingToResponse(booking)
	}

	s.log.Debug("User bookings retrieved",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(bookings)),
		zap.Int64("total", total),
	)

	return response.NewPaginatedResponse(data, req.Page, limit, total), nil
}

func (s *bookingService) logFailure(err error, userID uuid.UUID, req *request.CreateBookingRequest) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("user_id", userID.String()),
		zap.String("showtime_id", req.ShowtimeID),
		zap.Int("seat_count", len(req.SeatIDs)),
	}

	switch {
	case errors.Is(err, ErrStorage):
		s.log.Error("Booking failed", fields...)
	default:
		s.log.Warn("Booking rejected", fields...)
	}
}

// classifyStorageError keeps domain errors as they are and maps raw
// database errors to ErrTimeout or ErrStorage. Lock waits and deadlock or
// serialization aborts are transient and become ErrTimeout.
func classifyStorageError(err error) error {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrStorage),
		errors.Is(err, ErrTimeout):
		return err
	case database.IsLockTimeout(err), database.IsSerializationFailure(err):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
}

func bookingOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeConfirmed
	case errors.Is(err, ErrConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, ErrValidation):
		return metrics.OutcomeInvalid
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrTimeout):
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeError
	}
}
