package usecase

import (
	"context"
	"fmt"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Availability is the result of checking a seat set against a showtime.
// ConflictingSeatIDs keeps the order of the request.
type Availability struct {
	Available          bool
	ConflictingSeatIDs []uuid.UUID
}

type seatChecker struct {
	showtimes repository.ShowtimeRepository
	seats     repository.SeatRepository
	log       *zap.Logger
}

func newSeatChecker(repo *repository.Repository, log *zap.Logger) *seatChecker {
	return &seatChecker{
		showtimes: repo.Showtime,
		seats:     repo.Seat,
		log:       log,
	}
}

// check loads the showtime and the requested seats. With lock set the seat
// rows are locked on the transaction carried by ctx.
func (c *seatChecker) check(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, lock bool) (*Availability, *entity.Showtime, error) {
	if len(seatIDs) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one seat is required", ErrValidation)
	}
	if dup, ok := firstDuplicate(seatIDs); ok {
		return nil, nil, fmt.Errorf("%w: seat %s requested twice", ErrValidation, dup)
	}

	showtime, err := c.showtimes.FindByID(ctx, showtimeID)
	if err != nil {
		return nil, nil, err
	}
	if showtime == nil {
		return nil, nil, fmt.Errorf("showtime %s: %w", showtimeID, ErrNotFound)
	}

	var seats []*entity.Seat
	if lock {
		seats, err = c.seats.LockByIDs(ctx, showtimeID, seatIDs)
	} else {
		seats, err = c.seats.FindByIDs(ctx, showtimeID, seatIDs)
	}
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[uuid.UUID]*entity.Seat, len(seats))
	for _, seat := range seats {
		byID[seat.ID] = seat
	}

	result := &Availability{Available: true}
	for _, id := range seatIDs {
		seat, ok := byID[id]
		if !ok {
			c.log.Warn("Seat does not belong to showtime",
				zap.String("seat_id", id.String()),
				zap.String("showtime_id", showtimeID.String()),
			)
			return nil, nil, fmt.Errorf("%w: seat %s does not belong to showtime %s", ErrValidation, id, showtimeID)
		}
		if seat.IsBooked {
			result.Available = false
			result.ConflictingSeatIDs = append(result.ConflictingSeatIDs, id)
		}
	}

	return result, showtime, nil
}

func firstDuplicate(ids []uuid.UUID) (uuid.UUID, bool) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return uuid.Nil, false
}
