package repository

import (
	"context"
	"fmt"

	"movie-booking/internal/data/entity"
	"movie-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SeatRepository reads seats of a showtime and flips their booked flag.
// Every lookup is scoped to the showtime, so seat ids of another showtime
// are simply not returned.
type SeatRepository interface {
	FindByShowtimeID(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Seat, error)
	FindByIDs(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) ([]*entity.Seat, error)

	// LockByIDs is FindByIDs with row locks held until the surrounding
	// transaction ends. Must be called inside Transactor.WithinTx.
	LockByIDs(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) ([]*entity.Seat, error)

	// MarkBooked sets is_booked on the still unbooked seats and returns how many rows changed.
	MarkBooked(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) (int64, error)
}

type seatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatRepository(db database.PgxIface, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

func (r *seatRepository) FindByShowtimeID(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Seat, error) {
	query := `
		SELECT id, showtime_id, seat_row, seat_number, is_booked
		FROM seats
		WHERE showtime_id = $1
		ORDER BY seat_row, seat_number
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, showtimeID)
	if err != nil {
		r.log.Error("Failed to find seats by showtime ID",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return nil, fmt.Errorf("find seats by showtime ID %s: %w", showtimeID, err)
	}

	return r.scanSeats(rows)
}

func (r *seatRepository) FindByIDs(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) ([]*entity.Seat, error) {
	if len(seatIDs) == 0 {
		return []*entity.Seat{}, nil
	}

	query := `
		SELECT id, showtime_id, seat_row, seat_number, is_booked
		FROM seats
		WHERE showtime_id = $1 AND id = ANY($2)
		ORDER BY seat_row, seat_number
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, showtimeID, seatIDs)
	if err != nil {
		r.log.Error("Failed to find seats by IDs",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
			zap.Int("seat_count", len(seatIDs)),
		)
		return nil, fmt.Errorf("find seats for showtime %s: %w", showtimeID, err)
	}

	return r.scanSeats(rows)
}

func (r *seatRepository) LockByIDs(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) ([]*entity.Seat, error) {
	if len(seatIDs) == 0 {
		return []*entity.Seat{}, nil
	}

	// Lock in primary key order so overlapping bookings queue instead of deadlocking.
	query := `
		SELECT id, showtime_id, seat_row, seat_number, is_booked
		FROM seats
		WHERE showtime_id = $1 AND id = ANY($2)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, showtimeID, seatIDs)
	if err != nil {
		r.log.Warn("Failed to lock seats",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
			zap.Int("seat_count", len(seatIDs)),
		)
		return nil, fmt.Errorf("lock seats for showtime %s: %w", showtimeID, err)
	}

	return r.scanSeats(rows)
}

func (r *seatRepository) MarkBooked(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) (int64, error) {
	if len(seatIDs) == 0 {
		return 0, nil
	}

	query := `
		UPDATE seats
		SET is_booked = TRUE
		WHERE showtime_id = $1 AND id = ANY($2) AND is_booked = FALSE
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, showtimeID, seatIDs)
	if err != nil {
		r.log.Error("Failed to mark seats booked",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
			zap.Int("seat_count", len(seatIDs)),
		)
		return 0, fmt.Errorf("mark seats booked for showtime %s: %w", showtimeID, err)
	}

	return result.RowsAffected(), nil
}

func (r *seatRepository) scanSeats(rows pgx.Rows) ([]*entity.Seat, error) {
	defer rows.Close()

	seats := make([]*entity.Seat, 0)
	for rows.Next() {
		var seat entity.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.ShowtimeID,
			&seat.SeatRow,
			&seat.SeatNumber,
			&seat.IsBooked,
		)
		if err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("scan seat row: %w", err)
		}
		seats = append(seats, &seat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seats: %w", err)
	}

	return seats, nil
}
