package repository

import (
	"context"
	"fmt"

	"movie-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingSeatRepository interface {
	CreateBatch(ctx context.Context, bookingID uuid.UUID, seatIDs []uuid.UUID) error
	FindSeatIDsByBookingIDs(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
}

type bookingSeatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingSeatRepository(db database.PgxIface, log *zap.Logger) BookingSeatRepository {
	return &bookingSeatRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking_seat")),
	}
}

func (r *bookingSeatRepository) CreateBatch(ctx context.Context, bookingID uuid.UUID, seatIDs []uuid.UUID) error {
	if len(seatIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO booking_seats (booking_id, seat_id)
		SELECT $1, seat_id FROM unnest($2::uuid[]) AS seat_id
	`

	if _, err := database.Conn(ctx, r.db).Exec(ctx, query, bookingID, seatIDs); err != nil {
		r.log.Error("Failed to create booking seats",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.Int("seat_count", len(seatIDs)),
		)
		return fmt.Errorf("create booking seats for booking %s: %w", bookingID, err)
	}

	return nil
}

func (r *bookingSeatRepository) FindSeatIDsByBookingIDs(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	result := make(map[uuid.UUID][]uuid.UUID, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT bs.booking_id, bs.seat_id
		FROM booking_seats bs
		JOIN seats s ON s.id = bs.seat_id
		WHERE bs.booking_id = ANY($1)
		ORDER BY s.seat_row, s.seat_number
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, bookingIDs)
	if err != nil {
		r.log.Error("Failed to find booking seats", zap.Error(err), zap.Int("booking_count", len(bookingIDs)))
		return nil, fmt.Errorf("find booking seats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookingID, seatID uuid.UUID
		if err := rows.Scan(&bookingID, &seatID); err != nil {
			r.log.Error("Failed to scan booking seat row", zap.Error(err))
			return nil, fmt.Errorf("scan booking seat row: %w", err)
		}
		result[bookingID] = append(result[bookingID], seatID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking seats: %w", err)
	}

	return result, nil
}
