package usecase

import (
	"fmt"
	"math"

	"movie-booking/internal/data/entity"
)

// ComputeTotal returns showtime.Price * seatCount in minor currency units.
func ComputeTotal(showtime *entity.Showtime, seatCount int) (int64, error) {
	if showtime == nil {
		return 0, fmt.Errorf("%w: showtime is required", ErrValidation)
	}
	if showtime.Price < 0 {
		return 0, fmt.Errorf("%w: negative price %d", ErrValidation, showtime.Price)
	}
	if seatCount < 0 {
		return 0, fmt.Errorf("%w: negative seat count %d", ErrValidation, seatCount)
	}

	count := int64(seatCount)
	if showtime.Price > 0 && count > math.MaxInt64/showtime.Price {
		return 0, fmt.Errorf("%w: total for %d seats at %d overflows", ErrValidation, seatCount, showtime.Price)
	}

	return showtime.Price * count, nil
}
