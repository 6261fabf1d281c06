package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("seat already booked")
	ErrStorage    = errors.New("storage failure")
	ErrTimeout    = errors.New("timed out waiting for seat locks")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUnauthorized       = errors.New("unauthorized")
)

// SeatConflictError names the requested seats that were already booked.
// It matches ErrConflict under errors.Is.
type SeatConflictError struct {
	SeatIDs []uuid.UUID
}

func (e *SeatConflictError) Error() string {
	ids := make([]string, len(e.SeatIDs))
	for i, id := range e.SeatIDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("%s: %s", ErrConflict, strings.Join(ids, ", "))
}

func (e *SeatConflictError) Is(target error) bool {
	return target == ErrConflict
}
