package adaptor

import (
	"errors"
	"net/http"

	"movie-booking/internal/usecase"
	"movie-booking/pkg/utils"

	"go.uber.org/zap"
)

// writeServiceError maps usecase errors to response statuses.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var conflict *usecase.SeatConflictError

	switch {
	case errors.As(err, &conflict):
		log.Info(operation+" failed - seats already booked",
			zap.Error(err),
			zap.String("operation", operation))
		ids := make([]string, len(conflict.SeatIDs))
		for i, id := range conflict.SeatIDs {
			ids[i] = id.String()
		}
		utils.ResponseConflict(w, "One or more seats are already booked",
			map[string][]string{"conflicting_seat_ids": ids})

	case errors.Is(err, usecase.ErrConflict), errors.Is(err, usecase.ErrUsernameTaken):
		log.Info(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidCredentials), errors.Is(err, usecase.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, "Invalid credentials or session")

	case errors.Is(err, usecase.ErrTimeout):
		log.Warn(operation+" timed out",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseServiceUnavailable(w, "Seats are busy, please retry")

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
