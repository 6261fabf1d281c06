package adaptor

import (
	"net/http"

	"movie-booking/internal/dto/request"
	"movie-booking/internal/dto/response"
	"movie-booking/internal/usecase"
	"movie-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MovieHandler serves the catalog routes and seat availability.
type MovieHandler struct {
	service  usecase.MovieService
	bookings usecase.BookingService
	log      *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, bookings usecase.BookingService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service:  service,
		bookings: bookings,
		log:      log.With(zap.String("handler", "movie")),
	}
}

// GetMovies handles GET /api/movies
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.GetMovies(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "get movies")
		return
	}

	utils.ResponseSuccess(w, "success", movies)
}

// GetMovieByID handles GET /api/movies/{movieId}
func (h *MovieHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.pathUUID(w, r, "movieId")
	if !ok {
		return
	}

	movie, err := h.service.GetMovieByID(r.Context(), movieID)
	if err != nil {
		h.handleServiceError(w, err, "get movie")
		return
	}

	utils.ResponseSuccess(w, "success", movie)
}

// GetShowtimes handles GET /api/movies/{movieId}/showtimes
func (h *MovieHandler) GetShowtimes(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.pathUUID(w, r, "movieId")
	if !ok {
		return
	}

	showtimes, err := h.service.GetShowtimes(r.Context(), movieID)
	if err != nil {
		h.handleServiceError(w, err, "get showtimes")
		return
	}

	utils.ResponseSuccess(w, "success", showtimes)
}

// GetSeats handles GET /api/showtimes/{showtimeId}/seats
func (h *MovieHandler) GetSeats(w http.ResponseWriter, r *http.Request) {
	showtimeID, ok := h.pathUUID(w, r, "showtimeId")
	if !ok {
		return
	}

	seats, err := h.service.GetSeats(r.Context(), showtimeID)
	if err != nil {
		h.handleServiceError(w, err, "get seats")
		return
	}

	utils.ResponseSuccess(w, "success", seats)
}

// CheckAvailability handles GET /api/showtimes/{showtimeId}/availability?seat_ids=a,b
func (h *MovieHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	req := request.AvailabilityRequest{
		ShowtimeID: chi.URLParam(r, "showtimeId"),
		SeatIDs:    utils.SplitCSV(r.URL.Query().Get("seat_ids")),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	showtimeID, err := uuid.Parse(req.ShowtimeID)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid showtimeId", nil)
		return
	}

	seatIDs, err := utils.ParseUUIDs(req.SeatIDs)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid seat ID", nil)
		return
	}

	availability, err := h.bookings.CheckAvailability(r.Context(), showtimeID, seatIDs)
	if err != nil {
		h.handleServiceError(w, err, "check availability")
		return
	}

	conflicting := make([]string, len(availability.ConflictingSeatIDs))
	for i, id := range availability.ConflictingSeatIDs {
		conflicting[i] = id.String()
	}

	utils.ResponseSuccess(w, "success", response.AvailabilityResponse{
		ShowtimeID:         showtimeID.String(),
		Available:          availability.Available,
		ConflictingSeatIDs: conflicting,
	})
}

func (h *MovieHandler) pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+param, nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *MovieHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	writeServiceError(w, h.log, err, operation)
}
