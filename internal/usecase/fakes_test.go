package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memStore backs every fake repository. Transactions are serialized by
// txMu and roll back by restoring a snapshot.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	movies       map[uuid.UUID]*entity.Movie
	showtimes    map[uuid.UUID]*entity.Showtime
	seats        map[uuid.UUID]*entity.Seat
	bookings     []*entity.Booking
	bookingSeats map[uuid.UUID][]uuid.UUID
	users        map[uuid.UUID]*entity.User
	sessions     map[uuid.UUID]*entity.Session

	txCount       int
	movieFindAll  int
	lockErr       error
	markErr       error
	markShortBy   int64
	createBookErr error
}

func newMemStore() *memStore {
	return &memStore{
		movies:       make(map[uuid.UUID]*entity.Movie),
		showtimes:    make(map[uuid.UUID]*entity.Showtime),
		seats:        make(map[uuid.UUID]*entity.Seat),
		bookingSeats: make(map[uuid.UUID][]uuid.UUID),
		users:        make(map[uuid.UUID]*entity.User),
		sessions:     make(map[uuid.UUID]*entity.Session),
	}
}

func (s *memStore) repository() *repository.Repository {
	return &repository.Repository{
		Tx:          &memTx{store: s},
		User:        &memUsers{s},
		Session:     &memSessions{s},
		Movie:       &memMovies{s},
		Showtime:    &memShowtimes{s},
		Seat:        &memSeats{s},
		Booking:     &memBookings{s},
		BookingSeat: &memBookingSeats{s},
	}
}

type snapshot struct {
	seats        map[uuid.UUID]entity.Seat
	bookings     []*entity.Booking
	bookingSeats map[uuid.UUID][]uuid.UUID
}

func (s *memStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		seats:        make(map[uuid.UUID]entity.Seat, len(s.seats)),
		bookings:     append([]*entity.Booking(nil), s.bookings...),
		bookingSeats: make(map[uuid.UUID][]uuid.UUID, len(s.bookingSeats)),
	}
	for id, seat := range s.seats {
		snap.seats[id] = *seat
	}
	for id, seats := range s.bookingSeats {
		snap.bookingSeats[id] = seats
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, seat := range snap.seats {
		seat := seat
		s.seats[id] = &seat
	}
	s.bookings = snap.bookings
	s.bookingSeats = snap.bookingSeats
}

func (s *memStore) addShowtime(t *testing.T, price int64, labels ...string) (*entity.Showtime, map[string]uuid.UUID) {
	t.Helper()

	s.mu.Lock()
	defer s.mu.Unlock()

	movie := &entity.Movie{ID: uuid.New(), Title: "Quiet Harbor", DurationInMinutes: 97}
	s.movies[movie.ID] = movie

	start := time.Date(2026, 10, 20, 19, 0, 0, 0, time.UTC)
	showtime := &entity.Showtime{
		ID:        uuid.New(),
		MovieID:   movie.ID,
		StartTime: start,
		EndTime:   start.Add(97 * time.Minute),
		Price:     price,
	}
	s.showtimes[showtime.ID] = showtime

	ids := make(map[string]uuid.UUID, len(labels))
	for _, label := range labels {
		seat := &entity.Seat{
			ID:         uuid.New(),
			ShowtimeID: showtime.ID,
			SeatRow:    label[:1],
			SeatNumber: int(label[1] - '0'),
		}
		s.seats[seat.ID] = seat
		ids[label] = seat.ID
	}

	return showtime, ids
}

func (s *memStore) isBooked(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seats[id].IsBooked
}

func (s *memStore) bookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *memStore) bookingSeatCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, seats := range s.bookingSeats {
		n += len(seats)
	}
	return n
}

type inTxKey struct{}

type memTx struct {
	store *memStore
}

func (m *memTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(inTxKey{}) != nil {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	m.store.mu.Lock()
	m.store.txCount++
	m.store.mu.Unlock()

	snap := m.store.snapshot()
	if err := fn(context.WithValue(ctx, inTxKey{}, true)); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

type memMovies struct{ s *memStore }

func (r *memMovies) FindAll(ctx context.Context) ([]*entity.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.movieFindAll++
	movies := make([]*entity.Movie, 0, len(r.s.movies))
	for _, movie := range r.s.movies {
		m := *movie
		movies = append(movies, &m)
	}
	sort.Slice(movies, func(i, j int) bool { return movies[i].Title < movies[j].Title })
	return movies, nil
}

func (r *memMovies) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	movie, ok := r.s.movies[id]
	if !ok {
		return nil, nil
	}
	m := *movie
	return &m, nil
}

type memShowtimes struct{ s *memStore }

func (r *memShowtimes) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	showtime, ok := r.s.showtimes[id]
	if !ok {
		return nil, nil
	}
	st := *showtime
	return &st, nil
}

func (r *memShowtimes) FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]*entity.Showtime, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	showtimes := make([]*entity.Showtime, 0)
	for _, showtime := range r.s.showtimes {
		if showtime.MovieID == movieID {
			st := *showtime
			showtimes = append(showtimes, &st)
		}
	}
	sort.Slice(showtimes, func(i, j int) bool { return showtimes[i].StartTime.Before(showtimes[j].StartTime) })
	return showtimes, nil
}

type memSeats struct{ s *memStore }

func (r *memSeats) FindByShowtimeID(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Seat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seats := make([]*entity.Seat, 0)
	for _, seat := range r.s.seats {
		if seat.ShowtimeID == showtimeID {
			st := *seat
			seats = append(seats, &st)
		}
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i].Label() < seats[j].Label() })
	return seats, nil
}

func (r *memSeats) FindByIDs(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) ([]*entity.Seat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seats := make([]*entity.Seat, 0, len(seatIDs))
	for _, id := range seatIDs {
		if seat, ok := r.s.seats[id]; ok && seat.ShowtimeID == showtimeID {
			st := *seat
			seats = append(seats, &st)
		}
	}
	return seats, nil
}

func (r *memSeats) LockByIDs(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) ([]*entity.Seat, error) {
	r.s.mu.Lock()
	lockErr := r.s.lockErr
	r.s.mu.Unlock()

	if lockErr != nil {
		return nil, lockErr
	}
	return r.FindByIDs(ctx, showtimeID, seatIDs)
}

func (r *memSeats) MarkBooked(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.markErr != nil {
		return 0, r.s.markErr
	}

	var n int64
	for _, id := range seatIDs {
		if seat, ok := r.s.seats[id]; ok && seat.ShowtimeID == showtimeID && !seat.IsBooked {
			seat.IsBooked = true
			n++
		}
	}
	return n - r.s.markShortBy, nil
}

type memBookings struct{ s *memStore }

func (r *memBookings) Create(ctx context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.createBookErr != nil {
		return r.s.createBookErr
	}
	b := *booking
	r.s.bookings = append(r.s.bookings, &b)
	return nil
}

func (r *memBookings) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, booking := range r.s.bookings {
		if booking.ID == id {
			b := *booking
			return &b, nil
		}
	}
	return nil, nil
}

func (r *memBookings) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bookings := make([]*entity.Booking, 0)
	for _, booking := range r.s.bookings {
		if booking.UserID == userID {
			b := *booking
			b.SeatIDs = nil
			bookings = append(bookings, &b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].CreatedAt.After(bookings[j].CreatedAt) })

	if offset >= len(bookings) {
		return []*entity.Booking{}, nil
	}
	end := offset + limit
	if end > len(bookings) {
		end = len(bookings)
	}
	return bookings[offset:end], nil
}

func (r *memBookings) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, booking := range r.s.bookings {
		if booking.UserID == userID {
			n++
		}
	}
	return n, nil
}

type memBookingSeats struct{ s *memStore }

func (r *memBookingSeats) CreateBatch(ctx context.Context, bookingID uuid.UUID, seatIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.bookingSeats[bookingID] = append([]uuid.UUID(nil), seatIDs...)
	return nil
}

func (r *memBookingSeats) FindSeatIDsByBookingIDs(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make(map[uuid.UUID][]uuid.UUID, len(bookingIDs))
	for _, id := range bookingIDs {
		if seats, ok := r.s.bookingSeats[id]; ok {
			result[id] = append([]uuid.UUID(nil), seats...)
		}
	}
	return result, nil
}

type memUsers struct{ s *memStore }

func (r *memUsers) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
	}
	u := *user
	r.s.users[u.ID] = &u
	return nil
}

func (r *memUsers) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	u := *user
	return &u, nil
}

func (r *memUsers) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, user := range r.s.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, nil
}

type memSessions struct{ s *memStore }

func (r *memSessions) Create(ctx context.Context, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sess := *session
	r.s.sessions[sess.Token] = &sess
	return nil
}

func (r *memSessions) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	session, ok := r.s.sessions[token]
	if !ok || session.RevokedAt != nil || !session.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	sess := *session
	return &sess, nil
}

func (r *memSessions) Revoke(ctx context.Context, token uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	session, ok := r.s.sessions[token]
	if !ok || session.RevokedAt != nil {
		return repository.ErrSessionNotFound
	}
	now := time.Now()
	session.RevokedAt = &now
	return nil
}

func newTestBookingService(store *memStore) *bookingService {
	return NewBookingService(store.repository(), zap.NewNop()).(*bookingService)
}
