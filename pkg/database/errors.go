package database

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsLockTimeout reports whether err comes from a bounded lock wait or
// statement deadline running out.
func IsLockTimeout(err error) bool {
	switch pgCode(err) {
	case pgerrcode.LockNotAvailable, pgerrcode.QueryCanceled:
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func IsSerializationFailure(err error) bool {
	code := pgCode(err)
	return code == pgerrcode.SerializationFailure || code == pgerrcode.DeadlockDetected
}

func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgerrcode.UniqueViolation
}
