package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// Transient Postgres error classes, per the errcodes appendix:
// 08 connection exception, 53 insufficient resources, 57 operator
// intervention; plus serialization failure, deadlock and lock-not-available.
func isTransientPgCode(code string) bool {
	if strings.HasPrefix(code, "08") ||
		strings.HasPrefix(code, "53") ||
		strings.HasPrefix(code, "57") {
		return true
	}
	switch code {
	case "40001", "40P01", "55P03":
		return true
	}
	return false
}

// IsTransient reports whether an error is temporary contention or loss of
// connectivity, eligible for re-dispatch by the worker substrate. Anything
// else is terminal for the job.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientPgCode(pgErr.Code)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	switch {
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE):
		return true
	}
	// Context deadlines are handled by the timeout path, not retried here.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	return false
}
