package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrOrderNotFound    = errors.New("order not found")

	ErrCategoryAlreadyExists = errors.New("category with this value already exists")
	ErrUserAlreadyExists     = errors.New("user with this email already exists")

	// ErrStoreUnavailable marks infrastructure-level failures: the query
	// never reached a healthy database. List reads degrade on it; every
	// other operation surfaces it to the caller.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a Postgres foreign key
// violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// storeErr converts connection-class failures into ErrStoreUnavailable and
// passes every other error through unchanged.
func storeErr(err error) error {
	if err == nil {
		return nil
	}

	var netErr *net.OpError
	var connErr *pgconn.ConnectError
	switch {
	case errors.As(err, &netErr),
		errors.As(err, &connErr),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return err
}
