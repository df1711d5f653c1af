package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

// Translate classifies a GORM/pgx error. notFound is returned verbatim for
// missing rows so callers can keep their own sentinel.
func Translate(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if notFound != nil {
			return notFound
		}
		return failure.Wrap(failure.NotFound, err, "")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return failure.Wrap(failure.AlreadyExists, err, "")
		case pgErr.Code == "42501":
			return failure.Wrap(failure.PermissionDenied, err, "")
		case pgErr.Code == "40001", pgErr.Code == "40P01",
			strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P"):
			return failure.Wrap(failure.Unavailable, err, "")
		}
		return failure.Wrap(failure.Unknown, err, "")
	}
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) || pgconn.SafeToRetry(err) {
		return failure.Wrap(failure.Unavailable, err, "")
	}
	return err
}
