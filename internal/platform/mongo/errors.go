package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

const codeUnauthorized = 13

// Translate classifies a driver error. notFound replaces ErrNoDocuments when
// provided.
func Translate(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		if notFound != nil {
			return notFound
		}
		return failure.Wrap(failure.NotFound, err, "")
	}
	if mongo.IsDuplicateKeyError(err) {
		return failure.Wrap(failure.AlreadyExists, err, "")
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return failure.Wrap(failure.Unavailable, err, "")
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		if cmdErr.Code == codeUnauthorized {
			return failure.Wrap(failure.PermissionDenied, err, "")
		}
		if cmdErr.HasErrorLabel("TransientTransactionError") {
			return failure.Wrap(failure.Unavailable, err, "")
		}
	}
	return err
}
