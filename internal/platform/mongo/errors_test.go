package mongo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

func TestTranslate_ClassifiesDriverErrors(t *testing.T) {
	missing := failure.New(failure.NotFound, "homepage not found")

	require.ErrorIs(t, Translate(fmt.Errorf("decode: %w", mongo.ErrNoDocuments), missing), missing)
	require.True(t, failure.Is(Translate(mongo.ErrNoDocuments, nil), failure.NotFound))

	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	require.True(t, failure.Is(Translate(dup, nil), failure.AlreadyExists))

	unauthorized := mongo.CommandError{Code: codeUnauthorized, Message: "not authorized"}
	require.True(t, failure.Is(Translate(unauthorized, nil), failure.PermissionDenied))

	transient := mongo.CommandError{Code: 251, Labels: []string{"TransientTransactionError"}}
	require.True(t, failure.Is(Translate(transient, nil), failure.Unavailable))

	plain := errors.New("bad filter")
	require.Equal(t, plain, Translate(plain, nil))
}
