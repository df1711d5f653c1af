package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidateCredentials(t *testing.T) {
	email, err := ValidateCredentials("  Admin@MatrixShop.com ", "secret1")
	require.NoError(t, err)
	require.Equal(t, "admin@matrixshop.com", email)

	cases := map[string]struct {
		email, password string
		want            error
	}{
		"empty email":    {"  ", "secret1", ErrEmptyEmail},
		"display name":   {"Admin <admin@matrixshop.com>", "secret1", ErrInvalidEmail},
		"missing at":     {"admin.matrixshop.com", "secret1", ErrInvalidEmail},
		"empty password": {"admin@matrixshop.com", "   ", ErrEmptyPassword},
		"short password": {"admin@matrixshop.com", "12345", ErrWeakPassword},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateCredentials(tc.email, tc.password)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSession_ExpiredAtBoundary(t *testing.T) {
	issued := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s := Session{IssuedAt: issued, ExpiresAt: issued.Add(time.Hour)}

	require.False(t, s.Expired(issued.Add(59*time.Minute)))
	require.True(t, s.Expired(issued.Add(time.Hour)))
}
