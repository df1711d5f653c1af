package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStampAndTouch(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.FixedZone("WAT", 3600))
	meta := Stamp(created)
	require.Equal(t, time.UTC, meta.CreatedAt.Location())
	require.True(t, meta.CreatedAt.Equal(meta.UpdatedAt))

	meta.Touch(created.Add(time.Hour))
	require.True(t, meta.UpdatedAt.After(meta.CreatedAt))

	later := Stamp(created.Add(time.Minute))
	require.True(t, later.NewerThan(meta))
	require.False(t, meta.NewerThan(later))
}
