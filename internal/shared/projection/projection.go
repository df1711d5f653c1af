// Package projection holds the persistence metadata every stored record carries.
package projection

import "time"

// Metadata captures server-assigned write timestamps.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stamp returns metadata for a record first written at now.
func Stamp(now time.Time) Metadata {
	now = now.UTC()
	return Metadata{CreatedAt: now, UpdatedAt: now}
}

// Touch bumps the modification timestamp.
func (m *Metadata) Touch(now time.Time) {
	m.UpdatedAt = now.UTC()
}

// NewerThan orders records by creation time, newest first.
func (m Metadata) NewerThan(other Metadata) bool {
	return m.CreatedAt.After(other.CreatedAt)
}
