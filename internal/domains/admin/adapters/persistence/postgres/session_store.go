package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/ports"
	platformpostgres "github.com/Apurer/go-gin-storefront-api/internal/platform/postgres"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore persists admin sessions in PostgreSQL. Expired rows stay
// until PurgeExpired runs but are never returned.
type SessionStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

type sessionRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:36"`
	AdminID   string    `gorm:"column:admin_id;size:36;index"`
	Email     string    `gorm:"column:email"`
	Role      string    `gorm:"column:role;type:varchar(32)"`
	IssuedAt  time.Time `gorm:"column:issued_at"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
}

func (sessionRecord) TableName() string { return "admin_sessions" }

func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if session.ID == "" {
		return errors.New("session id is required")
	}
	rec := sessionRecord{
		ID:        session.ID,
		AdminID:   session.AdminID,
		Email:     session.Email,
		Role:      session.Role,
		IssuedAt:  session.IssuedAt.UTC(),
		ExpiresAt: session.ExpiresAt.UTC(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"expires_at"}),
		}).
		Create(&rec).Error
	return platformpostgres.Translate(err, nil)
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var rec sessionRecord
	err := s.db.WithContext(ctx).Where("id = ? AND expires_at > ?", id, s.now().UTC()).First(&rec).Error
	if err != nil {
		return nil, platformpostgres.Translate(err, ports.ErrSessionNotFound)
	}
	return &domain.Session{
		ID:        rec.ID,
		AdminID:   rec.AdminID,
		Email:     rec.Email,
		Role:      rec.Role,
		IssuedAt:  rec.IssuedAt.UTC(),
		ExpiresAt: rec.ExpiresAt.UTC(),
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return platformpostgres.Translate(s.db.WithContext(ctx).Delete(&sessionRecord{}, "id = ?", id).Error, nil)
}

// PurgeExpired removes expired sessions and reports how many went. Run it
// from cron.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now().UTC()).Delete(&sessionRecord{})
	return result.RowsAffected, platformpostgres.Translate(result.Error, nil)
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}
