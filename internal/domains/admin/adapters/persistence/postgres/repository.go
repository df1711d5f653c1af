package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/ports"
	platformpostgres "github.com/Apurer/go-gin-storefront-api/internal/platform/postgres"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists admin accounts in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&adminRecord{})
	}
	return repo
}

type adminRecord struct {
	ID           string    `gorm:"primaryKey;column:id;size:36"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;type:varchar(32)"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (adminRecord) TableName() string { return "admins" }

func (r *Repository) Create(ctx context.Context, admin *domain.Admin, now time.Time) (*domain.Admin, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	meta := projection.Stamp(now)
	record := adminRecord{
		ID:           admin.ID,
		Email:        domain.NormalizeEmail(admin.Email),
		PasswordHash: admin.PasswordHash,
		Role:         admin.Role,
		CreatedAt:    meta.CreatedAt,
		UpdatedAt:    meta.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		err = platformpostgres.Translate(err, nil)
		if failure.Is(err, failure.AlreadyExists) {
			return nil, ports.ErrAlreadyExists
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record adminRecord
	if err := r.db.WithContext(ctx).First(&record, "email = ?", domain.NormalizeEmail(email)).Error; err != nil {
		return nil, platformpostgres.Translate(err, ports.ErrNotFound)
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres admin repository not configured")
	}
	return nil
}

func (rec adminRecord) toDomain() *domain.Admin {
	return &domain.Admin{
		ID:           rec.ID,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		Role:         rec.Role,
		Metadata:     projection.Metadata{CreatedAt: rec.CreatedAt.UTC(), UpdatedAt: rec.UpdatedAt.UTC()},
	}
}
