package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/ports"
	platformpostgres "github.com/Apurer/go-gin-storefront-api/internal/platform/postgres"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

// activationLockKey serializes homepage write transactions.
const activationLockKey int64 = 0x686f6d6570616765

var _ ports.Repository = (*Repository)(nil)

// Repository persists homepage configurations in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&homepageRecord{})
	}
	return repo
}

type localizedRecord struct {
	EN string `json:"en"`
	FR string `json:"fr"`
}

type heroRecord struct {
	Title           localizedRecord `json:"title"`
	Subtitle        localizedRecord `json:"subtitle"`
	BackgroundImage string          `json:"backgroundImage"`
	CTAText         localizedRecord `json:"ctaText"`
}

type featuredRecord struct {
	Title      localizedRecord `json:"title"`
	Subtitle   localizedRecord `json:"subtitle"`
	ProductIDs []string        `json:"productIds"`
}

type reviewsRecord struct {
	Title    localizedRecord `json:"title"`
	Subtitle localizedRecord `json:"subtitle"`
}

// homepageRecord stores each section as JSON. The partial unique index lets
// at most one row have is_active = true.
type homepageRecord struct {
	ID        string         `gorm:"primaryKey;column:id;size:36"`
	Hero      heroRecord     `gorm:"column:hero;type:jsonb;serializer:json"`
	Featured  featuredRecord `gorm:"column:featured;type:jsonb;serializer:json"`
	Reviews   reviewsRecord  `gorm:"column:reviews;type:jsonb;serializer:json"`
	IsActive  bool           `gorm:"column:is_active;uniqueIndex:ux_homepages_single_active,where:is_active"`
	CreatedAt time.Time      `gorm:"column:created_at;index"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (homepageRecord) TableName() string { return "homepages" }

// InTransaction takes a transaction-scoped advisory lock so concurrent
// activations queue instead of tripping the unique index.
func (r *Repository) InTransaction(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := db.Exec("SELECT pg_advisory_xact_lock(?)", activationLockKey).Error; err != nil {
			return platformpostgres.Translate(err, nil)
		}
		return fn(ctx, &tx{db: db})
	})
	if failure.Is(err, failure.AlreadyExists) {
		return ports.ErrActivationConflict
	}
	return err
}

func (r *Repository) ListActive(ctx context.Context) ([]*domain.Homepage, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return find(r.db.WithContext(ctx).Where("is_active = ?", true))
}

func (r *Repository) List(ctx context.Context) ([]*domain.Homepage, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return find(r.db.WithContext(ctx))
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Homepage, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record homepageRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, platformpostgres.Translate(err, ports.ErrNotFound)
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres homepage repository not configured")
	}
	return nil
}

type tx struct {
	db *gorm.DB
}

// ListActive locks the active rows until the transaction ends.
func (t *tx) ListActive(_ context.Context) ([]*domain.Homepage, error) {
	return find(t.db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("is_active = ?", true))
}

func (t *tx) Get(_ context.Context, id string) (*domain.Homepage, error) {
	var record homepageRecord
	if err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", id).Error; err != nil {
		return nil, platformpostgres.Translate(err, ports.ErrNotFound)
	}
	return record.toDomain(), nil
}

func (t *tx) Insert(_ context.Context, content domain.Content, now time.Time) (*domain.Homepage, error) {
	record := toRecord(&domain.Homepage{ID: uuid.NewString(), Content: content, Metadata: projection.Stamp(now)})
	if err := t.db.Create(&record).Error; err != nil {
		return nil, platformpostgres.Translate(err, nil)
	}
	return record.toDomain(), nil
}

func (t *tx) Replace(_ context.Context, homepage *domain.Homepage) error {
	record := toRecord(homepage)
	result := t.db.Model(&record).
		Select("hero", "featured", "reviews", "is_active", "updated_at").
		Updates(&record)
	if result.Error != nil {
		return platformpostgres.Translate(result.Error, ports.ErrNotFound)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (t *tx) Deactivate(_ context.Context, id string, now time.Time) error {
	err := t.db.Model(&homepageRecord{}).Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "updated_at": now.UTC()}).Error
	return platformpostgres.Translate(err, nil)
}

func find(query *gorm.DB) ([]*domain.Homepage, error) {
	var records []homepageRecord
	if err := query.Order("created_at DESC, id DESC").Find(&records).Error; err != nil {
		return nil, platformpostgres.Translate(err, nil)
	}
	homepages := make([]*domain.Homepage, 0, len(records))
	for i := range records {
		homepages = append(homepages, records[i].toDomain())
	}
	return homepages, nil
}

func toRecord(h *domain.Homepage) homepageRecord {
	return homepageRecord{
		ID: h.ID,
		Hero: heroRecord{
			Title:           localizedRecord(h.Hero.Title),
			Subtitle:        localizedRecord(h.Hero.Subtitle),
			BackgroundImage: h.Hero.BackgroundImage,
			CTAText:         localizedRecord(h.Hero.CTAText),
		},
		Featured: featuredRecord{
			Title:      localizedRecord(h.Featured.Title),
			Subtitle:   localizedRecord(h.Featured.Subtitle),
			ProductIDs: append([]string{}, h.Featured.ProductIDs...),
		},
		Reviews: reviewsRecord{
			Title:    localizedRecord(h.Reviews.Title),
			Subtitle: localizedRecord(h.Reviews.Subtitle),
		},
		IsActive:  h.IsActive,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

func (r homepageRecord) toDomain() *domain.Homepage {
	return &domain.Homepage{
		ID: r.ID,
		Content: domain.Content{
			Hero: domain.Hero{
				Title:           domain.Localized(r.Hero.Title),
				Subtitle:        domain.Localized(r.Hero.Subtitle),
				BackgroundImage: r.Hero.BackgroundImage,
				CTAText:         domain.Localized(r.Hero.CTAText),
			},
			Featured: domain.Featured{
				Title:      domain.Localized(r.Featured.Title),
				Subtitle:   domain.Localized(r.Featured.Subtitle),
				ProductIDs: append([]string{}, r.Featured.ProductIDs...),
			},
			Reviews: domain.Reviews{
				Title:    domain.Localized(r.Reviews.Title),
				Subtitle: domain.Localized(r.Reviews.Subtitle),
			},
			IsActive: r.IsActive,
		},
		Metadata: projection.Metadata{CreatedAt: r.CreatedAt.UTC(), UpdatedAt: r.UpdatedAt.UTC()},
	}
}
