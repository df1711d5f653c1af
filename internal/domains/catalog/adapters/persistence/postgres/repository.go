package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	platformpostgres "github.com/Apurer/go-gin-storefront-api/internal/platform/postgres"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var (
	_ ports.Repository  = (*Repository)(nil)
	_ ports.Reconnector = (*Repository)(nil)
)

// Repository persists products in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&productRecord{})
	}
	return repo
}

// productRecord flattens the product translations into columns.
type productRecord struct {
	ID            string         `gorm:"primaryKey;column:id;size:36"`
	Price         int64          `gorm:"column:price"`
	OriginalPrice int64          `gorm:"column:original_price"`
	Image         string         `gorm:"column:image"`
	Features      pq.StringArray `gorm:"column:features;type:text[]"`
	NameEN        string         `gorm:"column:name_en"`
	NameFR        string         `gorm:"column:name_fr;index:idx_products_name_fr"`
	DescriptionEN string         `gorm:"column:description_en"`
	DescriptionFR string         `gorm:"column:description_fr"`
	CreatedAt     time.Time      `gorm:"column:created_at;index"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

func (r *Repository) Insert(ctx context.Context, draft domain.ProductDraft, now time.Time) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := toRecord(uuid.NewString(), draft, projection.Stamp(now))
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, platformpostgres.Translate(err, nil)
	}
	return record.toDomain(), nil
}

// Replace overwrites every column except created_at.
func (r *Repository) Replace(ctx context.Context, id string, draft domain.ProductDraft, now time.Time) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := toRecord(id, draft, projection.Stamp(now))
	result := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", id).Updates(map[string]any{
		"price":          record.Price,
		"original_price": record.OriginalPrice,
		"image":          record.Image,
		"features":       record.Features,
		"name_en":        record.NameEN,
		"name_fr":        record.NameFR,
		"description_en": record.DescriptionEN,
		"description_fr": record.DescriptionFR,
		"updated_at":     record.UpdatedAt,
	})
	if result.Error != nil {
		return nil, platformpostgres.Translate(result.Error, ports.ErrNotFound)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", id).Error; err != nil {
		return platformpostgres.Translate(err, nil)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrNotFound
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, platformpostgres.Translate(err, ports.ErrNotFound)
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&records).Error; err != nil {
		return nil, platformpostgres.Translate(err, nil)
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

func (r *Repository) FindByFrenchName(ctx context.Context, name string) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Where("name_fr = ?", name).Find(&records).Error; err != nil {
		return nil, platformpostgres.Translate(err, nil)
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

// Reconnect pings the pool so database/sql can drop broken connections.
func (r *Repository) Reconnect(ctx context.Context) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return platformpostgres.Ping(ctx, r.db)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toRecord(id string, draft domain.ProductDraft, meta projection.Metadata) productRecord {
	return productRecord{
		ID:            id,
		Price:         draft.Price,
		OriginalPrice: draft.OriginalPrice,
		Image:         draft.Image,
		Features:      pq.StringArray(append([]string{}, draft.Features...)),
		NameEN:        draft.Translations.EN.Name,
		NameFR:        draft.Translations.FR.Name,
		DescriptionEN: draft.Translations.EN.Description,
		DescriptionFR: draft.Translations.FR.Description,
		CreatedAt:     meta.CreatedAt,
		UpdatedAt:     meta.UpdatedAt,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID: r.ID,
		ProductDraft: domain.ProductDraft{
			Price:         r.Price,
			OriginalPrice: r.OriginalPrice,
			Image:         r.Image,
			Features:      append([]string{}, r.Features...),
			Translations: domain.Translations{
				EN: domain.Translation{Name: r.NameEN, Description: r.DescriptionEN},
				FR: domain.Translation{Name: r.NameFR, Description: r.DescriptionFR},
			},
		},
		Metadata: projection.Metadata{CreatedAt: r.CreatedAt.UTC(), UpdatedAt: r.UpdatedAt.UTC()},
	}
}
