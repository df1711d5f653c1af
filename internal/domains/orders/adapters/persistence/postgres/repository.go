package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	platformpostgres "github.com/Apurer/go-gin-storefront-api/internal/platform/postgres"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{})
	}
	return repo
}

type lineRecord struct {
	ProductID string `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

// orderRecord keeps the line snapshot as a JSON column.
type orderRecord struct {
	ID              string       `gorm:"primaryKey;column:id;size:36"`
	CustomerName    string       `gorm:"column:customer_name"`
	CustomerPhone   string       `gorm:"column:customer_phone"`
	CustomerAddress string       `gorm:"column:customer_address"`
	Lines           []lineRecord `gorm:"column:products;type:jsonb;serializer:json"`
	TotalAmount     int64        `gorm:"column:total_amount"`
	Status          string       `gorm:"column:status;type:varchar(32);index:idx_orders_status_created,priority:1"`
	CreatedAt       time.Time    `gorm:"column:created_at;index;index:idx_orders_status_created,priority:2"`
	UpdatedAt       time.Time    `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

func (r *Repository) Insert(ctx context.Context, draft domain.Draft, status domain.Status, now time.Time) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := toRecord(&domain.Order{ID: uuid.NewString(), Draft: draft, Status: status, Metadata: projection.Stamp(now)})
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, platformpostgres.Translate(err, nil)
	}
	return record.toDomain(), nil
}

// UpdateStatus writes status and returns the updated row in one round trip.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status, now time.Time) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	result := r.db.WithContext(ctx).Model(&records).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": now.UTC()})
	if result.Error != nil {
		return nil, platformpostgres.Translate(result.Error, ports.ErrNotFound)
	}
	if result.RowsAffected == 0 || len(records) == 0 {
		return nil, ports.ErrNotFound
	}
	return records[0].toDomain(), nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&orderRecord{}, "id = ?", id).Error; err != nil {
		return platformpostgres.Translate(err, nil)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, platformpostgres.Translate(err, ports.ErrNotFound)
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.find(ctx, r.db)
}

func (r *Repository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(ctx, r.db.Where("status = ?", string(status)))
}

func (r *Repository) find(ctx context.Context, query *gorm.DB) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := query.WithContext(ctx).Order("created_at DESC, id DESC").Find(&records).Error; err != nil {
		return nil, platformpostgres.Translate(err, nil)
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	lines := make([]lineRecord, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, lineRecord(l))
	}
	return orderRecord{
		ID:              order.ID,
		CustomerName:    order.Customer.Name,
		CustomerPhone:   order.Customer.Phone,
		CustomerAddress: order.Customer.Address,
		Lines:           lines,
		TotalAmount:     order.TotalAmount,
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	lines := make([]domain.Line, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, domain.Line(l))
	}
	return &domain.Order{
		ID: r.ID,
		Draft: domain.Draft{
			Customer:    domain.Customer{Name: r.CustomerName, Phone: r.CustomerPhone, Address: r.CustomerAddress},
			Lines:       lines,
			TotalAmount: r.TotalAmount,
		},
		Status:   domain.Status(r.Status),
		Metadata: projection.Metadata{CreatedAt: r.CreatedAt.UTC(), UpdatedAt: r.UpdatedAt.UTC()},
	}
}
