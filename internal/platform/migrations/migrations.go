// Package migrations owns the PostgreSQL schema. Adapters keep their own
// AutoMigrate for standalone use, but processes call Run once at startup.
package migrations

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for every bounded context.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&orderRecord{},
		&orderKeyRecord{},
		&homepageRecord{},
		&adminRecord{},
		&adminSessionRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
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

// Order schema mirrors the orders Postgres adapter; lines live in a jsonb
// column named after the storefront's "products" field.
type orderRecord struct {
	ID              string          `gorm:"primaryKey;column:id;size:36"`
	CustomerName    string          `gorm:"column:customer_name"`
	CustomerPhone   string          `gorm:"column:customer_phone"`
	CustomerAddress string          `gorm:"column:customer_address"`
	Lines           json.RawMessage `gorm:"column:products;type:jsonb"`
	TotalAmount     int64           `gorm:"column:total_amount"`
	Status          string          `gorm:"column:status;type:varchar(32);index:idx_orders_status_created,priority:1"`
	CreatedAt       time.Time       `gorm:"column:created_at;index;index:idx_orders_status_created,priority:2"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Checkout idempotency keys mirror the orders Postgres idempotency store.
type orderKeyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:64"`
	OrderID     string    `gorm:"column:order_id;size:36"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
}

func (orderKeyRecord) TableName() string { return "order_idempotency_keys" }

// Homepage schema mirrors the homepage Postgres adapter. The partial unique
// index allows at most one active row.
type homepageRecord struct {
	ID        string          `gorm:"primaryKey;column:id;size:36"`
	Hero      json.RawMessage `gorm:"column:hero;type:jsonb"`
	Featured  json.RawMessage `gorm:"column:featured;type:jsonb"`
	Reviews   json.RawMessage `gorm:"column:reviews;type:jsonb"`
	IsActive  bool            `gorm:"column:is_active;uniqueIndex:ux_homepages_single_active,where:is_active"`
	CreatedAt time.Time       `gorm:"column:created_at;index"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (homepageRecord) TableName() string { return "homepages" }

// Admin schema mirrors the admin Postgres adapter.
type adminRecord struct {
	ID           string    `gorm:"primaryKey;column:id;size:36"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;type:varchar(32)"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (adminRecord) TableName() string { return "admins" }

// Admin session schema mirrors the admin session store.
type adminSessionRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:36"`
	AdminID   string    `gorm:"column:admin_id;size:36;index"`
	Email     string    `gorm:"column:email"`
	Role      string    `gorm:"column:role;type:varchar(32)"`
	IssuedAt  time.Time `gorm:"column:issued_at"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
}

func (adminSessionRecord) TableName() string { return "admin_sessions" }
