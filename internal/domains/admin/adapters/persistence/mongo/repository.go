package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/ports"
	platformmongo "github.com/Apurer/go-gin-storefront-api/internal/platform/mongo"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists admin accounts in the admins collection. The unique
// email index is created by platformmongo.EnsureIndexes.
type Repository struct {
	coll *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	if db == nil {
		return &Repository{}
	}
	return &Repository{coll: db.Collection(platformmongo.AdminsCollection)}
}

type adminDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func (r *Repository) Create(ctx context.Context, admin *domain.Admin, now time.Time) (*domain.Admin, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	meta := projection.Stamp(now)
	doc := adminDoc{
		ID:           admin.ID,
		Email:        domain.NormalizeEmail(admin.Email),
		PasswordHash: admin.PasswordHash,
		Role:         admin.Role,
		CreatedAt:    meta.CreatedAt,
		UpdatedAt:    meta.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		err = platformmongo.Translate(err, nil)
		if failure.Is(err, failure.AlreadyExists) {
			return nil, ports.ErrAlreadyExists
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	var doc adminDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": domain.NormalizeEmail(email)}).Decode(&doc); err != nil {
		return nil, platformmongo.Translate(err, ports.ErrNotFound)
	}
	return doc.toDomain(), nil
}

func (r *Repository) ensureColl() error {
	if r == nil || r.coll == nil {
		return errors.New("mongo admin repository not configured")
	}
	return nil
}

func (d adminDoc) toDomain() *domain.Admin {
	return &domain.Admin{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		Metadata:     projection.Metadata{CreatedAt: d.CreatedAt.UTC(), UpdatedAt: d.UpdatedAt.UTC()},
	}
}
