package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	platformmongo "github.com/Apurer/go-gin-storefront-api/internal/platform/mongo"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps one document per checkout key, keyed by _id.
type IdempotencyStore struct {
	coll *mongo.Collection
}

func NewIdempotencyStore(db *mongo.Database) *IdempotencyStore {
	if db == nil {
		return &IdempotencyStore{}
	}
	return &IdempotencyStore{coll: db.Collection(platformmongo.OrderKeysCollection)}
}

type idempotencyDoc struct {
	Key         string    `bson:"_id"`
	RequestHash string    `bson:"requestHash"`
	OrderID     string    `bson:"orderId"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureColl(); err != nil {
		return nil, err
	}
	var doc idempotencyDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, platformmongo.Translate(err, nil)
	}
	return doc.toPort(), nil
}

func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if err := s.ensureColl(); err != nil {
		return nil, err
	}
	doc := idempotencyDoc{
		Key:         record.Key,
		RequestHash: record.RequestHash,
		OrderID:     record.OrderID,
		CreatedAt:   record.CreatedAt.UTC(),
	}
	_, err := s.coll.InsertOne(ctx, doc)
	if err == nil {
		return doc.toPort(), nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, platformmongo.Translate(err, nil)
	}
	existing, getErr := s.Get(ctx, record.Key)
	if getErr != nil {
		return nil, getErr
	}
	if existing == nil {
		return nil, platformmongo.Translate(err, nil)
	}
	if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, nil
}

func (s *IdempotencyStore) ensureColl() error {
	if s == nil || s.coll == nil {
		return errors.New("mongo idempotency store not configured")
	}
	return nil
}

func (d idempotencyDoc) toPort() *ports.IdempotencyRecord {
	return &ports.IdempotencyRecord{
		Key:         d.Key,
		RequestHash: d.RequestHash,
		OrderID:     d.OrderID,
		CreatedAt:   d.CreatedAt,
	}
}
