package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	platformmongo "github.com/Apurer/go-gin-storefront-api/internal/platform/mongo"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders as documents. Ids are ObjectID hex strings.
type Repository struct {
	coll *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	if db == nil {
		return &Repository{}
	}
	return &Repository{coll: db.Collection(platformmongo.OrdersCollection)}
}

type lineDoc struct {
	ProductID string `bson:"id"`
	Name      string `bson:"name"`
	Price     int64  `bson:"price"`
	Quantity  int64  `bson:"quantity"`
}

type orderDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	CustomerName    string             `bson:"customerName"`
	CustomerPhone   string             `bson:"customerPhone"`
	CustomerAddress string             `bson:"customerAddress"`
	Products        []lineDoc          `bson:"products"`
	TotalAmount     int64              `bson:"totalAmount"`
	Status          string             `bson:"status"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func (r *Repository) Insert(ctx context.Context, draft domain.Draft, status domain.Status, now time.Time) (*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	doc := toDoc(draft, status, projection.Stamp(now))
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, platformmongo.Translate(err, nil)
	}
	return doc.toDomain(), nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status, now time.Time) (*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrNotFound
	}
	var updated orderDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": string(status), "updatedAt": now.UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return nil, platformmongo.Translate(err, ports.ErrNotFound)
	}
	return updated.toDomain(), nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureColl(); err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	return platformmongo.Translate(err, nil)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrNotFound
	}
	var doc orderDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, platformmongo.Translate(err, ports.ErrNotFound)
	}
	return doc.toDomain(), nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *Repository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{"status": string(status)})
}

func (r *Repository) find(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, platformmongo.Translate(err, nil)
	}
	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, platformmongo.Translate(err, nil)
	}
	orders := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, docs[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureColl() error {
	if r == nil || r.coll == nil {
		return errors.New("mongo order repository not configured")
	}
	return nil
}

func toDoc(draft domain.Draft, status domain.Status, meta projection.Metadata) orderDoc {
	lines := make([]lineDoc, 0, len(draft.Lines))
	for _, l := range draft.Lines {
		lines = append(lines, lineDoc(l))
	}
	return orderDoc{
		CustomerName:    draft.Customer.Name,
		CustomerPhone:   draft.Customer.Phone,
		CustomerAddress: draft.Customer.Address,
		Products:        lines,
		TotalAmount:     draft.TotalAmount,
		Status:          string(status),
		CreatedAt:       meta.CreatedAt,
		UpdatedAt:       meta.UpdatedAt,
	}
}

func (d orderDoc) toDomain() *domain.Order {
	lines := make([]domain.Line, 0, len(d.Products))
	for _, l := range d.Products {
		lines = append(lines, domain.Line(l))
	}
	return &domain.Order{
		ID: d.ID.Hex(),
		Draft: domain.Draft{
			Customer:    domain.Customer{Name: d.CustomerName, Phone: d.CustomerPhone, Address: d.CustomerAddress},
			Lines:       lines,
			TotalAmount: d.TotalAmount,
		},
		Status:   domain.Status(d.Status),
		Metadata: projection.Metadata{CreatedAt: d.CreatedAt.UTC(), UpdatedAt: d.UpdatedAt.UTC()},
	}
}
