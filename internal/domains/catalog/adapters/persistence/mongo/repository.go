package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	platformmongo "github.com/Apurer/go-gin-storefront-api/internal/platform/mongo"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var (
	_ ports.Repository  = (*Repository)(nil)
	_ ports.Reconnector = (*Repository)(nil)
)

// Repository persists products as documents. Ids are ObjectID hex strings.
type Repository struct {
	coll *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	if db == nil {
		return &Repository{}
	}
	return &Repository{coll: db.Collection(platformmongo.ProductsCollection)}
}

type translationDoc struct {
	Name        string `bson:"name"`
	Description string `bson:"description"`
}

type productDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Price         int64              `bson:"price"`
	OriginalPrice int64              `bson:"originalPrice"`
	Image         string             `bson:"image"`
	Features      []string           `bson:"features"`
	Translations  struct {
		EN translationDoc `bson:"en"`
		FR translationDoc `bson:"fr"`
	} `bson:"translations"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (r *Repository) Insert(ctx context.Context, draft domain.ProductDraft, now time.Time) (*domain.Product, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	doc := toDoc(draft, projection.Stamp(now))
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, platformmongo.Translate(err, nil)
	}
	return doc.toDomain(), nil
}

func (r *Repository) Replace(ctx context.Context, id string, draft domain.ProductDraft, now time.Time) (*domain.Product, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrNotFound
	}
	doc := toDoc(draft, projection.Stamp(now))
	update := bson.M{"$set": bson.M{
		"price":         doc.Price,
		"originalPrice": doc.OriginalPrice,
		"image":         doc.Image,
		"features":      doc.Features,
		"translations":  doc.Translations,
		"updatedAt":     doc.UpdatedAt,
	}}
	var updated productDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
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

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrNotFound
	}
	var doc productDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, platformmongo.Translate(err, ports.ErrNotFound)
	}
	return doc.toDomain(), nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.find(ctx, bson.M{})
}

func (r *Repository) FindByFrenchName(ctx context.Context, name string) ([]*domain.Product, error) {
	return r.find(ctx, bson.M{"translations.fr.name": name})
}

// Reconnect pings the primary; the driver re-establishes pooled connections.
func (r *Repository) Reconnect(ctx context.Context) error {
	if err := r.ensureColl(); err != nil {
		return err
	}
	return platformmongo.Ping(ctx, r.coll.Database().Client())
}

func (r *Repository) find(ctx context.Context, filter bson.M) ([]*domain.Product, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, platformmongo.Translate(err, nil)
	}
	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, platformmongo.Translate(err, nil)
	}
	products := make([]*domain.Product, 0, len(docs))
	for i := range docs {
		products = append(products, docs[i].toDomain())
	}
	return products, nil
}

func (r *Repository) ensureColl() error {
	if r == nil || r.coll == nil {
		return errors.New("mongo product repository not configured")
	}
	return nil
}

func toDoc(draft domain.ProductDraft, meta projection.Metadata) productDoc {
	doc := productDoc{
		Price:         draft.Price,
		OriginalPrice: draft.OriginalPrice,
		Image:         draft.Image,
		Features:      append([]string{}, draft.Features...),
		CreatedAt:     meta.CreatedAt,
		UpdatedAt:     meta.UpdatedAt,
	}
	doc.Translations.EN = translationDoc(draft.Translations.EN)
	doc.Translations.FR = translationDoc(draft.Translations.FR)
	return doc
}

func (d productDoc) toDomain() *domain.Product {
	return &domain.Product{
		ID: d.ID.Hex(),
		ProductDraft: domain.ProductDraft{
			Price:         d.Price,
			OriginalPrice: d.OriginalPrice,
			Image:         d.Image,
			Features:      append([]string{}, d.Features...),
			Translations: domain.Translations{
				EN: domain.Translation(d.Translations.EN),
				FR: domain.Translation(d.Translations.FR),
			},
		},
		Metadata: projection.Metadata{CreatedAt: d.CreatedAt.UTC(), UpdatedAt: d.UpdatedAt.UTC()},
	}
}
