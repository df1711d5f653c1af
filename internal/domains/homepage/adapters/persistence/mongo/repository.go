package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/ports"
	platformmongo "github.com/Apurer/go-gin-storefront-api/internal/platform/mongo"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists homepage configurations as documents. Transactions
// need a replica set; the partial unique index on isActive backs the
// single-active rule.
type Repository struct {
	coll *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	if db == nil {
		return &Repository{}
	}
	return &Repository{coll: db.Collection(platformmongo.HomepagesCollection)}
}

type localizedDoc struct {
	EN string `bson:"en"`
	FR string `bson:"fr"`
}

type homepageDoc struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Hero struct {
		Title           localizedDoc `bson:"title"`
		Subtitle        localizedDoc `bson:"subtitle"`
		BackgroundImage string       `bson:"backgroundImage"`
		CTAText         localizedDoc `bson:"ctaText"`
	} `bson:"hero"`
	Featured struct {
		Title      localizedDoc `bson:"title"`
		Subtitle   localizedDoc `bson:"subtitle"`
		ProductIDs []string     `bson:"productIds"`
	} `bson:"featured"`
	Reviews struct {
		Title    localizedDoc `bson:"title"`
		Subtitle localizedDoc `bson:"subtitle"`
	} `bson:"reviews"`
	IsActive  bool      `bson:"isActive"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// InTransaction runs fn inside a multi-document transaction. The driver
// re-runs fn on transient transaction errors such as write conflicts.
func (r *Repository) InTransaction(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if err := r.ensureColl(); err != nil {
		return err
	}
	session, err := r.coll.Database().Client().StartSession()
	if err != nil {
		return platformmongo.Translate(err, nil)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx, &tx{coll: r.coll})
	})
	if err == nil {
		return nil
	}
	var domainErr *failure.Error
	if !errors.As(err, &domainErr) {
		err = platformmongo.Translate(err, nil)
	}
	if failure.Is(err, failure.AlreadyExists) {
		return ports.ErrActivationConflict
	}
	return err
}

func (r *Repository) ListActive(ctx context.Context) ([]*domain.Homepage, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	return find(ctx, r.coll, bson.M{"isActive": true})
}

func (r *Repository) List(ctx context.Context) ([]*domain.Homepage, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	return find(ctx, r.coll, bson.M{})
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Homepage, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	return get(ctx, r.coll, id)
}

func (r *Repository) ensureColl() error {
	if r == nil || r.coll == nil {
		return errors.New("mongo homepage repository not configured")
	}
	return nil
}

type tx struct {
	coll *mongo.Collection
}

func (t *tx) ListActive(ctx context.Context) ([]*domain.Homepage, error) {
	return find(ctx, t.coll, bson.M{"isActive": true})
}

func (t *tx) Get(ctx context.Context, id string) (*domain.Homepage, error) {
	return get(ctx, t.coll, id)
}

func (t *tx) Insert(ctx context.Context, content domain.Content, now time.Time) (*domain.Homepage, error) {
	doc := toDoc(&domain.Homepage{Content: content, Metadata: projection.Stamp(now)})
	doc.ID = primitive.NewObjectID()
	if _, err := t.coll.InsertOne(ctx, doc); err != nil {
		return nil, platformmongo.Translate(err, nil)
	}
	return doc.toDomain(), nil
}

func (t *tx) Replace(ctx context.Context, homepage *domain.Homepage) error {
	oid, err := primitive.ObjectIDFromHex(homepage.ID)
	if err != nil {
		return ports.ErrNotFound
	}
	doc := toDoc(homepage)
	result, err := t.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"hero":      doc.Hero,
		"featured":  doc.Featured,
		"reviews":   doc.Reviews,
		"isActive":  doc.IsActive,
		"updatedAt": doc.UpdatedAt,
	}})
	if err != nil {
		return platformmongo.Translate(err, nil)
	}
	if result.MatchedCount == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (t *tx) Deactivate(ctx context.Context, id string, now time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ports.ErrNotFound
	}
	_, err = t.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"isActive": false, "updatedAt": now.UTC()}})
	return platformmongo.Translate(err, nil)
}

func get(ctx context.Context, coll *mongo.Collection, id string) (*domain.Homepage, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrNotFound
	}
	var doc homepageDoc
	if err := coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, platformmongo.Translate(err, ports.ErrNotFound)
	}
	return doc.toDomain(), nil
}

func find(ctx context.Context, coll *mongo.Collection, filter bson.M) ([]*domain.Homepage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, platformmongo.Translate(err, nil)
	}
	var docs []homepageDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, platformmongo.Translate(err, nil)
	}
	homepages := make([]*domain.Homepage, 0, len(docs))
	for i := range docs {
		homepages = append(homepages, docs[i].toDomain())
	}
	return homepages, nil
}

func toDoc(h *domain.Homepage) homepageDoc {
	var doc homepageDoc
	doc.Hero.Title = localizedDoc(h.Hero.Title)
	doc.Hero.Subtitle = localizedDoc(h.Hero.Subtitle)
	doc.Hero.BackgroundImage = h.Hero.BackgroundImage
	doc.Hero.CTAText = localizedDoc(h.Hero.CTAText)
	doc.Featured.Title = localizedDoc(h.Featured.Title)
	doc.Featured.Subtitle = localizedDoc(h.Featured.Subtitle)
	doc.Featured.ProductIDs = append([]string{}, h.Featured.ProductIDs...)
	doc.Reviews.Title = localizedDoc(h.Reviews.Title)
	doc.Reviews.Subtitle = localizedDoc(h.Reviews.Subtitle)
	doc.IsActive = h.IsActive
	doc.CreatedAt = h.CreatedAt
	doc.UpdatedAt = h.UpdatedAt
	return doc
}

func (d homepageDoc) toDomain() *domain.Homepage {
	return &domain.Homepage{
		ID: d.ID.Hex(),
		Content: domain.Content{
			Hero: domain.Hero{
				Title:           domain.Localized(d.Hero.Title),
				Subtitle:        domain.Localized(d.Hero.Subtitle),
				BackgroundImage: d.Hero.BackgroundImage,
				CTAText:         domain.Localized(d.Hero.CTAText),
			},
			Featured: domain.Featured{
				Title:      domain.Localized(d.Featured.Title),
				Subtitle:   domain.Localized(d.Featured.Subtitle),
				ProductIDs: append([]string{}, d.Featured.ProductIDs...),
			},
			Reviews: domain.Reviews{
				Title:    domain.Localized(d.Reviews.Title),
				Subtitle: domain.Localized(d.Reviews.Subtitle),
			},
			IsActive: d.IsActive,
		},
		Metadata: projection.Metadata{CreatedAt: d.CreatedAt.UTC(), UpdatedAt: d.UpdatedAt.UTC()},
	}
}
