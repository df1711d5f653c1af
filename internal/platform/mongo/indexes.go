package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes every adapter relies on. Failures are
// joined so one broken collection does not hide the others.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		ProductsCollection: {
			{Keys: bson.D{{Key: "translations.fr.name", Value: 1}}, Options: options.Index().SetName("fr_name_lookup")},
		},
		OrdersCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("created_at_desc")},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("status_created_at")},
		},
		HomepagesCollection: {
			{
				Keys: bson.D{{Key: "isActive", Value: 1}},
				Options: options.Index().
					SetName("single_active").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"isActive": true}),
			},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("created_at_desc")},
		},
		AdminsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("email_unique").SetUnique(true)},
		},
	}

	var errs []error
	for collection, models := range specs {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
