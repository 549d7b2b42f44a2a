package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongoStore wires every repository to one database.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:        NewMongoUserRepo(db),
		Meals:        NewMongoMealRepo(db),
		Orders:       NewMongoOrderRepo(db),
		Purchases:    NewMongoPurchaseRepo(db),
		Favorites:    NewMongoFavoriteRepo(db),
		MealPlans:    NewMongoMealPlanRepo(db),
		ActivityLogs: NewMongoActivityLogRepo(db),
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// findOne decodes the first match or returns ErrNotFound.
func findOne(ctx context.Context, col *mongo.Collection, filter interface{}, dest interface{}) error {
	err := col.FindOne(ctx, filter).Decode(dest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}

func ownerFilter(userID string) bson.M {
	if userID == "" {
		return bson.M{}
	}
	return bson.M{"user_id": userID}
}

