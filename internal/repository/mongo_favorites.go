package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnshRaj112/mealmate-backend/internal/database"
	"github.com/AnshRaj112/mealmate-backend/internal/models"
)

type MongoFavoriteRepo struct {
	col *mongo.Collection
}

func NewMongoFavoriteRepo(db *mongo.Database) *MongoFavoriteRepo {
	return &MongoFavoriteRepo{col: db.Collection(database.FavoritesCollection)}
}

func (r *MongoFavoriteRepo) List(ctx context.Context, userID string) ([]models.Favorite, error) {
	return findAll[models.Favorite](ctx, r.col, ownerFilter(userID), newestFirst())
}

func (r *MongoFavoriteRepo) Exists(ctx context.Context, userID, mealID string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID, "meal_id": mealID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MongoFavoriteRepo) Create(ctx context.Context, favorite *models.Favorite) error {
	favorite.ID = primitive.NewObjectID()
	favorite.CreatedAt = time.Now()
	if _, err := r.col.InsertOne(ctx, favorite); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *MongoFavoriteRepo) Delete(ctx context.Context, userID, mealID string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID, "meal_id": mealID})
	return err
}
