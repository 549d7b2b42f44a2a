package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/mealmate-backend/internal/database"
	"github.com/AnshRaj112/mealmate-backend/internal/models"
)

type MongoActivityLogRepo struct {
	col *mongo.Collection
}

func NewMongoActivityLogRepo(db *mongo.Database) *MongoActivityLogRepo {
	return &MongoActivityLogRepo{col: db.Collection(database.ActivityLogsCollection)}
}

func (r *MongoActivityLogRepo) Append(ctx context.Context, entry *models.ActivityLog) error {
	now := time.Now()
	entry.ID = primitive.NewObjectID().Hex()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, entry)
	return err
}

func (r *MongoActivityLogRepo) List(ctx context.Context, limit, skip int64) ([]models.ActivityLog, int64, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	logs, err := findAll[models.ActivityLog](ctx, r.col, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
