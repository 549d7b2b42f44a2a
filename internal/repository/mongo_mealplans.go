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

type MongoMealPlanRepo struct {
	col *mongo.Collection
}

func NewMongoMealPlanRepo(db *mongo.Database) *MongoMealPlanRepo {
	return &MongoMealPlanRepo{col: db.Collection(database.MealPlansCollection)}
}

func (r *MongoMealPlanRepo) List(ctx context.Context, userID string) ([]models.MealPlan, error) {
	return findAll[models.MealPlan](ctx, r.col, ownerFilter(userID), newestFirst())
}

func (r *MongoMealPlanRepo) FindByID(ctx context.Context, id string) (*models.MealPlan, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var plan models.MealPlan
	if err := findOne(ctx, r.col, bson.M{"_id": oid}, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *MongoMealPlanRepo) Create(ctx context.Context, plan *models.MealPlan) error {
	now := time.Now()
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, plan)
	return err
}

func (r *MongoMealPlanRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
