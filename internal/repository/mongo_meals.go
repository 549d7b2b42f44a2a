package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnshRaj112/mealmate-backend/internal/database"
	"github.com/AnshRaj112/mealmate-backend/internal/models"
)

type MongoMealRepo struct {
	col *mongo.Collection
}

func NewMongoMealRepo(db *mongo.Database) *MongoMealRepo {
	return &MongoMealRepo{col: db.Collection(database.MealsCollection)}
}

func mealFilter(f models.MealFilter) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = bson.M{"$regex": "^" + regexp.QuoteMeta(f.Category) + "$", "$options": "i"}
	}
	if f.Search != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}
	if f.CreatedBy != "" {
		filter["created_by"] = f.CreatedBy
	}
	return filter
}

func (r *MongoMealRepo) List(ctx context.Context, filter models.MealFilter) ([]models.Meal, error) {
	return findAll[models.Meal](ctx, r.col, mealFilter(filter), newestFirst())
}

func (r *MongoMealRepo) FindByID(ctx context.Context, id string) (*models.Meal, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var meal models.Meal
	if err := findOne(ctx, r.col, bson.M{"_id": oid}, &meal); err != nil {
		return nil, err
	}
	return &meal, nil
}

func (r *MongoMealRepo) Create(ctx context.Context, meal *models.Meal) error {
	now := time.Now()
	meal.ID = primitive.NewObjectID()
	meal.CreatedAt = now
	meal.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, meal)
	return err
}

func (r *MongoMealRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
