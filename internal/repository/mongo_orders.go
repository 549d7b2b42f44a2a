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

type MongoOrderRepo struct {
	col *mongo.Collection
}

func NewMongoOrderRepo(db *mongo.Database) *MongoOrderRepo {
	return &MongoOrderRepo{col: db.Collection(database.OrdersCollection)}
}

func (r *MongoOrderRepo) List(ctx context.Context, userID string) ([]models.Order, error) {
	return findAll[models.Order](ctx, r.col, ownerFilter(userID), newestFirst())
}

func (r *MongoOrderRepo) FindByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := findOne(ctx, r.col, bson.M{"_id": oid}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MongoOrderRepo) Create(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	_, err := r.col.InsertOne(ctx, order)
	return err
}

func (r *MongoOrderRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

type MongoPurchaseRepo struct {
	col *mongo.Collection
}

func NewMongoPurchaseRepo(db *mongo.Database) *MongoPurchaseRepo {
	return &MongoPurchaseRepo{col: db.Collection(database.PurchasesCollection)}
}

func (r *MongoPurchaseRepo) List(ctx context.Context, userID string) ([]models.Purchase, error) {
	return findAll[models.Purchase](ctx, r.col, ownerFilter(userID), newestFirst())
}

func (r *MongoPurchaseRepo) FindByID(ctx context.Context, id string) (*models.Purchase, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var purchase models.Purchase
	if err := findOne(ctx, r.col, bson.M{"_id": oid}, &purchase); err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *MongoPurchaseRepo) Create(ctx context.Context, purchase *models.Purchase) error {
	purchase.ID = primitive.NewObjectID()
	purchase.CreatedAt = time.Now()
	if purchase.Status == "" {
		purchase.Status = "completed"
	}
	_, err := r.col.InsertOne(ctx, purchase)
	return err
}

func (r *MongoPurchaseRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
