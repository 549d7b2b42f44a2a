package database

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultDatabaseName = "mealmate"

// Collection names shared by the repositories.
const (
	UsersCollection        = "users"
	MealsCollection        = "meals"
	OrdersCollection       = "orders"
	PurchasesCollection    = "purchases"
	FavoritesCollection    = "favorites"
	MealPlansCollection    = "meal_plans"
	ActivityLogsCollection = "activity_logs"
)

// Mongo holds the process-wide client and the selected database.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// ConnectMongo dials MongoDB and pings it. The caller owns the returned handle
// and must call Close on shutdown.
func ConnectMongo(ctx context.Context, mongoURI string) (*Mongo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Mongo{Client: client, DB: client.Database(DatabaseName(mongoURI))}, nil
}

// DatabaseName extracts the database from a connection string of the form
// mongodb://host/name?opts, falling back to "mealmate".
func DatabaseName(mongoURI string) string {
	rest := mongoURI
	if idx := strings.Index(rest, "://"); idx != -1 {
		rest = rest[idx+3:]
	}
	idx := strings.Index(rest, "/")
	if idx == -1 {
		return defaultDatabaseName
	}
	name := strings.Split(rest[idx+1:], "?")[0]
	if name == "" {
		return defaultDatabaseName
	}
	return name
}

func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

// EnsureIndexes declares the indexes the repositories rely on. The unique
// email index is what makes concurrent sign-ups with one address safe.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("uniq_email").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "google_id", Value: 1}},
				Options: options.Index().SetName("uniq_google_id").SetUnique(true).SetSparse(true),
			},
		},
		FavoritesCollection: {
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "meal_id", Value: 1},
				},
				Options: options.Index().SetName("uniq_user_meal").SetUnique(true),
			},
		},
		OrdersCollection: {
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "created_at", Value: -1},
				},
				Options: options.Index().SetName("idx_user_created"),
			},
		},
		PurchasesCollection: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetName("idx_user"),
			},
		},
		MealPlansCollection: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetName("idx_user"),
			},
		},
		ActivityLogsCollection: {
			{
				Keys:    bson.D{{Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_created"),
			},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
