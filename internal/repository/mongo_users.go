package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/mealmate-backend/internal/database"
	"github.com/AnshRaj112/mealmate-backend/internal/models"
)

type MongoUserRepo struct {
	col *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{col: db.Collection(database.UsersCollection)}
}

// emailFilter anchors a regex-escaped address so metacharacters in the input
// cannot widen the match.
func emailFilter(email string) bson.M {
	return bson.M{"email": bson.M{
		"$regex":   "^" + regexp.QuoteMeta(email) + "$",
		"$options": "i",
	}}
}

func (r *MongoUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := findOne(ctx, r.col, emailFilter(email), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := findOne(ctx, r.col, bson.M{"_id": oid}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepo) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var user models.User
	if err := findOne(ctx, r.col, bson.M{"google_id": googleID}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *MongoUserRepo) update(ctx context.Context, id string, set bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	set["updated_at"] = time.Now()
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepo) MarkVerified(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	result, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "is_verified": false},
		bson.M{"$set": bson.M{"is_verified": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrUnchanged
}

func (r *MongoUserRepo) SetPassword(ctx context.Context, id, passwordHash string) error {
	return r.update(ctx, id, bson.M{"password": passwordHash})
}

// LinkGoogle attaches a federated identity. Linking proves ownership of the
// address, so the account is marked verified as well.
func (r *MongoUserRepo) LinkGoogle(ctx context.Context, id, googleID string) error {
	return r.update(ctx, id, bson.M{"google_id": googleID, "is_verified": true})
}

func (r *MongoUserRepo) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.AvatarURL != nil {
		set["avatar_url"] = *update.AvatarURL
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
