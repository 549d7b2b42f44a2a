package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite links a user to a meal. (user_id, meal_id) is unique.
type Favorite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UserID    string             `bson:"user_id" json:"userId"`
	MealID    string             `bson:"meal_id" json:"mealId"`
}
