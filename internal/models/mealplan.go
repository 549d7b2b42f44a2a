package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MealPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
	UserID      string             `bson:"user_id" json:"userId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Meals       []string           `bson:"meals" json:"meals"`
	Duration    int                `bson:"duration" json:"duration"` // days
	Price       float64            `bson:"price" json:"price"`
}
