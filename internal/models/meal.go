package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Meal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	ImageURL    string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Calories    int                `bson:"calories,omitempty" json:"calories,omitempty"`
	Ingredients []string           `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	CreatedBy   string             `bson:"created_by,omitempty" json:"createdBy,omitempty"`
}

// MealFilter narrows GET /meals. Zero values mean "no constraint".
type MealFilter struct {
	Category  string
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	CreatedBy string
}

func (f MealFilter) IsZero() bool {
	return f.Category == "" && f.Search == "" && f.MinPrice == nil && f.MaxPrice == nil && f.CreatedBy == ""
}
