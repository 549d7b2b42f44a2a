package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Purchase struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UserID        string             `bson:"user_id" json:"userId"`
	MealPlanID    string             `bson:"meal_plan_id" json:"mealPlanId"`
	Amount        float64            `bson:"amount" json:"amount"`
	PaymentMethod string             `bson:"payment_method,omitempty" json:"paymentMethod,omitempty"`
	Status        string             `bson:"status" json:"status"`
}
