package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type OrderItem struct {
	MealID   string  `bson:"meal_id" json:"mealId"`
	Name     string  `bson:"name,omitempty" json:"name,omitempty"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Price    float64 `bson:"price" json:"price"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
	UserID          string             `bson:"user_id" json:"userId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	TotalPrice      float64            `bson:"total_price" json:"totalPrice"`
	Status          OrderStatus        `bson:"status" json:"status"`
	DeliveryAddress string             `bson:"delivery_address,omitempty" json:"deliveryAddress,omitempty"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
}
