package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is unique per (user, product, order); only delivered orders can be
// reviewed.
type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user" json:"user"`
	ProductID  primitive.ObjectID `bson:"product" json:"product"`
	OrderID    primitive.ObjectID `bson:"order" json:"order"`
	Rating     int                `bson:"rating" json:"rating"`
	Comment    string             `bson:"comment,omitempty" json:"comment,omitempty"`
	Images     []string           `bson:"images,omitempty" json:"images,omitempty"`
	IsVerified bool               `bson:"isVerified" json:"isVerified"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
