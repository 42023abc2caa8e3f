package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Address struct {
	Label        string `bson:"label,omitempty" json:"label,omitempty"`
	AddressLine1 string `bson:"addressLine1" json:"addressLine1"`
	AddressLine2 string `bson:"addressLine2,omitempty" json:"addressLine2,omitempty"`
	City         string `bson:"city,omitempty" json:"city,omitempty"`
	State        string `bson:"state,omitempty" json:"state,omitempty"`
	Zip          string `bson:"zip,omitempty" json:"zip,omitempty"`
	Country      string `bson:"country,omitempty" json:"country,omitempty"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	IsDefault    bool   `bson:"isDefault" json:"isDefault"`
}

// PaymentMethod is a stored display stub, not a payment integration.
type PaymentMethod struct {
	Type      string `bson:"type,omitempty" json:"type,omitempty"`
	CardLast4 string `bson:"cardLast4,omitempty" json:"cardLast4,omitempty"`
	Brand     string `bson:"brand,omitempty" json:"brand,omitempty"`
	IsDefault bool   `bson:"isDefault" json:"isDefault"`
}

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"`
	IsAdmin        bool               `bson:"isAdmin" json:"isAdmin"`
	Addresses      []Address          `bson:"addresses" json:"addresses"`
	PaymentMethods []PaymentMethod    `bson:"paymentMethods" json:"paymentMethods"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
