package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Postcode  string             `bson:"postcode" json:"postcode"`
	Address   string             `bson:"address" json:"address"`
	Country   string             `bson:"country" json:"country"`
	Province  string             `bson:"province" json:"province"`
	Password  string             `bson:"password" json:"-"` // bcrypt hash
	IsAdmin   bool               `bson:"isAdmin" json:"isAdmin"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
