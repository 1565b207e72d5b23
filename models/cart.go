package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is one pending intent to purchase a quantity of one book.
// BookName and Price are denormalized at add time: Price is the line total
// (unit price times quantity), not the unit price. Lines live until checkout
// converts them to orders or the owner removes them.
type CartLine struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	BookID    primitive.ObjectID   `bson:"bookId" json:"bookId"`
	BookName  string               `bson:"bookName" json:"bookName"`
	UserID    primitive.ObjectID   `bson:"userId" json:"userId"`
	Quantity  int64                `bson:"quantity" json:"quantity"`
	Price     primitive.Decimal128 `bson:"price" json:"price"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}
