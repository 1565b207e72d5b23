package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is a confirmed purchase of one book. Created by checkout (one per
// cart line) or by the back-office add-order form; historical record,
// mutated only through the manual order-edit flow.
type Order struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	BookID    primitive.ObjectID   `bson:"bookId" json:"bookId"`
	UserID    primitive.ObjectID   `bson:"userId" json:"userId"`
	Quantity  int64                `bson:"quantity" json:"quantity"`
	Price     primitive.Decimal128 `bson:"price" json:"price"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}
