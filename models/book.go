package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is a catalog entry. BookID is the store-generated numeric identifier
// used by the denormalized Author and BookSet records; ID is the document id.
type Book struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	BookID      int64                `bson:"bookId" json:"bookId"`
	Title       string               `bson:"title" json:"title"`
	AuthorName  string               `bson:"authorName" json:"authorName"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	ImageName   string               `bson:"imageName,omitempty" json:"imageName,omitempty"`
	Quantity    int64                `bson:"quantity" json:"quantity"`
	Price       primitive.Decimal128 `bson:"price" json:"price"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}

// Author duplicates a book's author name keyed by the numeric book id so
// search can resolve an author match back to books. Kept in sync with Book
// by the book write path.
type Author struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookID     int64              `bson:"bookId" json:"bookId"`
	AuthorID   int64              `bson:"authorId" json:"authorId"`
	AuthorName string             `bson:"authorName" json:"authorName"`
}

// BookSet duplicates a book's title keyed by the numeric book id.
type BookSet struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookID   int64              `bson:"bookId" json:"bookId"`
	AuthorID int64              `bson:"authorId" json:"authorId"`
	BookName string             `bson:"bookName" json:"bookName"`
}
