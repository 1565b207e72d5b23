package store

import (
	"context"
	"regexp"

	"github.com/awesomestore/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	res, err := db.Books().InsertOne(ctx, book, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// AllBooks returns the whole catalog sorted by title. The store gives no
// natural order, so title ascending keeps listings stable.
func (db *DB) AllBooks(ctx context.Context) ([]models.Book, error) {
	cur, err := db.Books().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"title": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var books []models.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (db *DB) BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	err := db.Books().FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// BooksByNumericID returns books carrying the given store-generated book id,
// used to resolve an author match back to its books.
func (db *DB) BooksByNumericID(ctx context.Context, bookID int64) ([]models.Book, error) {
	cur, err := db.Books().Find(ctx, bson.M{"bookId": bookID}, options.Find().SetSort(bson.M{"title": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var books []models.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// SearchBooksByTitle matches query as a case-insensitive substring of the
// title, sorted by title.
func (db *DB) SearchBooksByTitle(ctx context.Context, query string) ([]models.Book, error) {
	filter := bson.M{"title": bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}}
	cur, err := db.Books().Find(ctx, filter, options.Find().SetSort(bson.M{"title": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var books []models.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (db *DB) UpdateBook(ctx context.Context, id primitive.ObjectID, book *models.Book) error {
	update := bson.M{
		"title":       book.Title,
		"authorName":  book.AuthorName,
		"description": book.Description,
		"quantity":    book.Quantity,
		"price":       book.Price,
	}
	if book.ImageName != "" {
		update["imageName"] = book.ImageName
	}
	_, err := db.Books().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

// DeleteBook removes a book and returns the deleted document so callers can
// clean up its image and denormalized records. Returns nil when absent.
func (db *DB) DeleteBook(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	err := db.Books().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// DecrementBookQuantity subtracts n from the book's stock only when at least
// n units are on hand. Reports whether the decrement was applied; false means
// the book is missing or stock is insufficient.
func (db *DB) DecrementBookQuantity(ctx context.Context, id primitive.ObjectID, n int64) (bool, error) {
	res, err := db.Books().UpdateOne(ctx,
		bson.M{"_id": id, "quantity": bson.M{"$gte": n}},
		bson.M{"$inc": bson.M{"quantity": -n}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// IncrementBookQuantity restores stock removed by DecrementBookQuantity when
// a later checkout step fails.
func (db *DB) IncrementBookQuantity(ctx context.Context, id primitive.ObjectID, n int64) error {
	_, err := db.Books().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"quantity": n}})
	return err
}
