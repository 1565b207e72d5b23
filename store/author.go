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

func (db *DB) InsertAuthor(ctx context.Context, author *models.Author) (primitive.ObjectID, error) {
	res, err := db.Authors().InsertOne(ctx, author, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) InsertBookSet(ctx context.Context, set *models.BookSet) (primitive.ObjectID, error) {
	res, err := db.BookSets().InsertOne(ctx, set, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// FirstAuthorByName matches query as a case-insensitive substring of the
// author name and returns the first match by author name ascending, or nil.
func (db *DB) FirstAuthorByName(ctx context.Context, query string) (*models.Author, error) {
	filter := bson.M{"authorName": bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}}
	var author models.Author
	err := db.Authors().FindOne(ctx, filter, options.FindOne().SetSort(bson.M{"authorName": 1})).Decode(&author)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// UpdateAuthorName renames the author record for a numeric book id, part of
// the fan-out that keeps Author in sync with Book edits.
func (db *DB) UpdateAuthorName(ctx context.Context, bookID int64, authorName string) error {
	_, err := db.Authors().UpdateOne(ctx, bson.M{"bookId": bookID}, bson.M{"$set": bson.M{"authorName": authorName}})
	return err
}

// UpdateBookSetName renames the book-set record for a numeric book id.
func (db *DB) UpdateBookSetName(ctx context.Context, bookID int64, bookName string) error {
	_, err := db.BookSets().UpdateOne(ctx, bson.M{"bookId": bookID}, bson.M{"$set": bson.M{"bookName": bookName}})
	return err
}

func (db *DB) DeleteAuthorByBookID(ctx context.Context, bookID int64) error {
	_, err := db.Authors().DeleteMany(ctx, bson.M{"bookId": bookID})
	return err
}

func (db *DB) DeleteBookSetByBookID(ctx context.Context, bookID int64) error {
	_, err := db.BookSets().DeleteMany(ctx, bson.M{"bookId": bookID})
	return err
}
