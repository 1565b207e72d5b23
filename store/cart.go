package store

import (
	"context"

	"github.com/awesomestore/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertCartLine(ctx context.Context, line *models.CartLine) (primitive.ObjectID, error) {
	res, err := db.Carts().InsertOne(ctx, line, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// CartLinesByUser returns the user's cart lines in the order they were added.
// Every cart read filters by the owning user.
func (db *DB) CartLinesByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartLine, error) {
	cur, err := db.Carts().Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var lines []models.CartLine
	if err := cur.All(ctx, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (db *DB) CartLineByID(ctx context.Context, id primitive.ObjectID) (*models.CartLine, error) {
	var line models.CartLine
	err := db.Carts().FindOne(ctx, bson.M{"_id": id}).Decode(&line)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// DeleteCartLine removes a line by id, reporting whether it existed.
func (db *DB) DeleteCartLine(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := db.Carts().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
