package store

import (
	"context"

	"github.com/awesomestore/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertOrder(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	res, err := db.Orders().InsertOne(ctx, order, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) AllOrders(ctx context.Context) ([]models.Order, error) {
	cur, err := db.Orders().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (db *DB) OrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := db.Orders().FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (db *DB) UpdateOrder(ctx context.Context, id primitive.ObjectID, order *models.Order) error {
	update := bson.M{
		"bookId":   order.BookID,
		"userId":   order.UserID,
		"quantity": order.Quantity,
		"price":    order.Price,
	}
	_, err := db.Orders().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (db *DB) DeleteOrder(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := db.Orders().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
