package store

import (
	"context"

	"github.com/awesomestore/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	res, err := db.Users().InsertOne(ctx, user, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := db.Users().FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *DB) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := db.Users().FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByName looks up the login principal; accounts sign in by name.
func (db *DB) UserByName(ctx context.Context, name string) (*models.User, error) {
	var u models.User
	err := db.Users().FindOne(ctx, bson.M{"name": name}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	cur, err := db.Users().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser rewrites a user's profile fields. Password is updated only when
// hashedPassword is non-nil.
func (db *DB) UpdateUser(ctx context.Context, id primitive.ObjectID, user *models.User, hashedPassword *string) error {
	update := bson.M{
		"name":     user.Name,
		"email":    user.Email,
		"phone":    user.Phone,
		"postcode": user.Postcode,
		"address":  user.Address,
		"country":  user.Country,
		"province": user.Province,
		"isAdmin":  user.IsAdmin,
	}
	if hashedPassword != nil {
		update["password"] = *hashedPassword
	}
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (db *DB) DeleteUser(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := db.Users().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
