package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/entity"
)

type AdminRepository struct {
	Coll *mongo.Collection
}

func NewAdminRepository(db *mongo.Database) *AdminRepository {
	return &AdminRepository{Coll: db.Collection("admins")}
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	var a entity.Admin
	err := r.Coll.FindOne(ctx, bson.M{"email": email}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
