package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/entity"
)

// ErrNotFound is returned by lookups that match no document.
var ErrNotFound = errors.New("not found")

type FoodRepository struct {
	Coll *mongo.Collection
}

func NewFoodRepository(db *mongo.Database) *FoodRepository {
	return &FoodRepository{Coll: db.Collection("foods")}
}

// List returns foods newest first, optionally filtered by category.
func (r *FoodRepository) List(ctx context.Context, category string) ([]entity.Food, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	cur, err := r.Coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	foods := []entity.Food{}
	if err := cur.All(ctx, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

func (r *FoodRepository) Categories(ctx context.Context) ([]string, error) {
	values, err := r.Coll.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, err
	}

	cats := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			cats = append(cats, s)
		}
	}
	return cats, nil
}

func (r *FoodRepository) GetByID(ctx context.Context, id string) (*entity.Food, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *FoodRepository) GetBySlug(ctx context.Context, slug string) (*entity.Food, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *FoodRepository) findOne(ctx context.Context, filter bson.M) (*entity.Food, error) {
	var f entity.Food
	err := r.Coll.FindOne(ctx, filter).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FoodRepository) Create(ctx context.Context, f *entity.Food) error {
	_, err := r.Coll.InsertOne(ctx, f)
	return err
}

func (r *FoodRepository) Update(ctx context.Context, f *entity.Food) error {
	res, err := r.Coll.UpdateOne(ctx, bson.M{"id": f.ID}, bson.M{"$set": bson.M{
		"name":        f.Name,
		"price":       f.Price,
		"category":    f.Category,
		"description": f.Description,
		"imageUrl":    f.ImageURL,
		"slug":        f.Slug,
		"updatedAt":   f.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FoodRepository) Delete(ctx context.Context, id string) error {
	res, err := r.Coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SlugExists reports whether another food already owns the slug.
// excludeID lets an update keep its own slug.
func (r *FoodRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	filter := bson.M{"slug": slug}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	n, err := r.Coll.CountDocuments(ctx, filter)
	return n > 0, err
}

// FixMissingPrices backfills a default price on documents where the field
// is missing or null and returns how many were repaired.
func (r *FoodRepository) FixMissingPrices(ctx context.Context, price float64) (int64, error) {
	res, err := r.Coll.UpdateMany(ctx,
		bson.M{"$or": bson.A{
			bson.M{"price": bson.M{"$exists": false}},
			bson.M{"price": nil},
		}},
		bson.M{"$set": bson.M{"price": price}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
