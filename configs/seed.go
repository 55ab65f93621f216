package configs

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"backend/entity"
	"backend/utils"
)

// SeedAdmin creates the admin account from ADMIN_EMAIL/ADMIN_PASSWORD on
// first startup. Skipped when the env vars are absent or the admin exists.
func SeedAdmin(cfg *Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Println("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := db.Collection("admins")
	n, err := coll.CountDocuments(ctx, bson.M{"email": cfg.AdminEmail})
	if err != nil {
		return err
	}
	if n > 0 {
		log.Println("admin already exists:", cfg.AdminEmail)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = coll.InsertOne(ctx, entity.Admin{
		Email:     cfg.AdminEmail,
		Password:  string(hash),
		CreatedAt: time.Now(),
	})
	return err
}

type seedFood struct {
	name     string
	price    float64
	category string
	image    string
}

// Category-level image fallbacks for seed items without a photo of their own.
var categoryImages = map[string]string{
	"Veg Items":          "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?q=80&w=800&auto=format&fit=crop",
	"Non-Veg Items":      "https://images.unsplash.com/photo-1504674900247-087703934569?q=80&w=800&auto=format&fit=crop",
	"Juices & Beverages": "https://images.unsplash.com/photo-1551024601-bec78aea704c?q=80&w=800&auto=format&fit=crop",
	"Milkshakes":         "https://images.unsplash.com/photo-1577805947697-1e6ef734513f?q=80&w=800&auto=format&fit=crop",
	"Ice Creams":         "https://images.unsplash.com/photo-1560008581-98ca82856190?q=80&w=800&auto=format&fit=crop",
	"Chat Items":         "https://images.unsplash.com/photo-1589301760014-d929f3979dbc?q=80&w=800&auto=format&fit=crop",
}

var seedFoods = []seedFood{
	{"Paneer Roll", 60, "Veg Items", "/images/paneer-roll.jpg"},
	{"Veg Burger", 50, "Veg Items", "/images/Veg Burger.jpg"},
	{"Masala Dosa", 55, "Veg Items", "/images/masala-dosa.jpg"},
	{"Plain Dosa", 40, "Veg Items", "/images/Plain Dosa.jpg"},
	{"Idli Vada", 35, "Veg Items", "/images/Idli Vada.jpg"},
	{"French Fries", 45, "Veg Items", "/images/french-fries.jpg"},
	{"Maggi", 30, "Veg Items", "/images/maggi.jpg"},
	{"Chapathi Kurma", 45, "Veg Items", "/images/Chapathi Kurma.jpg"},
	{"Chicken Biryani", 120, "Non-Veg Items", "/images/chicken-biryani.jpg"},
	{"Chicken Gravy Parota", 90, "Non-Veg Items", "/images/chicken-gravy-parota.png"},
	{"Fresh Lime Juice", 25, "Juices & Beverages", ""},
	{"Mango Juice", 35, "Juices & Beverages", ""},
	{"Chocolate Milkshake", 60, "Milkshakes", ""},
	{"Vanilla Scoop", 30, "Ice Creams", ""},
	{"Dahi Vada", 35, "Chat Items", "/images/Dahi Vada.jpg"},
	{"Onion Pakoda", 30, "Chat Items", "/images/Onion Pakoda.jpg"},
}

// SeedFoods loads the starter catalog when the collection is empty.
func SeedFoods() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	coll := db.Collection("foods")
	n, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("skip seeding foods: %d items already present", n)
		return nil
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(seedFoods))
	for _, sf := range seedFoods {
		image := sf.image
		if image == "" {
			image = categoryImages[sf.category]
		}
		docs = append(docs, entity.Food{
			ID:        uuid.NewString(),
			Name:      sf.name,
			Price:     sf.price,
			Category:  sf.category,
			ImageURL:  image,
			Slug:      utils.Slugify(sf.name),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return err
	}
	log.Printf("seeded %d foods", len(docs))
	return nil
}
