package configs

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	MongoURI            string
	MongoDB             string
	StripeSecretKey     string
	StripeWebhookSecret string
	FrontendURL         string
	JWTSecret           string
	JWTTTL              time.Duration
	AdminEmail          string
	AdminPassword       string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, reading configuration from environment")
	}

	return &Config{
		Port:                getEnv("PORT", "4000"),
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:             getEnv("MONGO_DB", "foodcourt"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:5173"),
		JWTSecret:           getEnv("JWT_SECRET", "changeme"),
		JWTTTL:              24 * time.Hour,
		AdminEmail:          os.Getenv("ADMIN_EMAIL"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
