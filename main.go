package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"backend/configs"
	"backend/middlewares"
	"backend/repository"
	"backend/routes"
)

func main() {
	seed := flag.Bool("seed", false, "seed the starter catalog into an empty foods collection")
	flag.Parse()

	cfg := configs.LoadConfig()

	// DB
	configs.ConnectionDB(cfg)
	db := configs.DB()
	configs.SetupIndexes()

	if err := configs.SeedAdmin(cfg); err != nil {
		log.Fatalf("seed admin failed: %v", err)
	}
	if *seed {
		if err := configs.SeedFoods(); err != nil {
			log.Fatalf("seed foods failed: %v", err)
		}
	}

	// Sweep pending orders that never got a gateway session attached
	// (crash between the two checkout writes).
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	orderRepo := repository.NewOrderRepository(db)
	if n, err := orderRepo.ExpireStalePending(ctx, time.Now().Add(-24*time.Hour)); err != nil {
		log.Printf("stale pending sweep failed: %v", err)
	} else if n > 0 {
		log.Printf("expired %d stale pending orders", n)
	}
	cancel()

	// HTTP
	r := gin.Default()
	r.Use(middlewares.CORSMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.String(200, "Backend server running successfully")
	})

	routes.RegisterRoutes(r, db, cfg)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Println("Server started on port", cfg.Port)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
