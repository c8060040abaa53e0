package main

import (
	"context"
	"log"
	"os"
	"time"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	token, err := auth.NewToken(cfg.JWTSecret, seed.DemoShopperID, "shopper", 24*time.Hour)
	if err != nil {
		logger.Fatalf("issue dev token: %v", err)
	}

	logger.Println("seed applied")
	logger.Printf("demo shopper id: %s", seed.DemoShopperID)
	logger.Printf("demo bearer token: %s", token)
}
