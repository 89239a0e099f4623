package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"cmcs/internal/repository"
	"cmcs/internal/seed"
	"cmcs/pkg/auth"
	"cmcs/pkg/config"
	"cmcs/pkg/logger"
	"cmcs/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	fixturePath := flag.String("file", filepath.Join("cmd", "seed", "seed.yaml"), "YAML fixture to load")
	printTokens := flag.Bool("tokens", true, "print a development JWT for every seeded user")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	fx, err := seed.LoadFile(*fixturePath)
	if err != nil {
		appLogger.Fatal("Failed to load fixture", zap.String("path", *fixturePath), zap.Error(err))
	}

	appLogger.Info("Starting database seeding...", zap.String("fixture", *fixturePath))
	users, err := seed.Apply(ctx, fx,
		repository.NewUserRepository(db, appLogger),
		repository.NewClaimRepository(db, appLogger),
		appLogger,
	)
	if err != nil {
		appLogger.Fatal("Failed to seed database", zap.Error(err))
	}
	appLogger.Info("Database seeding completed successfully!")

	if !*printTokens {
		return
	}
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)
	for _, u := range users {
		token, err := jwtManager.GenerateToken(u.ID, u.Email, string(u.Role))
		if err != nil {
			appLogger.Fatal("Failed to sign token", zap.String("email", u.Email), zap.Error(err))
		}
		fmt.Printf("%-18s %-32s %s\n", u.Role.DisplayName(), u.Email, token)
	}
}
