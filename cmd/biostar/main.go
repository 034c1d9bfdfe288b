package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alahijani/biostar-central/internal/config"
	"github.com/alahijani/biostar-central/internal/db"
	"github.com/alahijani/biostar-central/internal/logging"
	"github.com/alahijani/biostar-central/internal/models"
	"github.com/alahijani/biostar-central/internal/services"
)

// Initializes the store and the engine. The HTTP layer that drives the
// engine is deployed separately; this binary prepares the schema, seeds the
// badge set and verifies the wiring.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from the system")
	}

	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	var gdb *gorm.DB
	if cfg.DatabaseURL != "" {
		gdb, err = db.Open(cfg.DatabaseURL, logger)
	} else {
		gdb, err = db.OpenSQLite(cfg.SQLitePath, logger)
	}
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.SeedBadges(gdb, logger); err != nil {
		logger.Fatal("failed to seed badges", zap.Error(err))
	}

	engine, err := services.New(services.Config{
		DB:              gdb,
		Logger:          logger,
		VoteRankHours:   cfg.VoteRankHours,
		ViewRankBonus:   cfg.ViewRankBonus,
		ContentIndexing: cfg.ContentIndexing,
	})
	if err != nil {
		logger.Fatal("failed to build engine", zap.Error(err))
	}

	var users, posts int64
	engine.DB().Model(&models.User{}).Count(&users)
	engine.DB().Model(&models.Post{}).Count(&posts)

	logger.Info("biostar engine ready",
		zap.Int64("users", users),
		zap.Int64("posts", posts),
		zap.Float64("vote_rank_hours", cfg.VoteRankHours),
		zap.Bool("content_indexing", cfg.ContentIndexing))
}
