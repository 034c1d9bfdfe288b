package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/alahijani/biostar-central/internal/models"
)

// Open connects to postgres and migrates the schema.
func Open(dsn string, logger *zap.Logger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("db: postgres DSN is required")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}
	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info("database initialized", zap.String("driver", "postgres"))
	}
	return gdb, nil
}

// OpenSQLite opens an embedded sqlite database. Used for local setups and
// throughout the test suite; the pure-Go driver needs a single connection.
func OpenSQLite(path string, logger *zap.Logger) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db: sqlite path is required")
	}
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info("database initialized", zap.String("driver", "sqlite"), zap.String("path", path))
	}
	return gdb, nil
}

// Migrate creates or updates the schema for every persisted entity.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Tag{},
		&models.Post{},
		&models.PostTag{},
		&models.Vote{},
		&models.Badge{},
		&models.Award{},
		&models.Note{},
		&models.PostRevision{},
	)
}

// SeedBadges inserts the default badge set once.
func SeedBadges(gdb *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := gdb.Model(&models.Badge{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	badges := []models.Badge{
		{Name: "Student", Description: "Asked a question with at least one up-vote", Type: models.BadgeBronze, Unique: true},
		{Name: "Teacher", Description: "Answered a question with at least one up-vote", Type: models.BadgeBronze, Unique: true},
		{Name: "Supporter", Description: "Voted at least 25 times", Type: models.BadgeBronze, Unique: true},
		{Name: "Scholar", Description: "Created an answer that was accepted", Type: models.BadgeBronze, Unique: true},
		{Name: "Commentator", Description: "Created at least 10 comments", Type: models.BadgeBronze, Unique: true},
		{Name: "Good Question", Description: "Asked a question that was up-voted at least 5 times", Type: models.BadgeSilver},
		{Name: "Good Answer", Description: "Created an answer that was up-voted at least 5 times", Type: models.BadgeSilver},
		{Name: "Great Question", Description: "Asked a question that was up-voted at least 10 times", Type: models.BadgeGold},
		{Name: "Great Answer", Description: "Created an answer that was up-voted at least 10 times", Type: models.BadgeGold},
	}
	for i := range badges {
		if err := gdb.Create(&badges[i]).Error; err != nil {
			return fmt.Errorf("db: seed badge %q: %w", badges[i].Name, err)
		}
	}
	if logger != nil {
		logger.Info("default badges created", zap.Int("count", len(badges)))
	}
	return nil
}
