package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"transcript-player/internal/config"
	"transcript-player/internal/models"
)

type Client struct {
	DB *gorm.DB
}

func New(cfg *config.Config) *Client {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		log.Fatalf("❌ Database config: %v", err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	if cfg.Database.Driver == "postgres" {
		// Connection Pool Settings
		sqlDB, _ := db.DB()
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Printf("✅ Database Connected (%s)", cfg.Database.Driver)

	return &Client{DB: db}
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.Database.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.Database.Host,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
			cfg.Database.Port,
		)
		return postgres.Open(dsn), nil
	case "sqlite", "":
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
			return nil, err
		}
		return sqlite.Open(cfg.Database.Path), nil
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Database.Driver)
	}
}

// AutoMigrate creates/updates tables based on struct definitions
func (c *Client) AutoMigrate() {
	log.Println("Running Database Migrations...")
	if err := Migrate(c.DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("✅ Migrations Complete")
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Recording{},
		&models.RecordingPhrase{},
	)
}
