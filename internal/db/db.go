package db

import (
	"fmt"
	"log"
	"yatube/internal/config"
	"yatube/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the configured database, migrates it and seeds reference data.
func Init(cfg *config.Config) {
	var err error
	DB, err = Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	if err := SeedGroups(DB); err != nil {
		log.Printf("Failed to seed groups: %v", err)
	}
}

// Open connects with the given driver ("postgres" or "sqlite").
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		// An in-memory sqlite database lives per connection.
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	}
	return conn, nil
}

func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
}

// SeedGroups creates the default groups when the table is empty.
func SeedGroups(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&models.Group{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Groups already seeded, skipping")
		return nil
	}

	groups := []models.Group{
		{Title: "Лев Толстой", Slug: "leo", Description: "Записи о жизни и творчестве Льва Толстого"},
		{Title: "Котики", Slug: "cats", Description: "Всё о котах"},
		{Title: "Разработка", Slug: "dev", Description: "Заметки разработчиков"},
	}
	for _, group := range groups {
		if err := conn.Create(&group).Error; err != nil {
			log.Printf("Failed to create group %s: %v", group.Slug, err)
		}
	}
	log.Println("Initial groups created successfully")
	return nil
}
