package database

import (
	"fmt"
	"log"

	"github.com/mj8star/cn-stock-monitor/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Initialize opens the local sqlite store and ensures the
// daily_records schema exists. Safe to call on every start; failure
// here is a precondition failure and callers should abort.
//
// The store is single-writer: one sync cycle holds the handle for its
// whole run and nothing else writes, so no locking is layered on top.
func Initialize(path string) (*gorm.DB, error) {
	if path == "" {
		path = "stock_data.db"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&models.DailyRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate daily_records: %w", err)
	}

	log.Println("Database initialized successfully")
	return db, nil
}
