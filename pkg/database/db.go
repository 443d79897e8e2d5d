package database

import (
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/sahilverma/nursestation-go/pkg/models"
)

// InitDB opens the database connection and migrates the schema. A non-empty
// DATABASE_URL selects Postgres; otherwise a local SQLite file is used
// (path from DATA_PATH, default nursestation.db).
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "nursestation.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		klog.Fatalf("failed to connect database: %v", err)
	}

	if err := Migrate(db); err != nil {
		klog.Fatalf("failed to migrate schema: %v", err)
	}

	return db
}

// Migrate creates or updates the tables for all persisted models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.ShiftEntry{},
		&models.InventoryItem{},
		&models.BillingRecord{},
		&models.Protocol{},
		&models.ProtocolChunks{},
	)
}
