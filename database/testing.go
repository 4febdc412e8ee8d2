package database

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ConnectTestDB() (*gorm.DB, error) {
	gormConfig := gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	return gorm.Open(sqlite.Open(":memory:"), &gormConfig)
}

func ConnectAndInitializeTestDB() (*gorm.DB, error) {
	db, err := ConnectTestDB()
	if err != nil {
		return nil, err
	}

	// Initialize - auto migrate
	err = db.AutoMigrate(entities...)
	if err != nil {
		return nil, err
	}
	return db, nil
}
