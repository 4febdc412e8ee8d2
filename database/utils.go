package database

import (
	"fmt"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/config"

	"github.com/go-sql-driver/mysql"
	gormMysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var (
	// List entities to auto-migrate
	entities []interface{} = []interface{}{
		Order{},
		OrderItem{},
		CryptoAddress{},
		CryptoTransaction{},
		DerivationCounter{},
		PriceSnapshot{},
		CryptoAuditLog{},
	}
)

func ConnectAndInitialize(cfg *config.DBConfig) (*gorm.DB, error) {
	dbConfig := mysql.Config{
		User:                 cfg.Username,
		Passwd:               cfg.Password,
		Net:                  "tcp",
		Addr:                 fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		DBName:               cfg.Database,
		AllowNativePasswords: true,
		ParseTime:            true,
	}
	gormLogLevel := gormLogger.Silent
	if cfg.LogQueries {
		gormLogLevel = gormLogger.Info
	}
	gormConfig := gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogLevel),
	}
	db, err := gorm.Open(gormMysql.Open(dbConfig.FormatDSN()), &gormConfig)
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(entities...)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func DoInTransaction(db *gorm.DB, operations ...func(db *gorm.DB) error) error {
	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, f := range operations {
		if err := f(tx); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}
