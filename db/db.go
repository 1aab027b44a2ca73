package db

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2/log"
	"github.com/mcmanyika/Musika/config"
	"github.com/mcmanyika/Musika/types"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Models lists every table owned by the service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&types.Commodity{},
		&types.ProducerYield{},
		&types.BuyerOrder{},
		&types.TransportBid{},
		&types.TransactionHistory{},
		&types.Rating{},
		&types.UserProfile{},
	}
}

func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBType {
	case config.DBPostgres:
		dialector = postgres.Open(cfg.PostgresDSN)
	case config.DBSQLite:
		dialector = sqlite.Open(cfg.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DBType)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.DBType == config.DBSQLite {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		// single writer
		sqlDB.SetMaxOpenConns(1)
	}
	return gdb, nil
}

func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(Models()...)
}

// Init opens the configured database, migrates it and stores it in DB.
func Init(cfg *config.Config) {
	gdb, err := Open(cfg)
	if err != nil {
		panic(err)
	}
	if err := Migrate(gdb); err != nil {
		panic(fmt.Sprintf("failed to migrate database: %v", err))
	}
	log.Infof("Database ready (%s)", cfg.DBType)
	DB = gdb
}
