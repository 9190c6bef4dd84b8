package client

import (
	"context"
	"fmt"

	"secondhand-market/internal/config"
	"secondhand-market/internal/repository"
	"secondhand-market/internal/repository/mongostore"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenStore connects the backend selected by cfg.Driver, prepares its schema
// and seeds the category reference data. The caller owns the returned store
// and must Close it.
func OpenStore(ctx context.Context, cfg config.Database) (repository.Store, error) {
	var store repository.Store

	switch cfg.Driver {
	case "mongo":
		mc, err := InitMongoClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		ms := mongostore.New(mc, cfg.Name, cfg.MongoTransactions)
		if err := ms.EnsureIndexes(ctx); err != nil {
			_ = ms.Close()
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		store = ms
	case "sqlite", "mysql":
		db, err := InitGormClient(cfg)
		if err != nil {
			return nil, err
		}
		store = repository.NewGormStore(db)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err := store.Categories().Seed(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("seed categories: %w", err)
	}

	return store, nil
}

func InitGormClient(cfg config.Database) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.URL)
	case "sqlite":
		dialector = sqlite.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := repository.Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}
