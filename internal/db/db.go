package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Setting is a single durable key/value pair. The console only ever
// stores the "session" key.
type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 4
		maxIdleConns    = 2
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

// Open opens the local state database and migrates the settings table.
func Open(ctx context.Context, path string) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("STATE_DB is empty")
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping state db: %w", err)
	}

	if err := gdb.AutoMigrate(&Setting{}); err != nil {
		return nil, fmt.Errorf("migrate settings: %w", err)
	}

	return gdb, nil
}
