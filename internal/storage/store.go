// Package storage persists the student table. Every driver reads and writes
// the whole table at once; there are no incremental writes.
package storage

import (
	"context"
	"fmt"

	"studentrecords/internal/config"
	"studentrecords/internal/database"
	"studentrecords/internal/model"
)

// Store loads and saves the complete ordered student table.
type Store interface {
	// Load returns every student in storage order. Absent storage is
	// initialized as an empty table.
	Load(ctx context.Context) ([]model.Student, error)
	// Save replaces the stored table with students.
	Save(ctx context.Context, students []model.Student) error
}

// Open selects a Store implementation from cfg.StorageDriver:
//
//	csv      flat file at cfg.DataFile (default)
//	sqlite   gorm over cfg.SQLitePath
//	postgres gorm over cfg.PostgresDSN()
//	s3       CSV object cfg.S3Key in cfg.S3Bucket
//
// The store is wrapped in a LockedStore so services sharing it can run
// concurrently.
func Open(ctx context.Context, cfg config.Config) (*LockedStore, error) {
	store, err := openDriver(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewLockedStore(store), nil
}

func openDriver(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case "", config.DriverCSV:
		return NewFileStore(cfg.DataFile), nil
	case config.DriverSQLite, config.DriverPostgres:
		db, err := database.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return NewGormStore(db)
	case config.DriverS3:
		return NewS3Store(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Key:       cfg.S3Key,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.StorageDriver)
	}
}
