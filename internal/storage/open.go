package storage

import (
	"context"
	"fitnote/planner/internal/config"
	"fitnote/planner/internal/repository"
	"fitnote/planner/internal/repository/file"
	"fitnote/planner/internal/repository/mongo"
	"fitnote/planner/internal/repository/postgres"
	"fmt"
	"log"
	"time"

	"github.com/spf13/afero"
)

// Backend is an opened key-value store plus whatever must be released on shutdown.
type Backend struct {
	Store repository.KeyValueStore
	Close func() error
}

// Open connects the store selected by cfg.Driver.
func Open(cfg config.StorageConfig) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverFile:
		kv, err := file.NewFileKVRepository(afero.NewOsFs(), cfg.File.Dir)
		if err != nil {
			return nil, err
		}
		log.Printf("INFO: Using file storage in %s", cfg.File.Dir)
		return &Backend{Store: kv, Close: func() error { return nil }}, nil

	case config.DriverMongo:
		client, err := mongo.ConnectDB(cfg.Mongo.URI, cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("connecting to MongoDB: %w", err)
		}
		db := client.Database(cfg.Mongo.Name)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
			defer cancel()
			mongo.EnsureKVIndexes(ctx, db.Collection("kv"))
		}()
		log.Printf("INFO: Using MongoDB storage, database %s", cfg.Mongo.Name)
		return &Backend{
			Store: mongo.NewMongoKVRepository(db),
			Close: func() error { return mongo.DisconnectDB(client) },
		}, nil

	case config.DriverPostgres:
		db, err := postgres.NewPostgres(cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.AutoMigrateTables(db, &postgres.KVEntry{}); err != nil {
			return nil, err
		}
		log.Printf("INFO: Using PostgreSQL storage")
		return &Backend{
			Store: postgres.NewPostgresKVRepository(db),
			Close: func() error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil

	case config.DriverS3:
		store, err := NewS3Storage(cfg.S3)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: store, Close: func() error { return nil }}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
