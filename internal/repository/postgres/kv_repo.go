package postgres

import (
	"context"
	"errors"
	"fitnote/planner/internal/repository"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry is one row of the kv_entries table.
type KVEntry struct {
	Key       string `gorm:"primaryKey;type:text"`
	Value     []byte `gorm:"type:bytea;not null"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

type postgresKVRepository struct {
	db *gorm.DB
}

// NewPostgresKVRepository returns a key-value store over the kv_entries table.
// Run AutoMigrateTables(db, &KVEntry{}) first.
func NewPostgresKVRepository(db *gorm.DB) repository.KeyValueStore {
	return &postgresKVRepository{db: db}
}

func (r *postgresKVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var e KVEntry
	err := r.db.WithContext(ctx).First(&e, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return e.Value, nil
}

func (r *postgresKVRepository) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("key is required")
	}
	// Column is NOT NULL
	if value == nil {
		value = []byte{}
	}
	// INSERT ... ON CONFLICT (key) DO UPDATE
	e := KVEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (r *postgresKVRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&KVEntry{}, "key = ?", key).Error
}
