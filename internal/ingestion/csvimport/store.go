package csvimport

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore writes imported rows through gorm, keeping their fixture ids.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *gormStore) Insert(ctx context.Context, record any) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
}

// ResetSequences moves each serial past the highest imported id so later
// inserts through the API do not collide.
func (s *gormStore) ResetSequences(ctx context.Context, tables []string) error {
	for _, table := range tables {
		sql := fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)`,
			table,
		)
		if err := s.db.WithContext(ctx).Exec(sql).Error; err != nil {
			return fmt.Errorf("%s: %w", table, err)
		}
	}
	return nil
}
