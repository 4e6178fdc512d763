package gormdb

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

// LatestSchemaVersion is bumped whenever the models change shape
const LatestSchemaVersion = 2

// schemaVersion records each schema version applied to this database
type schemaVersion struct {
	Version     int       `gorm:"primaryKey;autoIncrement:false"`
	Description string    `gorm:"size:200;not null"`
	AppliedAt   time.Time `gorm:"not null"`
}

func (schemaVersion) TableName() string { return "schema_versions" }

var schemaDescriptions = map[int]string{
	1: "agents, posts, comments, votes, tips",
	2: "widen post references to the accepted id length",
}

// Migrate creates or updates every table and records the schema version
func (s *Store) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	for _, model := range MigrateModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}

	row := schemaVersion{
		Version:     LatestSchemaVersion,
		Description: schemaDescriptions[LatestSchemaVersion],
		AppliedAt:   time.Now().UTC(),
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		return fmt.Errorf("record schema version: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		s.logger.Info("Schema version applied",
			zap.Int("version", LatestSchemaVersion),
			zap.String("description", row.Description),
		)
	}
	return nil
}

// CurrentSchemaVersion returns the highest applied version, or 0
func (s *Store) CurrentSchemaVersion(ctx context.Context) (int, error) {
	var v schemaVersion
	err := s.db.WithContext(ctx).Order("version DESC").Take(&v).Error
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return v.Version, nil
}
