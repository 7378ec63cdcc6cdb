package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/bkm-notes/models"
	"gorm.io/gorm"
)

// Migrate creates the notes schema when it does not exist yet. It is safe to run on
// every startup.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
