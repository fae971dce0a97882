package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/roomfinder-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	// Latest-state lookups scan newest first.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_conversation_state_user_latest
		ON conversation_state (user_id, created_at DESC, seq DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_conversation_state_user_latest: %w", err)
	}

	// Searches only ever look at whitelisted rooms.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_room_whitelisted
		ON room (id)
		WHERE whitelisted;
	`).Error; err != nil {
		return fmt.Errorf("create idx_room_whitelisted: %w", err)
	}
	return nil
}
