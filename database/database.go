// File: /database/database.go
package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fitpulse-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Session{},
		&models.Activity{},
		&models.Route{},
		&models.Challenge{},
		&models.ChallengeParticipant{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	if err := addDatabaseConstraints(db); err != nil {
		return fmt.Errorf("failed to add database constraints: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	// Active-session lookup is the hottest query in the tracking path
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_sessions_user_active ON sessions(user_id, is_active)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for sessions: %v\n", err)
	}

	// Activity feed and statistics queries
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_activities_user_created ON activities(user_id, created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for activities: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_activities_user_archived ON activities(user_id, archived)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for activities archived: %v\n", err)
	}

	// Challenge window scans during progress updates
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_challenges_dates ON challenges(start_date, end_date)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for challenges: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_challenge_participants_user ON challenge_participants(user_id, challenge_id)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for challenge_participants: %v\n", err)
	}

	return nil
}

func addDatabaseConstraints(db *gorm.DB) error {
	// Prevent joining the same challenge twice
	if err := db.Exec("ALTER TABLE challenge_participants ADD CONSTRAINT uk_challenge_participants UNIQUE (challenge_id, user_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for challenge_participants: %v\n", err)
	}

	// Prevent duplicate follows
	if err := db.Exec("ALTER TABLE follows ADD CONSTRAINT uk_follows_follower_following UNIQUE (follower_id, following_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for follows: %v\n", err)
	}

	// Prevent self-following
	if err := db.Exec("ALTER TABLE follows ADD CONSTRAINT ck_follows_no_self_follow CHECK (follower_id != following_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add check constraint for follows: %v\n", err)
	}

	return nil
}
