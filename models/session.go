// File: /models/session.go
package models

import (
	"time"
)

// Session is the server-side record of one user's in-progress tracked
// activity. At most one session per user may have IsActive = true; starting
// while one is active resets the existing record in place instead of
// creating a duplicate.
type Session struct {
	ID           string `json:"id" gorm:"primaryKey;size:191"`
	UserID       string `json:"user_id" gorm:"not null;index;size:191"`
	ActivityType string `json:"activity_type" gorm:"size:20;default:'run'"`
	IsActive     bool   `json:"is_active" gorm:"index;default:true"`

	StartTime  time.Time `json:"start_time" gorm:"not null"`
	CurrentLat float64   `json:"current_lat"`
	CurrentLng float64   `json:"current_lng"`

	CurrentSpeed     float64 `json:"current_speed"`     // m/s
	CurrentDistance  float64 `json:"current_distance"`  // meters
	CurrentDuration  int     `json:"current_duration"`  // seconds
	CurrentElevation float64 `json:"current_elevation"` // meters
	CurrentHeartRate int     `json:"current_heart_rate"`

	LastUpdated time.Time `json:"last_updated"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// Activity type values
const (
	ActivityRun     = "run"
	ActivityJog     = "jog"
	ActivityWalk    = "walk"
	ActivityCycling = "cycling"
	ActivityHiking  = "hiking"
	ActivityOther   = "other"
)

// NormalizeActivityType maps unknown type strings to "other"
func NormalizeActivityType(t string) string {
	switch t {
	case ActivityRun, ActivityJog, ActivityWalk, ActivityCycling, ActivityHiking:
		return t
	default:
		return ActivityOther
	}
}
