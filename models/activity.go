// File: /models/activity.go
package models

import (
	"time"
)

// Activity is the immutable record derived from a completed session. It is
// created exactly once at session stop and mutated only by archive/restore.
// Route always holds at least 2 distinct coordinates; the geospatial index
// rejects degenerate single-point paths.
type Activity struct {
	ID     string `json:"id" gorm:"primaryKey;size:191"`
	UserID string `json:"user_id" gorm:"not null;index;size:191"`
	Type   string `json:"type" gorm:"size:20;not null"`
	Title  string `json:"title" gorm:"size:255"`

	StartTime time.Time `json:"start_time" gorm:"not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`
	Duration  int       `json:"duration" gorm:"not null"` // seconds
	Distance  float64   `json:"distance" gorm:"not null"` // meters

	ElevationGain float64 `json:"elevation_gain"` // meters
	AverageSpeed  float64 `json:"average_speed"`  // km/h
	MaxSpeed      float64 `json:"max_speed"`      // km/h
	AveragePace   float64 `json:"average_pace"`   // seconds per km
	Calories      int     `json:"calories"`
	Steps         int     `json:"steps"`

	Route           CoordPath      `json:"route" gorm:"type:json"`
	LocationHistory TrackPointList `json:"location_history" gorm:"type:json"`

	Simulated  bool       `json:"simulated" gorm:"default:false"`
	Archived   bool       `json:"archived" gorm:"index;default:false"`
	ArchivedAt *time.Time `json:"archived_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// ActivityStats is the aggregate summary over a user's non-archived activities
type ActivityStats struct {
	TotalActivities int     `json:"total_activities"`
	TotalDistance   float64 `json:"total_distance"` // meters
	TotalDuration   int     `json:"total_duration"` // seconds
	TotalCalories   int     `json:"total_calories"`
	TotalElevation  float64 `json:"total_elevation"` // meters
}
