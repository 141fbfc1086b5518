// File: /models/user.go
package models

import (
	"strings"
	"time"
)

type User struct {
	ID             string    `json:"id" gorm:"primaryKey;size:191"`
	Name           string    `json:"name" gorm:"not null;size:255"`
	Handle         string    `json:"handle" gorm:"uniqueIndex;not null;size:50"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password       string    `json:"-" gorm:"not null;size:255"`
	Avatar         *string   `json:"avatar" gorm:"size:500"`
	WeightKg       *float64  `json:"weight_kg"`
	HeightCm       *float64  `json:"height_cm"`
	Age            *int      `json:"age"`
	FollowersCount int       `json:"followers_count" gorm:"default:0"`
	FollowingCount int       `json:"following_count" gorm:"default:0"`
	ActivityCount  int       `json:"activity_count" gorm:"default:0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relationships
	Activities []Activity `json:"activities,omitempty" gorm:"foreignKey:UserID"`
	Routes     []Route    `json:"routes,omitempty" gorm:"foreignKey:UserID"`
}

// Follow models the follower relationship. It is recorded for counters and
// profile display only; nothing in the core enforces it.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  string    `json:"follower_id" gorm:"not null;size:191"`
	FollowingID string    `json:"following_id" gorm:"not null;size:191"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  User `json:"follower,omitempty" gorm:"foreignKey:FollowerID"`
	Following User `json:"following,omitempty" gorm:"foreignKey:FollowingID"`
}

// Defaults used by calorie/step estimation when the profile is incomplete
const (
	DefaultWeightKg = 70.0
	DefaultHeightCm = 170.0
	DefaultAge      = 30
)

// ProfileWeightKg returns the user's weight or the estimation default
func (u *User) ProfileWeightKg() float64 {
	if u != nil && u.WeightKg != nil && *u.WeightKg > 0 {
		return *u.WeightKg
	}
	return DefaultWeightKg
}

// ProfileHeightCm returns the user's height or the estimation default
func (u *User) ProfileHeightCm() float64 {
	if u != nil && u.HeightCm != nil && *u.HeightCm > 0 {
		return *u.HeightCm
	}
	return DefaultHeightCm
}

// ProfileAge returns the user's age or the estimation default
func (u *User) ProfileAge() int {
	if u != nil && u.Age != nil && *u.Age > 0 {
		return *u.Age
	}
	return DefaultAge
}

// GenerateHandleFromName creates a handle from the user's name
func GenerateHandleFromName(name string) string {
	handle := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
	handle = strings.ReplaceAll(handle, ".", "")
	handle = strings.ReplaceAll(handle, "-", "_")
	return handle
}
