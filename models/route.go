// File: /models/route.go
package models

import (
	"time"
)

// Route is a saved or suggested path, distinct from the geometry embedded in
// an Activity. Created by the generator's save flow or manual entry.
type Route struct {
	ID          string `json:"id" gorm:"primaryKey;size:191"`
	UserID      string `json:"user_id" gorm:"not null;index;size:191"`
	Title       string `json:"title" gorm:"not null;size:255"`
	Description string `json:"description" gorm:"type:text"`

	DistanceKm    float64 `json:"distance_km"`
	ElevationGain float64 `json:"elevation_gain"` // meters, estimated

	StartLat float64 `json:"start_lat"`
	StartLng float64 `json:"start_lng"`
	EndLat   float64 `json:"end_lat"`
	EndLng   float64 `json:"end_lng"`

	Geometry CoordPath `json:"geometry" gorm:"type:json"`

	Shape    string      `json:"shape" gorm:"size:10"`  // short, long, loop
	Source   string      `json:"source" gorm:"size:20"` // road, generated, manual
	Tags     StringSlice `json:"tags" gorm:"type:json"`
	IsPublic bool        `json:"is_public" gorm:"default:false"`

	Verified   bool       `json:"verified" gorm:"default:false"`
	VerifiedBy *string    `json:"verified_by" gorm:"size:191"`
	VerifiedAt *time.Time `json:"verified_at"`

	TimesUsed int `json:"times_used" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// Route shape values
const (
	ShapeShort = "short"
	ShapeLong  = "long"
	ShapeLoop  = "loop"
)
