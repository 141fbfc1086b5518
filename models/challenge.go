// File: /models/challenge.go
package models

import (
	"time"
)

// Challenge is a group goal over a time window. Progress units depend on
// Type: distance is tracked in km, time in seconds, elevation in meters,
// frequency in activity count.
type Challenge struct {
	ID          string `json:"id" gorm:"primaryKey;size:191"`
	CreatorID   string `json:"creator_id" gorm:"not null;size:191"`
	Title       string `json:"title" gorm:"not null;size:255"`
	Description string `json:"description" gorm:"type:text"`

	Type string  `json:"type" gorm:"size:20;not null"`
	Goal float64 `json:"goal" gorm:"not null"`

	StartDate time.Time `json:"start_date" gorm:"not null"`
	EndDate   time.Time `json:"end_date" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Participants []ChallengeParticipant `json:"participants,omitempty" gorm:"foreignKey:ChallengeID"`
}

// ChallengeParticipant holds one user's cumulative progress in a challenge.
// CompletedDate is stamped at the first goal crossing and never overwritten.
type ChallengeParticipant struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	ChallengeID string  `json:"challenge_id" gorm:"not null;index;size:191"`
	UserID      string  `json:"user_id" gorm:"not null;index;size:191"`
	Progress    float64 `json:"progress" gorm:"default:0"`

	Completed     bool       `json:"completed" gorm:"default:false"`
	CompletedDate *time.Time `json:"completed_date"`

	JoinedAt time.Time `json:"joined_at"`

	Challenge Challenge `json:"-" gorm:"foreignKey:ChallengeID"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
}

// Challenge type values
const (
	ChallengeDistance  = "distance"
	ChallengeTime      = "time"
	ChallengeElevation = "elevation"
	ChallengeFrequency = "frequency"
)
