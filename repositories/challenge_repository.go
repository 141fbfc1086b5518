// File: /repositories/challenge_repository.go
package repositories

import (
	"time"

	"gorm.io/gorm"

	"fitpulse-api/models"
)

type ChallengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// Create inserts a new challenge
func (r *ChallengeRepository) Create(challenge *models.Challenge) error {
	return r.db.Create(challenge).Error
}

// GetByID retrieves a challenge with its participants
func (r *ChallengeRepository) GetByID(challengeID string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := r.db.Preload("Participants").First(&challenge, "id = ?", challengeID).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// List retrieves challenges whose window is open at the given time
func (r *ChallengeRepository) List(now time.Time, page, limit int) ([]models.Challenge, error) {
	var challenges []models.Challenge
	offset := (page - 1) * limit
	err := r.db.Where("start_date <= ? AND end_date >= ?", now, now).
		Order("end_date ASC").Offset(offset).Limit(limit).
		Find(&challenges).Error
	return challenges, err
}

// AddParticipant enrolls a user; the unique constraint rejects duplicates
func (r *ChallengeRepository) AddParticipant(participant *models.ChallengeParticipant) error {
	return r.db.Create(participant).Error
}

// RemoveParticipant withdraws a user from a challenge
func (r *ChallengeRepository) RemoveParticipant(challengeID, userID string) error {
	result := r.db.Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Delete(&models.ChallengeParticipant{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetParticipant retrieves one enrollment row
func (r *ChallengeRepository) GetParticipant(challengeID, userID string) (*models.ChallengeParticipant, error) {
	var participant models.ChallengeParticipant
	err := r.db.Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// ActiveForUser retrieves all challenges the user participates in whose
// window contains the given instant, with the user's enrollment row attached.
func (r *ChallengeRepository) ActiveForUser(userID string, now time.Time) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := r.db.
		Joins("JOIN challenge_participants cp ON cp.challenge_id = challenges.id").
		Where("cp.user_id = ? AND challenges.start_date <= ? AND challenges.end_date >= ?", userID, now, now).
		Preload("Participants", "user_id = ?", userID).
		Find(&challenges).Error
	return challenges, err
}

// UpdateParticipant persists progress/completion for one enrollment
func (r *ChallengeRepository) UpdateParticipant(participant *models.ChallengeParticipant) error {
	return r.db.Model(&models.ChallengeParticipant{}).
		Where("id = ?", participant.ID).
		Updates(map[string]interface{}{
			"progress":       participant.Progress,
			"completed":      participant.Completed,
			"completed_date": participant.CompletedDate,
		}).Error
}
