// File: /repositories/session_repository.go
package repositories

import (
	"time"

	"gorm.io/gorm"

	"fitpulse-api/models"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// GetActive retrieves the user's active session
func (r *SessionRepository) GetActive(userID string) (*models.Session, error) {
	var session models.Session
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Create inserts a new session record
func (r *SessionRepository) Create(session *models.Session) error {
	return r.db.Create(session).Error
}

// Update applies a partial update to the session with the given ID
func (r *SessionRepository) Update(sessionID string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.db.Model(&models.Session{}).Where("id = ?", sessionID).Updates(fields).Error
}

// CloseIfActive transitions the session to inactive only if it is still
// active. Returns false when another caller already closed it, so two
// concurrent stops cannot both derive an Activity from the same session.
func (r *SessionRepository) CloseIfActive(sessionID string) (bool, error) {
	result := r.db.Model(&models.Session{}).
		Where("id = ? AND is_active = ?", sessionID, true).
		Updates(map[string]interface{}{
			"is_active":    false,
			"last_updated": time.Now(),
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CloseAllActive marks every active session of the user as stopped and
// returns how many were affected. Zero is a valid outcome.
func (r *SessionRepository) CloseAllActive(userID string) (int64, error) {
	result := r.db.Model(&models.Session{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Updates(map[string]interface{}{
			"is_active":    false,
			"last_updated": time.Now(),
			"updated_at":   time.Now(),
		})
	return result.RowsAffected, result.Error
}

// CloseStale force-closes active sessions that have not been updated within
// the given duration. Used by the cleanup job.
func (r *SessionRepository) CloseStale(maxIdle time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxIdle)
	result := r.db.Model(&models.Session{}).
		Where("is_active = ? AND last_updated < ?", true, cutoff).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
