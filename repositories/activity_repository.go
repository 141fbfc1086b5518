// File: /repositories/activity_repository.go
package repositories

import (
	"time"

	"gorm.io/gorm"

	"fitpulse-api/models"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create inserts a new activity record
func (r *ActivityRepository) Create(activity *models.Activity) error {
	if err := r.db.Create(activity).Error; err != nil {
		return err
	}

	// Counter update is bookkeeping; a failure here must not undo the create
	r.db.Model(&models.User{}).Where("id = ?", activity.UserID).
		UpdateColumn("activity_count", gorm.Expr("activity_count + ?", 1))

	return nil
}

// Delete hard-removes an activity. Only the stop-race compensation path
// uses this; user-facing removal is archive/restore.
func (r *ActivityRepository) Delete(activityID string) error {
	var activity models.Activity
	if err := r.db.First(&activity, "id = ?", activityID).Error; err != nil {
		return err
	}
	if err := r.db.Delete(&activity).Error; err != nil {
		return err
	}

	r.db.Model(&models.User{}).Where("id = ?", activity.UserID).
		UpdateColumn("activity_count", gorm.Expr("activity_count - ?", 1))

	return nil
}

// GetByID retrieves one activity owned by the user
func (r *ActivityRepository) GetByID(userID, activityID string) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.Where("id = ? AND user_id = ?", activityID, userID).First(&activity).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// List retrieves the user's activities, newest first
func (r *ActivityRepository) List(userID string, includeArchived bool, page, limit int) ([]models.Activity, int64, error) {
	var activities []models.Activity
	var total int64

	query := r.db.Model(&models.Activity{}).Where("user_id = ?", userID)
	if !includeArchived {
		query = query.Where("archived = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("start_time DESC").Offset(offset).Limit(limit).Find(&activities).Error
	return activities, total, err
}

// SetArchived flips the soft-delete state of an activity
func (r *ActivityRepository) SetArchived(userID, activityID string, archived bool) error {
	fields := map[string]interface{}{
		"archived":   archived,
		"updated_at": time.Now(),
	}
	if archived {
		fields["archived_at"] = time.Now()
	} else {
		fields["archived_at"] = nil
	}

	result := r.db.Model(&models.Activity{}).
		Where("id = ? AND user_id = ?", activityID, userID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Stats aggregates over the user's non-archived activities
func (r *ActivityRepository) Stats(userID string) (*models.ActivityStats, error) {
	var stats models.ActivityStats
	err := r.db.Model(&models.Activity{}).
		Select("COUNT(*) AS total_activities, COALESCE(SUM(distance),0) AS total_distance, COALESCE(SUM(duration),0) AS total_duration, COALESCE(SUM(calories),0) AS total_calories, COALESCE(SUM(elevation_gain),0) AS total_elevation").
		Where("user_id = ? AND archived = ?", userID, false).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
