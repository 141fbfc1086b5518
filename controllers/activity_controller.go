// File: /controllers/activity_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fitpulse-api/repositories"
	"fitpulse-api/utils"
)

type ActivityController struct {
	activityRepo *repositories.ActivityRepository
}

func NewActivityController(activityRepo *repositories.ActivityRepository) *ActivityController {
	return &ActivityController{activityRepo: activityRepo}
}

func (ac *ActivityController) GetActivities(c *gin.Context) {
	userID := c.GetString("user_id")
	page, limit := utils.ParsePagination(c)
	includeArchived := c.Query("include_archived") == "true"

	activities, total, err := ac.activityRepo.List(userID, includeArchived, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load activities"})
		return
	}

	utils.SendPaginated(c, activities, page, limit, total)
}

func (ac *ActivityController) GetActivity(c *gin.Context) {
	userID := c.GetString("user_id")
	activityID := c.Param("id")

	activity, err := ac.activityRepo.GetByID(userID, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load activity"})
		return
	}

	c.JSON(http.StatusOK, activity)
}

// ArchiveActivity soft-hides an activity; the record and its contribution to
// past challenge progress are preserved
func (ac *ActivityController) ArchiveActivity(c *gin.Context) {
	ac.setArchived(c, true, "Activity archived")
}

func (ac *ActivityController) RestoreActivity(c *gin.Context) {
	ac.setArchived(c, false, "Activity restored")
}

func (ac *ActivityController) setArchived(c *gin.Context, archived bool, message string) {
	userID := c.GetString("user_id")
	activityID := c.Param("id")

	if err := ac.activityRepo.SetArchived(userID, activityID, archived); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update activity"})
		return
	}

	utils.SendSuccess(c, message, nil)
}

func (ac *ActivityController) GetStats(c *gin.Context) {
	userID := c.GetString("user_id")

	stats, err := ac.activityRepo.Stats(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
