// File: /controllers/user_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fitpulse-api/models"
	"fitpulse-api/repositories"
	"fitpulse-api/utils"
)

type UserController struct {
	db           *gorm.DB
	activityRepo *repositories.ActivityRepository
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{
		db:           db,
		activityRepo: repositories.NewActivityRepository(db),
	}
}

func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, user)
}

type UpdateProfileRequest struct {
	Name     *string  `json:"name"`
	Avatar   *string  `json:"avatar"`
	WeightKg *float64 `json:"weight_kg"`
	HeightCm *float64 `json:"height_cm"`
	Age      *int     `json:"age"`
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.WeightKg != nil {
		if *req.WeightKg <= 0 || *req.WeightKg > 500 {
			utils.SendValidationError(c, "weight_kg must be between 0 and 500")
			return
		}
		updates["weight_kg"] = *req.WeightKg
	}
	if req.HeightCm != nil {
		if *req.HeightCm <= 0 || *req.HeightCm > 300 {
			utils.SendValidationError(c, "height_cm must be between 0 and 300")
			return
		}
		updates["height_cm"] = *req.HeightCm
	}
	if req.Age != nil {
		if *req.Age <= 0 || *req.Age > 150 {
			utils.SendValidationError(c, "age must be between 0 and 150")
			return
		}
		updates["age"] = *req.Age
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := uc.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, user)
}

// GetStatistics aggregates the caller's non-archived activities
func (uc *UserController) GetStatistics(c *gin.Context) {
	userID := c.GetString("user_id")

	stats, err := uc.activityRepo.Stats(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (uc *UserController) FollowUser(c *gin.Context) {
	userID := c.GetString("user_id")
	targetID := c.Param("id")

	if targetID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	var target models.User
	if err := uc.db.First(&target, "id = ?", targetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var existing models.Follow
	if err := uc.db.Where("follower_id = ? AND following_id = ?", userID, targetID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already following this user"})
		return
	}

	follow := models.Follow{
		FollowerID:  userID,
		FollowingID: targetID,
	}
	if err := uc.db.Create(&follow).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
		return
	}

	// Counters are display bookkeeping, kept best-effort
	uc.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("following_count", gorm.Expr("following_count + ?", 1))
	uc.db.Model(&models.User{}).Where("id = ?", targetID).
		UpdateColumn("followers_count", gorm.Expr("followers_count + ?", 1))

	utils.SendSuccess(c, "Now following user", nil)
}

func (uc *UserController) UnfollowUser(c *gin.Context) {
	userID := c.GetString("user_id")
	targetID := c.Param("id")

	result := uc.db.Where("follower_id = ? AND following_id = ?", userID, targetID).
		Delete(&models.Follow{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not following this user"})
		return
	}

	uc.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("following_count", gorm.Expr("following_count - ?", 1))
	uc.db.Model(&models.User{}).Where("id = ?", targetID).
		UpdateColumn("followers_count", gorm.Expr("followers_count - ?", 1))

	utils.SendSuccess(c, "Unfollowed user", nil)
}

func (uc *UserController) GetFollowers(c *gin.Context) {
	userID := c.GetString("user_id")
	page, limit := utils.ParsePagination(c)

	var follows []models.Follow
	err := uc.db.Preload("Follower").
		Where("following_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&follows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load followers"})
		return
	}

	users := make([]models.User, 0, len(follows))
	for _, f := range follows {
		f.Follower.Password = ""
		users = append(users, f.Follower)
	}

	c.JSON(http.StatusOK, gin.H{"followers": users, "page": page, "limit": limit})
}

func (uc *UserController) GetFollowing(c *gin.Context) {
	userID := c.GetString("user_id")
	page, limit := utils.ParsePagination(c)

	var follows []models.Follow
	err := uc.db.Preload("Following").
		Where("follower_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&follows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load following"})
		return
	}

	users := make([]models.User, 0, len(follows))
	for _, f := range follows {
		f.Following.Password = ""
		users = append(users, f.Following)
	}

	c.JSON(http.StatusOK, gin.H{"following": users, "page": page, "limit": limit})
}
