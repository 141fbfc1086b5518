// File: /controllers/challenge_controller.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"fitpulse-api/models"
	"fitpulse-api/repositories"
	"fitpulse-api/utils"
)

type ChallengeController struct {
	challengeRepo *repositories.ChallengeRepository
}

func NewChallengeController(challengeRepo *repositories.ChallengeRepository) *ChallengeController {
	return &ChallengeController{challengeRepo: challengeRepo}
}

type CreateChallengeRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Type        string    `json:"type" binding:"required"`
	Goal        float64   `json:"goal" binding:"required"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
}

func (cc *ChallengeController) CreateChallenge(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Type {
	case models.ChallengeDistance, models.ChallengeTime, models.ChallengeElevation, models.ChallengeFrequency:
	default:
		utils.SendValidationError(c, "type must be one of: distance, time, elevation, frequency")
		return
	}
	if req.Goal <= 0 {
		utils.SendValidationError(c, "goal must be positive")
		return
	}
	if !req.EndDate.After(req.StartDate) {
		utils.SendValidationError(c, "end_date must be after start_date")
		return
	}

	challenge := models.Challenge{
		ID:          uuid.New().String(),
		CreatorID:   userID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Goal:        req.Goal,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	if err := cc.challengeRepo.Create(&challenge); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create challenge"})
		return
	}

	utils.SendCreated(c, "Challenge created", challenge)
}

func (cc *ChallengeController) GetChallenges(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	challenges, err := cc.challengeRepo.List(time.Now(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load challenges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": challenges, "page": page, "limit": limit})
}

func (cc *ChallengeController) GetChallenge(c *gin.Context) {
	challengeID := c.Param("id")

	challenge, err := cc.challengeRepo.GetByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load challenge"})
		return
	}

	c.JSON(http.StatusOK, challenge)
}

func (cc *ChallengeController) JoinChallenge(c *gin.Context) {
	userID := c.GetString("user_id")
	challengeID := c.Param("id")

	challenge, err := cc.challengeRepo.GetByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load challenge"})
		return
	}

	if time.Now().After(challenge.EndDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Challenge has ended"})
		return
	}

	if _, err := cc.challengeRepo.GetParticipant(challengeID, userID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already participating in this challenge"})
		return
	}

	participant := models.ChallengeParticipant{
		ChallengeID: challengeID,
		UserID:      userID,
		JoinedAt:    time.Now(),
	}
	if err := cc.challengeRepo.AddParticipant(&participant); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join challenge"})
		return
	}

	utils.SendSuccess(c, "Joined challenge", nil)
}

func (cc *ChallengeController) LeaveChallenge(c *gin.Context) {
	userID := c.GetString("user_id")
	challengeID := c.Param("id")

	if err := cc.challengeRepo.RemoveParticipant(challengeID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not participating in this challenge"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave challenge"})
		return
	}

	utils.SendSuccess(c, "Left challenge", nil)
}

// GetMyProgress returns the caller's enrollment row for one challenge
func (cc *ChallengeController) GetMyProgress(c *gin.Context) {
	userID := c.GetString("user_id")
	challengeID := c.Param("id")

	participant, err := cc.challengeRepo.GetParticipant(challengeID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not participating in this challenge"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load progress"})
		return
	}

	c.JSON(http.StatusOK, participant)
}
