// File: /controllers/session_controller.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fitpulse-api/models"
	"fitpulse-api/repositories"
	"fitpulse-api/services"
)

type SessionController struct {
	sessionService *services.SessionService
	userRepo       *repositories.UserRepository
}

func NewSessionController(sessionService *services.SessionService, userRepo *repositories.UserRepository) *SessionController {
	return &SessionController{
		sessionService: sessionService,
		userRepo:       userRepo,
	}
}

type StartSessionRequest struct {
	Location     []float64 `json:"location" binding:"required"` // [lat, lng]
	ActivityType string    `json:"activity_type"`
}

func (sc *SessionController) StartSession(c *gin.Context) {
	userID := c.GetString("user_id")

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := sc.sessionService.Start(userID, req.Location, req.ActivityType)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCoordinates) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":       result.Session,
		"start_time_ms": result.StartTimeMs,
	})
}

type UpdateSessionRequest struct {
	Location  []float64  `json:"location" binding:"required"` // [lat, lng]
	Speed     *float64   `json:"speed"`
	Distance  *float64   `json:"distance"`
	Duration  *int       `json:"duration"`
	HeartRate *int       `json:"heart_rate"`
	Elevation *float64   `json:"elevation"`
	Timestamp *time.Time `json:"timestamp"`
}

func (sc *SessionController) UpdateSession(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := sc.sessionService.Update(userID, services.UpdateInput{
		Location:  req.Location,
		Speed:     req.Speed,
		Distance:  req.Distance,
		Duration:  req.Duration,
		HeartRate: req.HeartRate,
		Elevation: req.Elevation,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCoordinates):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNoActiveSession):
			c.JSON(http.StatusNotFound, gin.H{"error": "No active session"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update session"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":      result.Session,
		"elapsed_time": result.ElapsedTime,
		"server_time":  result.ServerTime,
	})
}

type StopSessionRequest struct {
	FinalLocation   []float64           `json:"final_location"` // [lat, lng]
	LocationHistory []models.TrackPoint `json:"location_history"`
	Route           [][]float64         `json:"route"` // [lat, lng] pairs
	TotalDistance   float64             `json:"total_distance"`
	TotalDuration   int                 `json:"total_duration"`
	Title           string              `json:"title"`
	ActivityType    string              `json:"activity_type"`
	ElevationGain   *float64            `json:"elevation_gain"`
	AverageSpeed    *float64            `json:"average_speed"`
	MaxSpeed        *float64            `json:"max_speed"`
	Simulated       bool                `json:"simulated"`
}

func (sc *SessionController) StopSession(c *gin.Context) {
	userID := c.GetString("user_id")

	var req StopSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := sc.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	in := services.StopInput{
		LocationHistory: req.LocationHistory,
		TotalDistance:   req.TotalDistance,
		TotalDuration:   req.TotalDuration,
		Title:           req.Title,
		ActivityType:    req.ActivityType,
		ElevationGain:   req.ElevationGain,
		AverageSpeed:    req.AverageSpeed,
		MaxSpeed:        req.MaxSpeed,
		Simulated:       req.Simulated,
	}
	if len(req.FinalLocation) == 2 {
		in.FinalLat = &req.FinalLocation[0]
		in.FinalLng = &req.FinalLocation[1]
	}
	// Client path arrives as [lat,lng]; storage is [lng,lat]
	for _, p := range req.Route {
		if len(p) != 2 {
			continue
		}
		in.Route = append(in.Route, models.Coordinate{p[1], p[0]})
	}

	result, err := sc.sessionService.Stop(userID, user, in)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSession) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active session"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stop session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":  result.Session,
		"activity": result.Activity,
	})
}

// ResetSessions force-closes every active session the caller has. Closing
// zero sessions is still a success.
func (sc *SessionController) ResetSessions(c *gin.Context) {
	userID := c.GetString("user_id")

	closed, err := sc.sessionService.Reset(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Sessions reset",
		"sessions_closed": closed,
	})
}

func (sc *SessionController) GetCurrentSession(c *gin.Context) {
	userID := c.GetString("user_id")

	session, err := sc.sessionService.GetActive(userID)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSession) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active session"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}
