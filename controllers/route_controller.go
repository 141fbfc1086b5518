// File: /controllers/route_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"fitpulse-api/models"
	"fitpulse-api/repositories"
	"fitpulse-api/services"
	"fitpulse-api/utils"
)

type RouteController struct {
	routeRepo *repositories.RouteRepository
	generator *services.RouteGenerator
}

func NewRouteController(routeRepo *repositories.RouteRepository, generator *services.RouteGenerator) *RouteController {
	return &RouteController{
		routeRepo: routeRepo,
		generator: generator,
	}
}

type GenerateRouteRequest struct {
	StartLat float64 `json:"start_lat"`
	StartLng float64 `json:"start_lng"`
	Shape    string  `json:"shape"`
	TargetKm float64 `json:"target_distance_km"`
}

// GenerateRoute synthesizes a route suggestion without persisting it. The
// client saves it explicitly if wanted.
func (rc *RouteController) GenerateRoute(c *gin.Context) {
	var req GenerateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	route, err := rc.generator.Generate(c.Request.Context(), req.StartLat, req.StartLng, req.Shape, req.TargetKm)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStartPoint) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate route"})
		return
	}

	c.JSON(http.StatusOK, route)
}

type SaveRouteRequest struct {
	Title         string             `json:"title" binding:"required"`
	Description   string             `json:"description"`
	DistanceKm    float64            `json:"distance_km"`
	ElevationGain float64            `json:"elevation_gain"`
	StartLat      float64            `json:"start_lat"`
	StartLng      float64            `json:"start_lng"`
	EndLat        float64            `json:"end_lat"`
	EndLng        float64            `json:"end_lng"`
	Geometry      models.CoordPath   `json:"geometry" binding:"required"`
	Shape         string             `json:"shape"`
	Source        string             `json:"source"`
	Tags          models.StringSlice `json:"tags"`
	IsPublic      bool               `json:"is_public"`
}

func (rc *RouteController) SaveRoute(c *gin.Context) {
	userID := c.GetString("user_id")

	var req SaveRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Geometry) < 2 {
		utils.SendValidationError(c, "geometry must contain at least 2 coordinates")
		return
	}

	source := req.Source
	switch source {
	case "road", "generated", "manual":
	default:
		source = "manual"
	}

	route := models.Route{
		ID:            uuid.New().String(),
		UserID:        userID,
		Title:         req.Title,
		Description:   req.Description,
		DistanceKm:    req.DistanceKm,
		ElevationGain: req.ElevationGain,
		StartLat:      req.StartLat,
		StartLng:      req.StartLng,
		EndLat:        req.EndLat,
		EndLng:        req.EndLng,
		Geometry:      req.Geometry,
		Shape:         req.Shape,
		Source:        source,
		Tags:          req.Tags,
		IsPublic:      req.IsPublic,
	}

	if err := rc.routeRepo.Create(&route); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save route"})
		return
	}

	utils.SendCreated(c, "Route saved", route)
}

func (rc *RouteController) GetRoutes(c *gin.Context) {
	userID := c.GetString("user_id")
	page, limit := utils.ParsePagination(c)

	routes, err := rc.routeRepo.List(userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load routes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"routes": routes, "page": page, "limit": limit})
}

func (rc *RouteController) GetRoute(c *gin.Context) {
	userID := c.GetString("user_id")
	routeID := c.Param("id")

	route, err := rc.routeRepo.GetByID(userID, routeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load route"})
		return
	}

	c.JSON(http.StatusOK, route)
}

func (rc *RouteController) DeleteRoute(c *gin.Context) {
	userID := c.GetString("user_id")
	routeID := c.Param("id")

	if err := rc.routeRepo.Delete(userID, routeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete route"})
		return
	}

	utils.SendSuccess(c, "Route deleted", nil)
}

// UseRoute bumps the usage counter when a client starts an activity on a
// saved route
func (rc *RouteController) UseRoute(c *gin.Context) {
	userID := c.GetString("user_id")
	routeID := c.Param("id")

	route, err := rc.routeRepo.GetByID(userID, routeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load route"})
		return
	}

	if err := rc.routeRepo.IncrementTimesUsed(route.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record route use"})
		return
	}

	utils.SendSuccess(c, "Route use recorded", nil)
}
