// File: /repositories/route_repository.go
package repositories

import (
	"gorm.io/gorm"

	"fitpulse-api/models"
)

type RouteRepository struct {
	db *gorm.DB
}

func NewRouteRepository(db *gorm.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create inserts a new saved route
func (r *RouteRepository) Create(route *models.Route) error {
	return r.db.Create(route).Error
}

// GetByID retrieves a route visible to the user (own or public)
func (r *RouteRepository) GetByID(userID, routeID string) (*models.Route, error) {
	var route models.Route
	err := r.db.Where("id = ? AND (user_id = ? OR is_public = ?)", routeID, userID, true).
		First(&route).Error
	if err != nil {
		return nil, err
	}
	return &route, nil
}

// List retrieves the user's own routes plus public ones
func (r *RouteRepository) List(userID string, page, limit int) ([]models.Route, error) {
	var routes []models.Route
	offset := (page - 1) * limit
	err := r.db.Where("user_id = ? OR is_public = ?", userID, true).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&routes).Error
	return routes, err
}

// Delete removes a route owned by the user
func (r *RouteRepository) Delete(userID, routeID string) error {
	result := r.db.Where("id = ? AND user_id = ?", routeID, userID).Delete(&models.Route{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementTimesUsed bumps the usage counter
func (r *RouteRepository) IncrementTimesUsed(routeID string) error {
	return r.db.Model(&models.Route{}).Where("id = ?", routeID).
		UpdateColumn("times_used", gorm.Expr("times_used + ?", 1)).Error
}
