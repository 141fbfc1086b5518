// File: /services/derivation.go
package services

import (
	"fmt"
	"math"
	"time"

	"fitpulse-api/models"
)

// Derivation of a persisted Activity from raw stop-time input. Everything in
// this file is a deterministic function of its arguments so the whole
// pipeline is testable without a database.

const (
	// Offset applied when a degenerate path must be synthesized. The stored
	// geometry requires at least 2 distinct coordinates.
	geometryEpsilon = 1e-4

	// Client distances below this are assumed to be kilometers, not meters.
	kmHeuristicThreshold = 100
)

// StopInput carries everything the client may supply with a stop request,
// together with the session being closed and the owner's profile.
type StopInput struct {
	Session *models.Session
	User    *models.User
	EndTime time.Time

	FinalLat *float64
	FinalLng *float64

	LocationHistory models.TrackPointList
	Route           models.CoordPath

	TotalDistance float64 // raw client value, 0 when absent
	TotalDuration int     // seconds, 0 when absent
	Title         string
	ActivityType  string
	ElevationGain *float64
	AverageSpeed  *float64
	MaxSpeed      *float64
	Simulated     bool
}

// DeriveActivity computes the Activity record for a finished session.
func DeriveActivity(in StopInput) *models.Activity {
	session := in.Session

	lastLat := session.CurrentLat
	lastLng := session.CurrentLng
	if in.FinalLat != nil && in.FinalLng != nil {
		lastLat = *in.FinalLat
		lastLng = *in.FinalLng
	}

	distance := NormalizeDistance(in.TotalDistance, session.CurrentDistance)
	duration := NormalizeDuration(in.TotalDuration, session.CurrentDuration)

	activityType := in.ActivityType
	if activityType == "" {
		activityType = session.ActivityType
	}
	activityType = models.NormalizeActivityType(activityType)

	title := in.Title
	if title == "" {
		title = defaultActivityTitle(activityType, in.EndTime)
	}

	avgSpeed := averageSpeedKmh(distance, duration)
	if in.AverageSpeed != nil && *in.AverageSpeed > 0 {
		avgSpeed = *in.AverageSpeed
	}

	maxSpeed := avgSpeed
	if in.MaxSpeed != nil && *in.MaxSpeed > 0 {
		maxSpeed = *in.MaxSpeed
	}

	var elevationGain float64
	if in.ElevationGain != nil && *in.ElevationGain > 0 {
		elevationGain = *in.ElevationGain
	} else {
		elevationGain = session.CurrentElevation
	}

	return &models.Activity{
		UserID:          session.UserID,
		Type:            activityType,
		Title:           title,
		StartTime:       session.StartTime,
		EndTime:         in.EndTime,
		Duration:        duration,
		Distance:        distance,
		ElevationGain:   elevationGain,
		AverageSpeed:    avgSpeed,
		MaxSpeed:        maxSpeed,
		AveragePace:     averagePaceSecPerKm(distance, duration),
		Calories:        EstimateCalories(activityType, in.User.ProfileWeightKg(), in.User.ProfileAge(), distance, duration),
		Steps:           EstimateSteps(activityType, in.User.ProfileHeightCm(), distance),
		Route:           RepairRouteGeometry(in.Route, in.LocationHistory, lastLat, lastLng),
		LocationHistory: in.LocationHistory,
		Simulated:       in.Simulated,
	}
}

// NormalizeDistance resolves the stored distance in meters.
//
// Heuristic: mobile clients inconsistently report units, so a positive total
// below 100 is assumed to be kilometers and converted. This is a best guess
// over an ambiguous client contract, not ground truth; do not extend the
// threshold to other fields.
func NormalizeDistance(clientDistance, sessionDistance float64) float64 {
	if clientDistance > 0 {
		if clientDistance < kmHeuristicThreshold {
			return clientDistance * 1000
		}
		return clientDistance
	}
	if sessionDistance > 0 {
		return sessionDistance
	}
	// Storage requires a positive distance
	return 1
}

// NormalizeDuration resolves the stored duration in seconds
func NormalizeDuration(clientDuration, sessionDuration int) int {
	if clientDuration > 0 {
		return clientDuration
	}
	if sessionDuration > 0 {
		return sessionDuration
	}
	return 1
}

// RepairRouteGeometry guarantees a path of at least 2 distinct coordinates.
// Preference order: client route, location history, synthesized 2-point path
// around the last known location.
func RepairRouteGeometry(route models.CoordPath, history models.TrackPointList, lastLat, lastLng float64) models.CoordPath {
	var path models.CoordPath

	switch {
	case len(route) >= 2:
		path = route
	case len(history) >= 2:
		path = make(models.CoordPath, 0, len(history))
		for _, p := range history {
			path = append(path, models.Coordinate{p.Longitude, p.Latitude})
		}
	default:
		path = synthesizeTwoPointPath(lastLng, lastLat)
	}

	path = dedupeConsecutive(path)
	if len(path) < 2 {
		path = synthesizeTwoPointPath(path[0].Lng(), path[0].Lat())
	}
	return path
}

func synthesizeTwoPointPath(lng, lat float64) models.CoordPath {
	return models.CoordPath{
		{lng, lat},
		{lng + geometryEpsilon, lat + geometryEpsilon},
	}
}

func dedupeConsecutive(path models.CoordPath) models.CoordPath {
	if len(path) == 0 {
		return path
	}
	out := models.CoordPath{path[0]}
	for _, c := range path[1:] {
		if c != out[len(out)-1] {
			out = append(out, c)
		}
	}
	return out
}

// EstimateCalories estimates energy expenditure as MET x weight(kg) x hours,
// where the MET value depends on activity type and average speed, reduced by
// 5% over age 50 and 10% over age 65.
func EstimateCalories(activityType string, weightKg float64, age int, distanceM float64, durationS int) int {
	if durationS <= 0 {
		return 0
	}

	speedKmh := averageSpeedKmh(distanceM, durationS)
	met := metValue(activityType, speedKmh)

	if age > 65 {
		met *= 0.90
	} else if age > 50 {
		met *= 0.95
	}

	hours := float64(durationS) / 3600
	return int(math.Round(met * weightKg * hours))
}

func metValue(activityType string, speedKmh float64) float64 {
	switch activityType {
	case models.ActivityRun:
		switch {
		case speedKmh < 8:
			return 6
		case speedKmh < 11:
			return 9
		case speedKmh < 14:
			return 12
		default:
			return 14
		}
	case models.ActivityJog:
		return 7
	case models.ActivityWalk:
		switch {
		case speedKmh < 4:
			return 3
		case speedKmh < 6:
			return 4
		default:
			return 5
		}
	case models.ActivityCycling:
		switch {
		case speedKmh < 12:
			return 5
		case speedKmh < 20:
			return 7
		default:
			return 10
		}
	case models.ActivityHiking:
		return 6
	default:
		return 5
	}
}

// EstimateSteps derives a step count from distance and stride length, where
// stride length is a per-activity fraction of body height. Cycling produces
// no steps.
func EstimateSteps(activityType string, heightCm, distanceM float64) int {
	if distanceM <= 0 {
		return 0
	}

	var strideFraction float64
	switch activityType {
	case models.ActivityRun:
		strideFraction = 0.45
	case models.ActivityJog, models.ActivityHiking:
		strideFraction = 0.40
	case models.ActivityWalk, models.ActivityOther:
		strideFraction = 0.415
	case models.ActivityCycling:
		return 0
	default:
		strideFraction = 0.415
	}

	strideM := heightCm * strideFraction / 100
	if strideM <= 0 {
		return 0
	}
	return int(math.Round(distanceM / strideM))
}

func averageSpeedKmh(distanceM float64, durationS int) float64 {
	if durationS <= 0 {
		return 0
	}
	return (distanceM / 1000) / (float64(durationS) / 3600)
}

func averagePaceSecPerKm(distanceM float64, durationS int) float64 {
	if distanceM <= 0 {
		return 0
	}
	return float64(durationS) / (distanceM / 1000)
}

func defaultActivityTitle(activityType string, endTime time.Time) string {
	switch endTime.Hour() {
	case 5, 6, 7, 8, 9, 10, 11:
		return fmt.Sprintf("Morning %s", activityType)
	case 12, 13, 14, 15, 16:
		return fmt.Sprintf("Afternoon %s", activityType)
	case 17, 18, 19, 20:
		return fmt.Sprintf("Evening %s", activityType)
	default:
		return fmt.Sprintf("Night %s", activityType)
	}
}
