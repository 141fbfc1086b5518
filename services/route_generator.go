// File: /services/route_generator.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fitpulse-api/geo"
	"fitpulse-api/models"
)

var ErrInvalidStartPoint = errors.New("start point must have latitude in [-90,90] and longitude in [-180,180]")

// Per-shape target distance caps in kilometers
var shapeMaxKm = map[string]float64{
	models.ShapeShort: 3,
	models.ShapeLong:  10,
	models.ShapeLoop:  8,
}

// Elevation-gain estimate multipliers (meters per km) for locally generated
// paths; road-derived paths use a flat 10.
var fallbackElevationPerKm = map[string]float64{
	models.ShapeShort: 8,
	models.ShapeLong:  10,
	models.ShapeLoop:  12,
}

const roadElevationPerKm = 10

// GeneratedRoute is the synthesizer output in both the road and fallback paths
type GeneratedRoute struct {
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Shape         string           `json:"shape"`
	DistanceKm    float64          `json:"distance_km"`
	ElevationGain float64          `json:"elevation_gain"`
	StartLat      float64          `json:"start_lat"`
	StartLng      float64          `json:"start_lng"`
	EndLat        float64          `json:"end_lat"`
	EndLng        float64          `json:"end_lng"`
	Geometry      models.CoordPath `json:"geometry"`
	Source        string           `json:"source"` // road or generated
}

type RouteGenerator struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewRouteGenerator(baseURL, token string, timeout time.Duration) *RouteGenerator {
	return &RouteGenerator{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// Generate synthesizes a candidate route for the requested shape and target
// distance. The road-routing call is expected to fail sometimes; any failure
// falls back to local generation and is never surfaced to the caller.
func (g *RouteGenerator) Generate(ctx context.Context, startLat, startLng float64, shape string, targetKm float64) (*GeneratedRoute, error) {
	if !geo.IsValidLatitude(startLat) || !geo.IsValidLongitude(startLng) {
		return nil, ErrInvalidStartPoint
	}

	if _, ok := shapeMaxKm[shape]; !ok {
		shape = models.ShapeShort
	}
	targetKm = clampTarget(shape, targetKm)

	waypoints := synthesizeWaypoints(startLat, startLng, shape, targetKm)

	route, err := g.requestRoadRoute(ctx, waypoints, targetKm)
	if err != nil {
		log.Printf("Road routing unavailable, generating locally: %v", err)
		route = fallbackRoute(startLat, startLng, shape, targetKm)
	}

	route.Shape = shape
	route.StartLat = startLat
	route.StartLng = startLng
	if n := len(route.Geometry); n > 0 {
		route.EndLat = route.Geometry[n-1].Lat()
		route.EndLng = route.Geometry[n-1].Lng()
	}
	route.Title = fmt.Sprintf("%s %.1f km route", titleCase(shape), route.DistanceKm)
	route.Description = fmt.Sprintf("Generated %s route of %.2f km near (%.4f, %.4f)", shape, route.DistanceKm, startLat, startLng)
	return route, nil
}

func clampTarget(shape string, targetKm float64) float64 {
	if targetKm <= 0 {
		targetKm = 1
	}
	if max := shapeMaxKm[shape]; targetKm > max {
		return max
	}
	return targetKm
}

// synthesizeWaypoints produces the [lat,lng] waypoint list sent to the road
// router. Strategies differ by shape.
func synthesizeWaypoints(lat, lng float64, shape string, targetKm float64) [][2]float64 {
	switch shape {
	case models.ShapeLoop:
		return loopWaypoints(lat, lng, targetKm)
	case models.ShapeLong:
		return longWaypoints(lat, lng, targetKm)
	default:
		return shortWaypoints(lat, lng, targetKm)
	}
}

// loopWaypoints places points roughly on a circle of radius target/(2*pi)
// around the start, jittering each angle and radius, and closes back to the
// start point.
func loopWaypoints(lat, lng float64, targetKm float64) [][2]float64 {
	const segments = 6
	radius := targetKm / (2 * math.Pi)

	waypoints := [][2]float64{{lat, lng}}
	for i := 1; i < segments; i++ {
		angle := 2 * math.Pi * float64(i) / segments
		angle += (rand.Float64() - 0.5) * 0.2 // +/- ~0.1 rad jitter
		r := radius * (0.8 + rand.Float64()*0.4)
		wlat, wlng := geo.DestinationPoint(lat, lng, angle, r)
		waypoints = append(waypoints, [2]float64{wlat, wlng})
	}
	waypoints = append(waypoints, [2]float64{lat, lng})
	return waypoints
}

// longWaypoints chains 3 random-bearing legs of roughly a third of the
// target each, producing a multi-leg open path.
func longWaypoints(lat, lng float64, targetKm float64) [][2]float64 {
	waypoints := [][2]float64{{lat, lng}}
	curLat, curLng := lat, lng
	for i := 0; i < 3; i++ {
		bearing := rand.Float64() * 2 * math.Pi
		leg := (targetKm / 3) * (0.7 + rand.Float64()*0.6)
		curLat, curLng = geo.DestinationPoint(curLat, curLng, bearing, leg)
		waypoints = append(waypoints, [2]float64{curLat, curLng})
	}
	return waypoints
}

// shortWaypoints picks a random-bearing destination at 80% of the target
// with one deviated midpoint so the route is not a straight line.
func shortWaypoints(lat, lng float64, targetKm float64) [][2]float64 {
	bearing := rand.Float64() * 2 * math.Pi
	destLat, destLng := geo.DestinationPoint(lat, lng, bearing, targetKm*0.8)

	midBearing := bearing + (rand.Float64()-0.5)*math.Pi/2 // +/- 45 degrees
	midLat, midLng := geo.DestinationPoint(lat, lng, midBearing, targetKm*0.4)

	return [][2]float64{{lat, lng}, {midLat, midLng}, {destLat, destLng}}
}

// mapboxDirectionsResponse is the subset of the directions payload we read
type mapboxDirectionsResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"` // [lng, lat]
		} `json:"geometry"`
	} `json:"routes"`
}

// requestRoadRoute asks the directions service for walking routes through
// the synthesized waypoints and picks the alternative closest to the target
// distance.
func (g *RouteGenerator) requestRoadRoute(ctx context.Context, waypoints [][2]float64, targetKm float64) (*GeneratedRoute, error) {
	coords := make([]string, 0, len(waypoints))
	for _, wp := range waypoints {
		coords = append(coords, fmt.Sprintf("%f,%f", wp[1], wp[0])) // lng,lat order
	}

	endpoint := fmt.Sprintf("%s/directions/v5/mapbox/walking/%s", g.baseURL, strings.Join(coords, ";"))
	query := url.Values{}
	query.Set("alternatives", "true")
	query.Set("geometries", "geojson")
	query.Set("overview", "full")
	query.Set("access_token", g.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directions service returned status %d", resp.StatusCode)
	}

	var payload mapboxDirectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Code != "Ok" || len(payload.Routes) == 0 {
		return nil, fmt.Errorf("directions service returned no routes (code %q)", payload.Code)
	}

	alternatives := make([]RoadAlternative, 0, len(payload.Routes))
	for _, r := range payload.Routes {
		alternatives = append(alternatives, RoadAlternative{
			DistanceKm:  r.Distance / 1000,
			Coordinates: r.Geometry.Coordinates,
		})
	}

	best := PickClosestAlternative(alternatives, targetKm)

	geometry := make(models.CoordPath, 0, len(best.Coordinates))
	for _, c := range best.Coordinates {
		if len(c) != 2 {
			continue
		}
		geometry = append(geometry, models.Coordinate{c[0], c[1]})
	}
	if len(geometry) < 2 {
		return nil, errors.New("directions service returned degenerate geometry")
	}

	distanceKm := round2(best.DistanceKm)
	return &GeneratedRoute{
		DistanceKm:    distanceKm,
		ElevationGain: math.Round(distanceKm * roadElevationPerKm),
		Geometry:      geometry,
		Source:        "road",
	}, nil
}

// RoadAlternative is one candidate returned by the road router
type RoadAlternative struct {
	DistanceKm  float64
	Coordinates [][]float64 // [lng, lat]
}

// PickClosestAlternative selects the alternative whose distance is closest
// to the target; ties keep the earliest in returned order.
func PickClosestAlternative(alternatives []RoadAlternative, targetKm float64) RoadAlternative {
	best := alternatives[0]
	bestDiff := math.Abs(best.DistanceKm - targetKm)
	for _, alt := range alternatives[1:] {
		if diff := math.Abs(alt.DistanceKm - targetKm); diff < bestDiff {
			best = alt
			bestDiff = diff
		}
	}
	return best
}

// fallbackRoute generates a path locally with single-pass randomized walks
// when the road router is unavailable.
func fallbackRoute(lat, lng float64, shape string, targetKm float64) *GeneratedRoute {
	var points [][2]float64
	switch shape {
	case models.ShapeLoop:
		points = fallbackLoopPoints(lat, lng, targetKm)
	case models.ShapeLong:
		points = fallbackWalkPoints(lat, lng, targetKm, 9)
	default:
		points = fallbackWalkPoints(lat, lng, targetKm, 5)
	}

	geometry := make(models.CoordPath, 0, len(points))
	for _, p := range points {
		geometry = append(geometry, models.Coordinate{p[1], p[0]})
	}

	distanceKm := round2(geo.PathDistanceKm(points))
	return &GeneratedRoute{
		DistanceKm:    distanceKm,
		ElevationGain: math.Round(distanceKm * fallbackElevationPerKm[shape]),
		Geometry:      geometry,
		Source:        "generated",
	}
}

func fallbackLoopPoints(lat, lng float64, targetKm float64) [][2]float64 {
	const segments = 12
	radius := targetKm / (2 * math.Pi)

	points := [][2]float64{{lat, lng}}
	for i := 1; i < segments; i++ {
		angle := 2 * math.Pi * float64(i) / segments
		angle += (rand.Float64() - 0.5) * 0.2
		r := radius * (0.8 + rand.Float64()*0.4)
		plat, plng := geo.DestinationPoint(lat, lng, angle, r)
		points = append(points, [2]float64{plat, plng})
	}
	points = append(points, [2]float64{lat, lng})
	return points
}

func fallbackWalkPoints(lat, lng float64, targetKm float64, steps int) [][2]float64 {
	points := [][2]float64{{lat, lng}}
	curLat, curLng := lat, lng
	heading := rand.Float64() * 2 * math.Pi
	for i := 0; i < steps; i++ {
		heading += (rand.Float64() - 0.5) * math.Pi / 3
		leg := targetKm / float64(steps)
		curLat, curLng = geo.DestinationPoint(curLat, curLng, heading, leg)
		points = append(points, [2]float64{curLat, curLng})
	}
	return points
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
