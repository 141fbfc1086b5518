// File: /services/route_generator_test.go
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitpulse-api/models"
)

func TestPickClosestAlternative(t *testing.T) {
	alternatives := []RoadAlternative{
		{DistanceKm: 4.2},
		{DistanceKm: 5.0},
		{DistanceKm: 4.9},
	}

	best := PickClosestAlternative(alternatives, 5.0)
	if best.DistanceKm != 5.0 {
		t.Errorf("expected 5.0 km alternative, got %f", best.DistanceKm)
	}
}

func TestPickClosestAlternativeTieKeepsFirst(t *testing.T) {
	alternatives := []RoadAlternative{
		{DistanceKm: 5.2},
		{DistanceKm: 4.8},
	}

	best := PickClosestAlternative(alternatives, 5.0)
	if best.DistanceKm != 5.2 {
		t.Errorf("equidistant alternatives must keep the first, got %f", best.DistanceKm)
	}
}

func TestClampTarget(t *testing.T) {
	if got := clampTarget(models.ShapeShort, 50); got != 3 {
		t.Errorf("short should clamp to 3 km, got %f", got)
	}
	if got := clampTarget(models.ShapeLong, 50); got != 10 {
		t.Errorf("long should clamp to 10 km, got %f", got)
	}
	if got := clampTarget(models.ShapeLoop, 50); got != 8 {
		t.Errorf("loop should clamp to 8 km, got %f", got)
	}
	if got := clampTarget(models.ShapeLoop, -2); got != 1 {
		t.Errorf("non-positive target should become 1 km, got %f", got)
	}
	if got := clampTarget(models.ShapeLoop, 6); got != 6 {
		t.Errorf("in-range target should pass through, got %f", got)
	}
}

func TestGenerateRejectsInvalidStart(t *testing.T) {
	g := NewRouteGenerator("http://localhost", "token", time.Second)

	_, err := g.Generate(context.Background(), 91, 19.05, models.ShapeLoop, 5)
	if !errors.Is(err, ErrInvalidStartPoint) {
		t.Errorf("expected ErrInvalidStartPoint, got %v", err)
	}
}

func TestGenerateFallsBackWhenRouterFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := NewRouteGenerator(server.URL, "token", time.Second)

	route, err := g.Generate(context.Background(), 47.5, 19.05, models.ShapeLoop, 5)
	if err != nil {
		t.Fatalf("router failure must fall back, not error: %v", err)
	}

	if route.Source != "generated" {
		t.Errorf("expected generated source, got %q", route.Source)
	}
	if route.Shape != models.ShapeLoop {
		t.Errorf("expected loop shape, got %q", route.Shape)
	}
	if len(route.Geometry) < 2 {
		t.Errorf("fallback geometry must hold at least 2 points, got %d", len(route.Geometry))
	}
	if route.DistanceKm <= 0 {
		t.Errorf("fallback route must have positive distance, got %f", route.DistanceKm)
	}
	if route.StartLat != 47.5 || route.StartLng != 19.05 {
		t.Errorf("expected start point echoed, got (%f, %f)", route.StartLat, route.StartLng)
	}
	if route.Title == "" || route.Description == "" {
		t.Error("fallback route must carry title and description")
	}
}

func TestGenerateUnknownShapeDefaultsToShort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := NewRouteGenerator(server.URL, "token", time.Second)

	route, err := g.Generate(context.Background(), 47.5, 19.05, "zigzag", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.Shape != models.ShapeShort {
		t.Errorf("unknown shape should fall back to short, got %q", route.Shape)
	}
	if route.DistanceKm > 3.5 {
		t.Errorf("short route should respect the 3 km clamp, got %f", route.DistanceKm)
	}
}

func TestGenerateUsesRoadRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("alternatives") != "true" {
			t.Error("road request must ask for alternatives")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"code": "Ok",
			"routes": [
				{"distance": 5150, "geometry": {"coordinates": [[19.05, 47.5], [19.06, 47.51], [19.07, 47.52]]}},
				{"distance": 4900, "geometry": {"coordinates": [[19.05, 47.5], [19.04, 47.49], [19.03, 47.48]]}}
			]
		}`)
	}))
	defer server.Close()

	g := NewRouteGenerator(server.URL, "token", time.Second)

	route, err := g.Generate(context.Background(), 47.5, 19.05, models.ShapeLoop, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if route.Source != "road" {
		t.Errorf("expected road source, got %q", route.Source)
	}
	// 4.9 km is closer to the 5 km target than 5.15 km
	if route.DistanceKm != 4.9 {
		t.Errorf("expected the 4.9 km alternative, got %f", route.DistanceKm)
	}
	if len(route.Geometry) != 3 {
		t.Fatalf("expected 3 geometry points, got %d", len(route.Geometry))
	}
	if route.Geometry[1].Lng() != 19.04 || route.Geometry[1].Lat() != 47.49 {
		t.Errorf("expected the selected alternative's geometry, got %v", route.Geometry[1])
	}
	if route.EndLat != 47.48 || route.EndLng != 19.03 {
		t.Errorf("expected end point from geometry, got (%f, %f)", route.EndLat, route.EndLng)
	}
}

func TestGenerateFallsBackOnDegenerateGeometry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"code": "Ok", "routes": [{"distance": 5000, "geometry": {"coordinates": [[19.05, 47.5]]}}]}`)
	}))
	defer server.Close()

	g := NewRouteGenerator(server.URL, "token", time.Second)

	route, err := g.Generate(context.Background(), 47.5, 19.05, models.ShapeLong, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.Source != "generated" {
		t.Errorf("single-point road geometry must fall back, got source %q", route.Source)
	}
	if len(route.Geometry) < 2 {
		t.Errorf("fallback geometry must hold at least 2 points, got %d", len(route.Geometry))
	}
}
