// File: /realtime/hub_test.go
package realtime

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"fitpulse-api/models"
)

type fakeSessionStore struct {
	active   *models.Session
	created  []*models.Session
	updates  []map[string]interface{}
	closed   []string
	closeErr error
}

func (f *fakeSessionStore) GetActive(userID string) (*models.Session, error) {
	if f.active == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.active, nil
}

func (f *fakeSessionStore) Create(session *models.Session) error {
	f.created = append(f.created, session)
	f.active = session
	return nil
}

func (f *fakeSessionStore) Update(sessionID string, fields map[string]interface{}) error {
	f.updates = append(f.updates, fields)
	return nil
}

func (f *fakeSessionStore) CloseIfActive(sessionID string) (bool, error) {
	if f.closeErr != nil {
		return false, f.closeErr
	}
	f.closed = append(f.closed, sessionID)
	return true, nil
}

func TestStartTrackingCreatesSession(t *testing.T) {
	store := &fakeSessionStore{}
	hub := NewHub(store)

	stats, err := hub.StartTracking("u1", []float64{47.5, 19.05}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("expected a persisted session, created %d", len(store.created))
	}
	if stats.SessionID == "" {
		t.Error("expected a session id in the stats")
	}
	if !hub.IsTracking("u1") {
		t.Error("user should be registered after start")
	}
}

func TestStartTrackingReusesActiveSession(t *testing.T) {
	store := &fakeSessionStore{active: &models.Session{
		ID:        "s1",
		UserID:    "u1",
		IsActive:  true,
		StartTime: time.Now().Add(-time.Minute),
	}}
	hub := NewHub(store)

	stats, err := hub.StartTracking("u1", []float64{47.5, 19.05}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.created) != 0 {
		t.Errorf("existing session must be reused, created %d", len(store.created))
	}
	if stats.SessionID != "s1" {
		t.Errorf("expected session s1, got %s", stats.SessionID)
	}
}

func TestStartTrackingInvalidPosition(t *testing.T) {
	hub := NewHub(&fakeSessionStore{})

	cases := [][]float64{nil, {47.5}, {91, 19.05}, {47.5, 181}}
	for _, pos := range cases {
		if _, err := hub.StartTracking("u1", pos, nil); !errors.Is(err, ErrInvalidPosition) {
			t.Errorf("position %v: expected ErrInvalidPosition, got %v", pos, err)
		}
	}
}

func TestLocationUpdateAccumulatesDistance(t *testing.T) {
	store := &fakeSessionStore{}
	hub := NewHub(store)

	if _, err := hub.StartTracking("u1", []float64{47.5, 19.05}, nil); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// ~0.001 deg of latitude is about 111 m
	stats, err := hub.LocationUpdate("u1", []float64{47.501, 19.05})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.DistanceM < 100 || stats.DistanceM > 125 {
		t.Errorf("expected ~111 m accumulated, got %f", stats.DistanceM)
	}

	stats, err = hub.LocationUpdate("u1", []float64{47.502, 19.05})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.DistanceM < 200 || stats.DistanceM > 250 {
		t.Errorf("expected ~222 m after second update, got %f", stats.DistanceM)
	}

	if len(store.updates) != 2 {
		t.Errorf("each update must persist a snapshot, got %d writes", len(store.updates))
	}
}

func TestLocationUpdateWithoutTracking(t *testing.T) {
	hub := NewHub(&fakeSessionStore{})

	if _, err := hub.LocationUpdate("u1", []float64{47.5, 19.05}); !errors.Is(err, ErrNotTracking) {
		t.Errorf("expected ErrNotTracking, got %v", err)
	}
}

func TestEndTrackingClosesSession(t *testing.T) {
	store := &fakeSessionStore{}
	hub := NewHub(store)

	start, err := hub.StartTracking("u1", []float64{47.5, 19.05}, nil)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	stats, err := hub.EndTracking("u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.SessionID != start.SessionID {
		t.Errorf("expected final stats for session %s, got %s", start.SessionID, stats.SessionID)
	}
	if len(store.closed) != 1 || store.closed[0] != start.SessionID {
		t.Errorf("expected session %s closed, got %v", start.SessionID, store.closed)
	}
	if hub.IsTracking("u1") {
		t.Error("registry entry must be removed on end")
	}

	if _, err := hub.EndTracking("u1"); !errors.Is(err, ErrNotTracking) {
		t.Errorf("second end must report ErrNotTracking, got %v", err)
	}
}

func TestEndTrackingKeepsEntryWhenCloseFails(t *testing.T) {
	store := &fakeSessionStore{}
	hub := NewHub(store)

	if _, err := hub.StartTracking("u1", []float64{47.5, 19.05}, nil); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	store.closeErr = errors.New("write failed")
	if _, err := hub.EndTracking("u1"); err == nil {
		t.Fatal("expected the store failure to surface")
	}
	if !hub.IsTracking("u1") {
		t.Fatal("a failed close must keep the registry entry so the end can be retried")
	}

	// Retry after the store recovers
	store.closeErr = nil
	if _, err := hub.EndTracking("u1"); err != nil {
		t.Fatalf("retry should succeed, got %v", err)
	}
	if hub.IsTracking("u1") {
		t.Error("registry entry must be removed once the close persists")
	}
}

func TestStartTrackingHonorsClientStartTime(t *testing.T) {
	store := &fakeSessionStore{}
	hub := NewHub(store)

	clientStart := time.Now().Add(-5 * time.Minute)
	stats, err := hub.StartTracking("u1", []float64{47.5, 19.05}, &clientStart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !stats.StartTime.Equal(clientStart) {
		t.Errorf("expected client start time %v, got %v", clientStart, stats.StartTime)
	}
}
