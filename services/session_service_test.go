// File: /services/session_service_test.go
package services

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"fitpulse-api/models"
)

type fakeSessionStore struct {
	active     *models.Session
	created    []*models.Session
	updates    []map[string]interface{}
	closeOK    bool
	closedIDs  []string
	resetCount int64
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
	f.closedIDs = append(f.closedIDs, sessionID)
	return f.closeOK, nil
}

func (f *fakeSessionStore) CloseAllActive(userID string) (int64, error) {
	return f.resetCount, nil
}

type fakeActivityStore struct {
	created []*models.Activity
	deleted []string
}

func (f *fakeActivityStore) Create(activity *models.Activity) error {
	f.created = append(f.created, activity)
	return nil
}

func (f *fakeActivityStore) Delete(activityID string) error {
	f.deleted = append(f.deleted, activityID)
	return nil
}

type fakeProgress struct {
	applied []*models.Activity
}

func (f *fakeProgress) Apply(userID string, activity *models.Activity) {
	f.applied = append(f.applied, activity)
}

func newTestService(sessions *fakeSessionStore) (*SessionService, *fakeActivityStore, *fakeProgress) {
	activities := &fakeActivityStore{}
	progress := &fakeProgress{}
	return NewSessionService(sessions, activities, progress), activities, progress
}

func TestStartCreatesSession(t *testing.T) {
	sessions := &fakeSessionStore{}
	svc, _, _ := newTestService(sessions)

	result, err := svc.Start("u1", []float64{47.5, 19.05}, "run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sessions.created) != 1 {
		t.Fatalf("expected 1 created session, got %d", len(sessions.created))
	}
	s := result.Session
	if !s.IsActive {
		t.Error("new session should be active")
	}
	if s.CurrentLat != 47.5 || s.CurrentLng != 19.05 {
		t.Errorf("expected location (47.5, 19.05), got (%f, %f)", s.CurrentLat, s.CurrentLng)
	}
	if result.StartTimeMs == 0 {
		t.Error("expected millisecond start timestamp")
	}
}

func TestStartResetsExistingSessionInPlace(t *testing.T) {
	existing := &models.Session{
		ID:               "s1",
		UserID:           "u1",
		IsActive:         true,
		StartTime:        time.Now().Add(-time.Hour),
		CurrentLat:       47.0,
		CurrentLng:       19.0,
		CurrentDistance:  4200,
		CurrentDuration:  3600,
		CurrentSpeed:     2.5,
		CurrentElevation: 55,
	}
	sessions := &fakeSessionStore{active: existing}
	svc, _, _ := newTestService(sessions)

	result, err := svc.Start("u1", []float64{48.0, 20.0}, "walk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sessions.created) != 0 {
		t.Fatalf("duplicate start must not create a second session, created %d", len(sessions.created))
	}
	if len(sessions.updates) != 1 {
		t.Fatalf("expected 1 reset update, got %d", len(sessions.updates))
	}

	s := result.Session
	if s.ID != "s1" {
		t.Errorf("expected the existing session to be reused, got %s", s.ID)
	}
	if s.CurrentDistance != 0 || s.CurrentDuration != 0 || s.CurrentSpeed != 0 || s.CurrentElevation != 0 {
		t.Error("reset must zero the accumulators")
	}
	if s.CurrentLat != 48.0 || s.CurrentLng != 20.0 {
		t.Errorf("reset must take the second request's location, got (%f, %f)", s.CurrentLat, s.CurrentLng)
	}
	if s.ActivityType != models.ActivityWalk {
		t.Errorf("reset must take the second request's activity type, got %s", s.ActivityType)
	}
}

func TestStartRejectsInvalidLocation(t *testing.T) {
	svc, _, _ := newTestService(&fakeSessionStore{})

	cases := [][]float64{
		nil,
		{47.5},
		{47.5, 19.05, 3},
		{91, 19.05},
		{47.5, 181},
	}
	for _, loc := range cases {
		if _, err := svc.Start("u1", loc, "run"); !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("location %v: expected ErrInvalidCoordinates, got %v", loc, err)
		}
	}
}

func TestUpdateOverwritesMetrics(t *testing.T) {
	sessions := &fakeSessionStore{active: &models.Session{
		ID:              "s1",
		UserID:          "u1",
		IsActive:        true,
		StartTime:       time.Now().Add(-10 * time.Minute),
		CurrentDistance: 500,
	}}
	svc, _, _ := newTestService(sessions)

	distance := 200.0 // smaller than stored; last write still wins
	result, err := svc.Update("u1", UpdateInput{
		Location: []float64{47.5, 19.05},
		Distance: &distance,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Session.CurrentDistance != 200 {
		t.Errorf("expected distance 200 after update, got %f", result.Session.CurrentDistance)
	}
	if result.ElapsedTime <= 0 {
		t.Errorf("expected positive elapsed time, got %d", result.ElapsedTime)
	}
}

func TestUpdateDurationFallsBackToServerClock(t *testing.T) {
	sessions := &fakeSessionStore{active: &models.Session{
		ID:        "s1",
		UserID:    "u1",
		IsActive:  true,
		StartTime: time.Now().Add(-30 * time.Second),
	}}
	svc, _, _ := newTestService(sessions)

	result, err := svc.Update("u1", UpdateInput{Location: []float64{47.5, 19.05}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Session.CurrentDuration < 29 || result.Session.CurrentDuration > 31 {
		t.Errorf("expected ~30s server-derived duration, got %d", result.Session.CurrentDuration)
	}
}

func TestUpdateClampsSkewedClientClock(t *testing.T) {
	sessions := &fakeSessionStore{active: &models.Session{
		ID:        "s1",
		UserID:    "u1",
		IsActive:  true,
		StartTime: time.Now().Add(-30 * time.Second),
	}}
	svc, _, _ := newTestService(sessions)

	// A client clock an hour behind would compute a negative duration
	behind := time.Now().Add(-time.Hour)
	result, err := svc.Update("u1", UpdateInput{
		Location:  []float64{47.5, 19.05},
		Timestamp: &behind,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Session.CurrentDuration < 0 {
		t.Fatalf("duration must never go negative, got %d", result.Session.CurrentDuration)
	}
	if result.Session.CurrentDuration < 29 || result.Session.CurrentDuration > 31 {
		t.Errorf("expected server-clock fallback of ~30s, got %d", result.Session.CurrentDuration)
	}

	negative := -120
	result, err = svc.Update("u1", UpdateInput{
		Location: []float64{47.5, 19.05},
		Duration: &negative,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Session.CurrentDuration < 0 {
		t.Errorf("negative client duration must be clamped, got %d", result.Session.CurrentDuration)
	}
}

func TestUpdateWithoutActiveSession(t *testing.T) {
	svc, _, _ := newTestService(&fakeSessionStore{})

	_, err := svc.Update("u1", UpdateInput{Location: []float64{47.5, 19.05}})
	if !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestStopDerivesAndClosesSession(t *testing.T) {
	sessions := &fakeSessionStore{
		active: &models.Session{
			ID:              "s1",
			UserID:          "u1",
			ActivityType:    models.ActivityRun,
			IsActive:        true,
			StartTime:       time.Now().Add(-time.Hour),
			CurrentDistance: 10000,
			CurrentDuration: 3600,
		},
		closeOK: true,
	}
	svc, activities, progress := newTestService(sessions)

	result, err := svc.Stop("u1", &models.User{ID: "u1"}, StopInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(activities.created) != 1 {
		t.Fatalf("expected 1 derived activity, got %d", len(activities.created))
	}
	if result.Activity.ID == "" {
		t.Error("derived activity must have an id")
	}
	if result.Activity.Distance != 10000 {
		t.Errorf("expected distance 10000, got %f", result.Activity.Distance)
	}
	if result.Session.IsActive {
		t.Error("stopped session should be inactive")
	}
	if len(sessions.closedIDs) != 1 || sessions.closedIDs[0] != "s1" {
		t.Errorf("expected session s1 closed, got %v", sessions.closedIDs)
	}
	if len(progress.applied) != 1 {
		t.Errorf("expected challenge progress applied once, got %d", len(progress.applied))
	}
}

func TestStopLostRaceDiscardsActivity(t *testing.T) {
	sessions := &fakeSessionStore{
		active: &models.Session{
			ID:              "s1",
			UserID:          "u1",
			ActivityType:    models.ActivityRun,
			IsActive:        true,
			StartTime:       time.Now().Add(-time.Hour),
			CurrentDistance: 10000,
			CurrentDuration: 3600,
		},
		closeOK: false, // a concurrent stop already closed it
	}
	svc, activities, progress := newTestService(sessions)

	_, err := svc.Stop("u1", &models.User{ID: "u1"}, StopInput{})
	if !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession for the race loser, got %v", err)
	}

	if len(activities.created) != 1 || len(activities.deleted) != 1 {
		t.Fatalf("expected the duplicate activity to be discarded, created=%d deleted=%d",
			len(activities.created), len(activities.deleted))
	}
	if activities.deleted[0] != activities.created[0].ID {
		t.Error("discarded activity id must match the created one")
	}
	if len(progress.applied) != 0 {
		t.Error("race loser must not apply challenge progress")
	}
}

func TestStopWithoutActiveSession(t *testing.T) {
	svc, activities, _ := newTestService(&fakeSessionStore{})

	_, err := svc.Stop("u1", &models.User{ID: "u1"}, StopInput{})
	if !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("expected ErrNoActiveSession, got %v", err)
	}
	if len(activities.created) != 0 {
		t.Error("no activity should be derived without a session")
	}
}

func TestResetWithNoSessionsSucceeds(t *testing.T) {
	svc, _, _ := newTestService(&fakeSessionStore{resetCount: 0})

	closed, err := svc.Reset("u1")
	if err != nil {
		t.Fatalf("reset of zero sessions must succeed, got %v", err)
	}
	if closed != 0 {
		t.Errorf("expected 0 closed, got %d", closed)
	}
}
