// File: /services/session_service.go
package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fitpulse-api/geo"
	"fitpulse-api/models"
)

// Service-level errors mapped to HTTP statuses by the controllers
var (
	ErrInvalidCoordinates = errors.New("location must be a [latitude, longitude] pair with latitude in [-90,90] and longitude in [-180,180]")
	ErrNoActiveSession    = errors.New("no active session for user")
)

// SessionStore is the persistence surface the state machine needs
type SessionStore interface {
	GetActive(userID string) (*models.Session, error)
	Create(session *models.Session) error
	Update(sessionID string, fields map[string]interface{}) error
	CloseIfActive(sessionID string) (bool, error)
	CloseAllActive(userID string) (int64, error)
}

// ActivityStore persists derived activities
type ActivityStore interface {
	Create(activity *models.Activity) error
	Delete(activityID string) error
}

// ProgressApplier consumes a finished activity. Implementations never
// propagate failures.
type ProgressApplier interface {
	Apply(userID string, activity *models.Activity)
}

type SessionService struct {
	sessions   SessionStore
	activities ActivityStore
	progress   ProgressApplier
}

func NewSessionService(sessions SessionStore, activities ActivityStore, progress ProgressApplier) *SessionService {
	return &SessionService{
		sessions:   sessions,
		activities: activities,
		progress:   progress,
	}
}

// StartResult augments the session with a millisecond start timestamp for
// client clock sync.
type StartResult struct {
	Session     *models.Session
	StartTimeMs int64
}

// Start begins tracking for the user. If an active session already exists it
// is reset in place: mobile clients retry start after a dropped
// acknowledgment, and a duplicate must not spawn a second session.
func (s *SessionService) Start(userID string, location []float64, activityType string) (*StartResult, error) {
	lat, lng, err := parseLatLng(location)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	activityType = models.NormalizeActivityType(activityType)

	existing, err := s.sessions.GetActive(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		// Reset-in-place: fresh start time, zeroed accumulators
		fields := map[string]interface{}{
			"start_time":         now,
			"activity_type":      activityType,
			"current_lat":        lat,
			"current_lng":        lng,
			"current_speed":      0.0,
			"current_distance":   0.0,
			"current_duration":   0,
			"current_elevation":  0.0,
			"current_heart_rate": 0,
			"last_updated":       now,
		}
		if err := s.sessions.Update(existing.ID, fields); err != nil {
			return nil, err
		}
		existing.StartTime = now
		existing.ActivityType = activityType
		existing.CurrentLat = lat
		existing.CurrentLng = lng
		existing.CurrentSpeed = 0
		existing.CurrentDistance = 0
		existing.CurrentDuration = 0
		existing.CurrentElevation = 0
		existing.CurrentHeartRate = 0
		existing.LastUpdated = now
		return &StartResult{Session: existing, StartTimeMs: now.UnixMilli()}, nil
	}

	session := &models.Session{
		ID:           uuid.New().String(),
		UserID:       userID,
		ActivityType: activityType,
		IsActive:     true,
		StartTime:    now,
		CurrentLat:   lat,
		CurrentLng:   lng,
		LastUpdated:  now,
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}
	return &StartResult{Session: session, StartTimeMs: now.UnixMilli()}, nil
}

// UpdateInput carries one raw tracking sample. Every optional metric
// overwrites the stored value as-is; samples must arrive in capture order.
type UpdateInput struct {
	Location  []float64
	Speed     *float64
	Distance  *float64
	Duration  *int
	HeartRate *int
	Elevation *float64
	Timestamp *time.Time
}

// UpdateResult returns the session with server times for clock sync
type UpdateResult struct {
	Session     *models.Session
	ElapsedTime int       // seconds since start, server-computed
	ServerTime  time.Time
}

// Update applies a location/stat sample to the user's active session
func (s *SessionService) Update(userID string, in UpdateInput) (*UpdateResult, error) {
	lat, lng, err := parseLatLng(in.Location)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetActive(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}

	now := time.Now()
	fields := map[string]interface{}{
		"current_lat":  lat,
		"current_lng":  lng,
		"last_updated": now,
	}
	session.CurrentLat = lat
	session.CurrentLng = lng
	session.LastUpdated = now

	if in.Speed != nil {
		fields["current_speed"] = *in.Speed
		session.CurrentSpeed = *in.Speed
	}
	if in.Distance != nil {
		fields["current_distance"] = *in.Distance
		session.CurrentDistance = *in.Distance
	}
	if in.HeartRate != nil {
		fields["current_heart_rate"] = *in.HeartRate
		session.CurrentHeartRate = *in.HeartRate
	}
	if in.Elevation != nil {
		fields["current_elevation"] = *in.Elevation
		session.CurrentElevation = *in.Elevation
	}

	// Duration falls back to server wall clock to guard against client
	// clock drift
	duration := 0
	switch {
	case in.Duration != nil:
		duration = *in.Duration
	case in.Timestamp != nil:
		duration = int(in.Timestamp.Sub(session.StartTime).Seconds())
	default:
		duration = int(now.Sub(session.StartTime).Seconds())
	}
	// A client clock behind the session start would go negative
	if duration < 0 {
		duration = int(now.Sub(session.StartTime).Seconds())
		if duration < 0 {
			duration = 0
		}
	}
	fields["current_duration"] = duration
	session.CurrentDuration = duration

	if err := s.sessions.Update(session.ID, fields); err != nil {
		return nil, err
	}

	return &UpdateResult{
		Session:     session,
		ElapsedTime: int(now.Sub(session.StartTime).Seconds()),
		ServerTime:  now,
	}, nil
}

// StopResult returns the closed session together with the derived activity
type StopResult struct {
	Session  *models.Session
	Activity *models.Activity
}

// Stop closes the user's active session and derives the persisted Activity.
// The Activity is created before the session transition so a crash between
// the two leaves an orphaned-but-recoverable Activity rather than a lost
// one; the conditional transition then guarantees only one concurrent stop
// keeps its Activity.
func (s *SessionService) Stop(userID string, user *models.User, in StopInput) (*StopResult, error) {
	session, err := s.sessions.GetActive(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}

	in.Session = session
	in.User = user
	if in.EndTime.IsZero() {
		in.EndTime = time.Now()
	}

	activity := DeriveActivity(in)
	activity.ID = uuid.New().String()

	if err := s.activities.Create(activity); err != nil {
		return nil, err
	}

	closed, err := s.sessions.CloseIfActive(session.ID)
	if err != nil {
		return nil, err
	}
	if !closed {
		// Lost a concurrent stop race; discard the duplicate derivation
		if delErr := s.activities.Delete(activity.ID); delErr != nil {
			log.Printf("Failed to discard duplicate activity %s: %v", activity.ID, delErr)
		}
		return nil, ErrNoActiveSession
	}
	session.IsActive = false

	// Best-effort: a challenge bookkeeping failure must never fail the stop
	if s.progress != nil {
		s.progress.Apply(userID, activity)
	}

	return &StopResult{Session: session, Activity: activity}, nil
}

// Reset closes every active session the user has, including strays left by
// earlier crashes. Zero active sessions is success, not an error.
func (s *SessionService) Reset(userID string) (int64, error) {
	return s.sessions.CloseAllActive(userID)
}

// GetActive returns the user's active session
func (s *SessionService) GetActive(userID string) (*models.Session, error) {
	session, err := s.sessions.GetActive(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}
	return session, nil
}

func parseLatLng(location []float64) (float64, float64, error) {
	if len(location) != 2 {
		return 0, 0, ErrInvalidCoordinates
	}
	lat, lng := location[0], location[1]
	if !geo.IsValidLatitude(lat) || !geo.IsValidLongitude(lng) {
		return 0, 0, ErrInvalidCoordinates
	}
	return lat, lng, nil
}
