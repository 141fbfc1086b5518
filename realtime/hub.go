// File: /realtime/hub.go
package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fitpulse-api/geo"
	"fitpulse-api/models"
)

var (
	ErrInvalidPosition = errors.New("position must be a [latitude, longitude] pair")
	ErrNotTracking     = errors.New("no tracking in progress for user")
)

// SessionStore is the slice of session persistence the hub needs
type SessionStore interface {
	GetActive(userID string) (*models.Session, error)
	Create(session *models.Session) error
	Update(sessionID string, fields map[string]interface{}) error
	CloseIfActive(sessionID string) (bool, error)
}

// trackingState is the in-memory mirror of one user's live tracking
type trackingState struct {
	SessionID string
	StartTime time.Time
	LastLat   float64
	LastLng   float64
	DistanceM float64
	DurationS int
	SpeedMps  float64
}

// Stats is the accumulated snapshot echoed back on every ack
type Stats struct {
	SessionID  string    `json:"session_id"`
	DistanceM  float64   `json:"distance_m"`
	DurationS  int       `json:"duration_s"`
	SpeedMps   float64   `json:"speed_mps"`
	StartTime  time.Time `json:"start_time"`
	ServerTime time.Time `json:"server_time"`
}

// Hub keeps the per-user tracking registry for the push channel. The
// registry is process-local and mirrors, best-effort, the persisted Session
// records; running more than one instance requires externalizing it to a
// shared store.
type Hub struct {
	mu       sync.RWMutex
	tracking map[string]*trackingState
	sessions SessionStore
}

func NewHub(sessions SessionStore) *Hub {
	return &Hub{
		tracking: make(map[string]*trackingState),
		sessions: sessions,
	}
}

// StartTracking registers an in-memory entry for the user and makes sure a
// persisted active session exists, creating one when needed.
func (h *Hub) StartTracking(userID string, position []float64, startTime *time.Time) (*Stats, error) {
	if len(position) != 2 || !geo.IsValidLatitude(position[0]) || !geo.IsValidLongitude(position[1]) {
		return nil, ErrInvalidPosition
	}
	lat, lng := position[0], position[1]

	now := time.Now()
	effectiveStart := now
	if startTime != nil && !startTime.IsZero() {
		effectiveStart = *startTime
	}

	session, err := h.sessions.GetActive(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		session = &models.Session{
			ID:           uuid.New().String(),
			UserID:       userID,
			ActivityType: models.ActivityRun,
			IsActive:     true,
			StartTime:    effectiveStart,
			CurrentLat:   lat,
			CurrentLng:   lng,
			LastUpdated:  now,
		}
		if err := h.sessions.Create(session); err != nil {
			return nil, err
		}
	}

	h.mu.Lock()
	h.tracking[userID] = &trackingState{
		SessionID: session.ID,
		StartTime: effectiveStart,
		LastLat:   lat,
		LastLng:   lng,
	}
	h.mu.Unlock()

	return &Stats{
		SessionID:  session.ID,
		StartTime:  effectiveStart,
		ServerTime: now,
	}, nil
}

// LocationUpdate accumulates incremental distance for the user's tracking
// entry and persists the snapshot. The in-memory entry and the persisted
// session are updated independently; an inconsistency from a crash between
// the two is resolved by the next update overwriting persisted state.
func (h *Hub) LocationUpdate(userID string, position []float64) (*Stats, error) {
	if len(position) != 2 || !geo.IsValidLatitude(position[0]) || !geo.IsValidLongitude(position[1]) {
		return nil, ErrInvalidPosition
	}
	lat, lng := position[0], position[1]
	now := time.Now()

	h.mu.Lock()
	state, ok := h.tracking[userID]
	if !ok {
		h.mu.Unlock()
		return nil, ErrNotTracking
	}

	state.DistanceM += geo.HaversineDistance(state.LastLat, state.LastLng, lat, lng)
	state.LastLat = lat
	state.LastLng = lng
	state.DurationS = int(now.Sub(state.StartTime).Seconds())
	if state.DurationS > 0 {
		state.SpeedMps = state.DistanceM / float64(state.DurationS)
	}
	snapshot := *state
	h.mu.Unlock()

	if err := h.sessions.Update(snapshot.SessionID, map[string]interface{}{
		"current_lat":      lat,
		"current_lng":      lng,
		"current_distance": snapshot.DistanceM,
		"current_duration": snapshot.DurationS,
		"current_speed":    snapshot.SpeedMps,
		"last_updated":     now,
	}); err != nil {
		return nil, err
	}

	return &Stats{
		SessionID:  snapshot.SessionID,
		DistanceM:  snapshot.DistanceM,
		DurationS:  snapshot.DurationS,
		SpeedMps:   snapshot.SpeedMps,
		StartTime:  snapshot.StartTime,
		ServerTime: now,
	}, nil
}

// EndTracking closes the persisted session, removes the in-memory entry and
// returns the final stats. It does not create an Activity; that remains the
// job of the HTTP stop operation.
func (h *Hub) EndTracking(userID string) (*Stats, error) {
	h.mu.RLock()
	state, ok := h.tracking[userID]
	var snapshot trackingState
	if ok {
		snapshot = *state
	}
	h.mu.RUnlock()

	if !ok {
		return nil, ErrNotTracking
	}

	// The registry entry is removed only once the close is persisted, so a
	// failed store write leaves the user able to retry the end
	if _, err := h.sessions.CloseIfActive(snapshot.SessionID); err != nil {
		return nil, err
	}

	h.mu.Lock()
	delete(h.tracking, userID)
	h.mu.Unlock()

	now := time.Now()
	return &Stats{
		SessionID:  snapshot.SessionID,
		DistanceM:  snapshot.DistanceM,
		DurationS:  snapshot.DurationS,
		SpeedMps:   snapshot.SpeedMps,
		StartTime:  snapshot.StartTime,
		ServerTime: now,
	}, nil
}

// IsTracking reports whether the user has a registry entry. A disconnect
// leaves the entry in place so a reconnect resumes the same logical session.
func (h *Hub) IsTracking(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.tracking[userID]
	return ok
}
