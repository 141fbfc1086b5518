// File: /services/challenge_service.go
package services

import (
	"log"
	"time"

	"fitpulse-api/models"
)

// ChallengeStore is the persistence surface for progress updates
type ChallengeStore interface {
	ActiveForUser(userID string, now time.Time) ([]models.Challenge, error)
	UpdateParticipant(participant *models.ChallengeParticipant) error
}

// UserStore provides profile lookups for notifications
type UserStore interface {
	GetByID(userID string) (*models.User, error)
}

// CompletionNotifier announces a first-time challenge completion.
// Implementations are best-effort and must not block progress updates.
type CompletionNotifier interface {
	ChallengeCompleted(user *models.User, challenge *models.Challenge)
}

type ChallengeService struct {
	challenges ChallengeStore
	users      UserStore
	notifier   CompletionNotifier
}

func NewChallengeService(challenges ChallengeStore, users UserStore, notifier CompletionNotifier) *ChallengeService {
	return &ChallengeService{
		challenges: challenges,
		users:      users,
		notifier:   notifier,
	}
}

// Apply increments the user's progress in every currently-open challenge
// they participate in, based on the finished activity. Failures are logged
// and swallowed per challenge; this method never reports an error because a
// bookkeeping failure must not fail the stop operation that produced the
// activity.
func (s *ChallengeService) Apply(userID string, activity *models.Activity) {
	now := time.Now()

	challenges, err := s.challenges.ActiveForUser(userID, now)
	if err != nil {
		log.Printf("Challenge progress lookup failed for user %s: %v", userID, err)
		return
	}

	for i := range challenges {
		challenge := &challenges[i]
		if len(challenge.Participants) == 0 {
			continue
		}
		participant := &challenge.Participants[0]

		participant.Progress += ProgressIncrement(challenge.Type, activity)

		// First-crossing-only completion: the date is stamped once and never
		// overwritten by later updates
		if !participant.Completed && participant.Progress >= challenge.Goal {
			participant.Completed = true
			completedAt := now
			participant.CompletedDate = &completedAt
			s.notifyCompletion(userID, challenge)
		}

		if err := s.challenges.UpdateParticipant(participant); err != nil {
			log.Printf("Challenge %s progress update failed for user %s: %v", challenge.ID, userID, err)
			continue
		}
	}
}

// ProgressIncrement computes the contribution of one activity to a challenge
// of the given metric type.
func ProgressIncrement(challengeType string, activity *models.Activity) float64 {
	switch challengeType {
	case models.ChallengeDistance:
		return activity.Distance / 1000 // km
	case models.ChallengeTime:
		return float64(activity.Duration) // seconds
	case models.ChallengeElevation:
		return activity.ElevationGain // meters
	case models.ChallengeFrequency:
		return 1
	default:
		return 0
	}
}

func (s *ChallengeService) notifyCompletion(userID string, challenge *models.Challenge) {
	if s.notifier == nil || s.users == nil {
		return
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		log.Printf("Could not load user %s for completion notification: %v", userID, err)
		return
	}
	s.notifier.ChallengeCompleted(user, challenge)
}
