// File: /services/challenge_service_test.go
package services

import (
	"errors"
	"testing"
	"time"

	"fitpulse-api/models"
)

type fakeChallengeStore struct {
	challenges []models.Challenge
	updateErr  map[string]error
	updated    []models.ChallengeParticipant
}

func (f *fakeChallengeStore) ActiveForUser(userID string, now time.Time) ([]models.Challenge, error) {
	out := make([]models.Challenge, 0, len(f.challenges))
	for _, ch := range f.challenges {
		c := ch
		c.Participants = append([]models.ChallengeParticipant(nil), ch.Participants...)
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeChallengeStore) UpdateParticipant(participant *models.ChallengeParticipant) error {
	if err := f.updateErr[participant.ChallengeID]; err != nil {
		return err
	}
	f.updated = append(f.updated, *participant)
	for i := range f.challenges {
		if f.challenges[i].ID == participant.ChallengeID {
			f.challenges[i].Participants[0] = *participant
		}
	}
	return nil
}

type fakeUserStore struct {
	user *models.User
}

func (f *fakeUserStore) GetByID(userID string) (*models.User, error) {
	if f.user == nil {
		return nil, errors.New("not found")
	}
	return f.user, nil
}

type fakeNotifier struct {
	completions int
}

func (f *fakeNotifier) ChallengeCompleted(user *models.User, challenge *models.Challenge) {
	f.completions++
}

func distanceChallenge(id string, goal, progress float64) models.Challenge {
	now := time.Now()
	return models.Challenge{
		ID:        id,
		Type:      models.ChallengeDistance,
		Goal:      goal,
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now.Add(24 * time.Hour),
		Participants: []models.ChallengeParticipant{
			{ID: 1, ChallengeID: id, UserID: "u1", Progress: progress},
		},
	}
}

func TestApplyIncrementsProgress(t *testing.T) {
	store := &fakeChallengeStore{challenges: []models.Challenge{distanceChallenge("c1", 100, 10)}}
	svc := NewChallengeService(store, &fakeUserStore{user: &models.User{ID: "u1"}}, &fakeNotifier{})

	svc.Apply("u1", &models.Activity{Distance: 5000, Duration: 1800})

	if len(store.updated) != 1 {
		t.Fatalf("expected 1 update, got %d", len(store.updated))
	}
	// Distance challenges accumulate kilometers
	if got := store.updated[0].Progress; got != 15 {
		t.Errorf("expected progress 15 km, got %f", got)
	}
	if store.updated[0].Completed {
		t.Error("progress below goal must not complete")
	}
}

func TestApplyCompletionLatch(t *testing.T) {
	store := &fakeChallengeStore{challenges: []models.Challenge{distanceChallenge("c1", 10, 8)}}
	notifier := &fakeNotifier{}
	svc := NewChallengeService(store, &fakeUserStore{user: &models.User{ID: "u1"}}, notifier)

	svc.Apply("u1", &models.Activity{Distance: 5000})

	first := store.challenges[0].Participants[0]
	if !first.Completed {
		t.Fatal("crossing the goal must mark completion")
	}
	if first.CompletedDate == nil {
		t.Fatal("completion date must be stamped at first crossing")
	}
	if notifier.completions != 1 {
		t.Fatalf("expected 1 completion notification, got %d", notifier.completions)
	}
	stamped := *first.CompletedDate

	// Further progress after completion keeps the latch
	svc.Apply("u1", &models.Activity{Distance: 7000})

	second := store.challenges[0].Participants[0]
	if second.Progress != 20 {
		t.Errorf("expected progress to keep accumulating to 20, got %f", second.Progress)
	}
	if !second.Completed {
		t.Error("completion must never be unset")
	}
	if second.CompletedDate == nil || !second.CompletedDate.Equal(stamped) {
		t.Error("completion date must not be overwritten by later updates")
	}
	if notifier.completions != 1 {
		t.Errorf("completion must notify only once, got %d", notifier.completions)
	}
}

func TestApplyIsolatesPerChallengeFailures(t *testing.T) {
	store := &fakeChallengeStore{
		challenges: []models.Challenge{
			distanceChallenge("c1", 100, 0),
			distanceChallenge("c2", 100, 0),
		},
		updateErr: map[string]error{"c1": errors.New("write failed")},
	}
	svc := NewChallengeService(store, &fakeUserStore{user: &models.User{ID: "u1"}}, &fakeNotifier{})

	svc.Apply("u1", &models.Activity{Distance: 3000})

	if len(store.updated) != 1 {
		t.Fatalf("expected the healthy challenge to still update, got %d updates", len(store.updated))
	}
	if store.updated[0].ChallengeID != "c2" {
		t.Errorf("expected c2 updated despite c1 failure, got %s", store.updated[0].ChallengeID)
	}
}

func TestProgressIncrement(t *testing.T) {
	activity := &models.Activity{
		Distance:      5000,
		Duration:      1800,
		ElevationGain: 120,
	}

	cases := []struct {
		challengeType string
		want          float64
	}{
		{models.ChallengeDistance, 5},
		{models.ChallengeTime, 1800},
		{models.ChallengeElevation, 120},
		{models.ChallengeFrequency, 1},
		{"unknown", 0},
	}

	for _, tc := range cases {
		if got := ProgressIncrement(tc.challengeType, activity); got != tc.want {
			t.Errorf("ProgressIncrement(%s): expected %f, got %f", tc.challengeType, tc.want, got)
		}
	}
}
