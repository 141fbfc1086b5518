// File: /jobs/session_cleanup_job.go
package jobs

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"fitpulse-api/repositories"
)

// SessionCleanupJob periodically force-closes tracking sessions whose last
// update is older than the idle cutoff. Crashed or abandoned clients leave
// active sessions behind; without this, a user could be locked out of
// starting fresh ones.
type SessionCleanupJob struct {
	sessionRepo *repositories.SessionRepository
	maxIdle     time.Duration
	ticker      *time.Ticker
	done        chan bool
}

// NewSessionCleanupJob creates a new session cleanup job
func NewSessionCleanupJob(db *gorm.DB, interval, maxIdle time.Duration) *SessionCleanupJob {
	return &SessionCleanupJob{
		sessionRepo: repositories.NewSessionRepository(db),
		maxIdle:     maxIdle,
		ticker:      time.NewTicker(interval),
		done:        make(chan bool),
	}
}

// Start begins the cleanup job
func (j *SessionCleanupJob) Start() {
	fmt.Println("Session cleanup job started")

	go func() {
		// Run immediately on start
		j.cleanup()

		// Then run on schedule
		for {
			select {
			case <-j.ticker.C:
				j.cleanup()
			case <-j.done:
				fmt.Println("Session cleanup job stopped")
				return
			}
		}
	}()
}

// Stop stops the cleanup job
func (j *SessionCleanupJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

// cleanup performs the actual cleanup
func (j *SessionCleanupJob) cleanup() {
	closed, err := j.sessionRepo.CloseStale(j.maxIdle)
	if err != nil {
		fmt.Printf("Error during session cleanup: %v\n", err)
		return
	}

	if closed > 0 {
		fmt.Printf("Session cleanup closed %d stale sessions\n", closed)
	}
}
