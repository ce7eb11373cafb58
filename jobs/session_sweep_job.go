package jobs

import (
	"log"
	"time"

	"github.com/st20/course_exam/services"
)

const sessionMaxIdle = 30 * time.Minute

// SweepIdleExamSessions drops live exam sessions that saw no activity for a
// while. The exam snapshot in the store survives until its own expiry, so an
// evicted attempt can still be resumed.
func SweepIdleExamSessions() {
	removed := services.Sessions.SweepIdle(sessionMaxIdle)
	if removed > 0 {
		log.Printf("Swept %d idle exam session(s)", removed)
	}
}
