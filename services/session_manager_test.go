package services

import (
	"testing"
	"time"
)

func TestSessionManagerSweepIdle(t *testing.T) {
	m := NewSessionManager()
	s := NewExamSession(newTestExam(nil))
	m.Put(s)

	if removed := m.SweepIdle(time.Hour); removed != 0 {
		t.Fatalf("swept %d active sessions, want 0", removed)
	}
	if _, ok := m.Get(s.ID); !ok {
		t.Fatal("active session was removed")
	}

	if removed := m.SweepIdle(0); removed != 1 {
		t.Fatalf("swept %d sessions, want 1", removed)
	}
	if _, ok := m.Get(s.ID); ok {
		t.Fatal("idle session survived the sweep")
	}
}
