package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/st20/course_exam/models"
)

func newTestExam(limits ...*int) models.StoredExam {
	questions := make([]models.ExamQuestion, len(limits))
	for i, limit := range limits {
		payload, _ := json.Marshal(models.TrueFalsePayload{
			Question:      fmt.Sprintf("Statement %d", i+1),
			CorrectAnswer: true,
		})
		questions[i] = models.ExamQuestion{
			Question: models.Question{
				ID:           uint(i + 1),
				TopicID:      1,
				TypeID:       models.TypeTrueFalse,
				QuestionData: string(payload),
				TimeLimit:    limit,
			},
			QuestionData: payload,
			TimeLimit:    limit,
		}
	}
	return models.StoredExam{ID: uuid.New(), UserID: 7, Questions: questions}
}

func TestSessionStartsAtFirstQuestion(t *testing.T) {
	s := NewExamSession(newTestExam(nil, nil, nil))

	state := s.State()
	if state.Index != 0 {
		t.Errorf("initial index = %d, want 0", state.Index)
	}
	if state.Total != 3 {
		t.Errorf("total = %d, want 3", state.Total)
	}
	if state.Completed {
		t.Error("new session reports completed")
	}
	if state.Remaining != nil {
		t.Errorf("unlimited question reports remaining = %d", *state.Remaining)
	}
}

func TestSessionNextAndRevisit(t *testing.T) {
	s := NewExamSession(newTestExam(nil, nil, nil))

	advanced, err := s.Next()
	if err != nil || !advanced {
		t.Fatalf("Next: advanced=%v err=%v", advanced, err)
	}
	if s.State().Index != 1 {
		t.Fatalf("index = %d, want 1", s.State().Index)
	}

	// Backward is always allowed.
	if err := s.Previous(); err != nil {
		t.Fatalf("Previous: %v", err)
	}
	if s.State().Index != 0 {
		t.Fatalf("index = %d, want 0", s.State().Index)
	}

	// Re-entering a visited question forward is allowed too.
	if err := s.Goto(1); err != nil {
		t.Fatalf("Goto visited: %v", err)
	}

	// Jumping past the frontier is not.
	if err := s.Goto(2); !errors.Is(err, ErrIndexNotReached) {
		t.Fatalf("Goto unvisited: err=%v, want ErrIndexNotReached", err)
	}
	if err := s.Goto(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("Goto out of range: err=%v, want ErrIndexOutOfRange", err)
	}
}

func TestSessionNextStopsAtLastQuestion(t *testing.T) {
	s := NewExamSession(newTestExam(nil, nil))

	if advanced, _ := s.Next(); !advanced {
		t.Fatal("first Next did not advance")
	}
	advanced, err := s.Next()
	if err != nil {
		t.Fatalf("Next at last: %v", err)
	}
	if advanced {
		t.Fatal("Next advanced past the last question")
	}
	if s.State().Completed {
		t.Fatal("Next alone must not complete the session")
	}
}

func TestSessionCountdownResetsOnReentry(t *testing.T) {
	s := NewExamSession(newTestExam(intPtr(10), nil))
	gen := s.Attach()

	s.Tick(gen)
	s.Tick(gen)
	if r := s.State().Remaining; r == nil || *r != 8 {
		t.Fatalf("remaining = %v, want 8", r)
	}

	// Leave and come back: the countdown restarts from the full limit.
	if _, err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := s.Goto(0); err != nil {
		t.Fatalf("Goto: %v", err)
	}
	if r := s.State().Remaining; r == nil || *r != 10 {
		t.Fatalf("remaining after re-entry = %v, want 10", r)
	}
}

func TestSessionTickAutoAdvances(t *testing.T) {
	s := NewExamSession(newTestExam(intPtr(2), nil))
	gen := s.Attach()

	if result := s.Tick(gen); result.Advanced {
		t.Fatal("advanced one second early")
	}
	result := s.Tick(gen)
	if !result.Advanced {
		t.Fatal("timeout did not advance to the next question")
	}
	if s.State().Index != 1 {
		t.Fatalf("index = %d, want 1", s.State().Index)
	}
}

func TestSessionTickIsNoOpOnLastQuestion(t *testing.T) {
	s := NewExamSession(newTestExam(intPtr(1)))
	gen := s.Attach()

	result := s.Tick(gen)
	if result.Advanced {
		t.Fatal("tick advanced on the last question")
	}
	state := s.State()
	if state.Index != 0 || state.Completed {
		t.Fatalf("state = %+v, want still presenting question 0", state)
	}

	// The expired timer must not keep firing.
	if result := s.Tick(gen); result.Advanced || result.Remaining != 0 {
		t.Fatalf("expired timer ticked again: %+v", result)
	}
}

func TestSessionRecordLastWriteWins(t *testing.T) {
	s := NewExamSession(newTestExam(nil, nil))

	if err := s.Record(1, json.RawMessage(`false`)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Record(1, json.RawMessage(`true`)); err != nil {
		t.Fatalf("Record again: %v", err)
	}
	if err := s.Record(99, json.RawMessage(`true`)); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("Record unknown question: err=%v, want ErrUnknownQuestion", err)
	}
	if err := s.Record(2, json.RawMessage(`3`)); err == nil {
		t.Fatal("Record accepted a numeric answer for a true/false question")
	}

	recorded, err := s.Complete()
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(recorded) != 1 {
		t.Fatalf("got %d recorded answers, want 1", len(recorded))
	}
	if recorded[0].AnswerData != `{"answer":true}` {
		t.Fatalf("recorded answer = %s, want the last write", recorded[0].AnswerData)
	}
}

func TestSessionCompletesExactlyOnce(t *testing.T) {
	s := NewExamSession(newTestExam(intPtr(5), nil))
	gen := s.Attach()

	if _, err := s.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !s.State().Completed {
		t.Fatal("state does not report completed")
	}

	if _, err := s.Complete(); !errors.Is(err, ErrSessionCompleted) {
		t.Fatalf("second Complete: err=%v, want ErrSessionCompleted", err)
	}
	if _, err := s.Next(); !errors.Is(err, ErrSessionCompleted) {
		t.Fatalf("Next after completion: err=%v, want ErrSessionCompleted", err)
	}
	if err := s.Record(1, json.RawMessage(`true`)); !errors.Is(err, ErrSessionCompleted) {
		t.Fatalf("Record after completion: err=%v, want ErrSessionCompleted", err)
	}
	if result := s.Tick(gen); result.Advanced {
		t.Fatal("timer fired after completion")
	}
}

func TestSessionSingleCountdownAcrossAttachments(t *testing.T) {
	s := NewExamSession(newTestExam(intPtr(10), nil))

	old := s.Attach()
	s.Tick(old)

	// A reconnect (or second tab) takes over the countdown; the superseded
	// connection's ticker must stop consuming seconds alongside it.
	current := s.Attach()
	if result := s.Tick(old); !result.Detached {
		t.Fatal("stale attachment still drives the countdown")
	}
	if r := s.State().Remaining; r == nil || *r != 9 {
		t.Fatalf("remaining = %v, want 9 after one effective tick", r)
	}

	if result := s.Tick(current); result.Detached {
		t.Fatal("current attachment was rejected")
	}
	if r := s.State().Remaining; r == nil || *r != 8 {
		t.Fatalf("remaining = %v, want 8", r)
	}
}

func TestSessionRecordedAnswersKeepFirstSeenOrder(t *testing.T) {
	s := NewExamSession(newTestExam(nil, nil, nil))
	s.Next()
	s.Next()

	_ = s.Record(2, json.RawMessage(`true`))
	_ = s.Record(1, json.RawMessage(`false`))
	_ = s.Record(3, json.RawMessage(`true`))
	_ = s.Record(2, json.RawMessage(`false`))

	recorded, err := s.Complete()
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	got := []uint{}
	for _, r := range recorded {
		got = append(got, r.QuestionID)
	}
	want := []uint{2, 1, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
