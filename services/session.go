package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/st20/course_exam/models"
)

var (
	ErrSessionCompleted = errors.New("exam session is already completed")
	ErrIndexOutOfRange  = errors.New("question index out of range")
	ErrIndexNotReached  = errors.New("question has not been reached yet")
	ErrUnknownQuestion  = errors.New("question is not part of this exam")
)

// RecordedAnswer is one entry of the session's question id -> answer map,
// ready to be persisted on submission.
type RecordedAnswer struct {
	QuestionID uint
	TypeID     int
	AnswerData string
}

// SessionState is a point-in-time snapshot sent to the client.
type SessionState struct {
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Remaining *int   `json:"remaining,omitempty"`
	Answered  []uint `json:"answered"`
	Completed bool   `json:"completed"`
}

// TickResult reports what one countdown second did to the session. Detached
// means the tick came from a superseded attachment and consumed nothing.
type TickResult struct {
	Remaining int
	Advanced  bool
	Detached  bool
}

// ExamSession drives one exam attempt: a cursor over the generated
// questions, a per-question countdown and the collected answers. All state
// lives behind one mutex so the ticker can never act on a stale index.
type ExamSession struct {
	ID        uuid.UUID
	UserID    uint
	Questions []models.ExamQuestion

	mu         sync.Mutex
	index      int
	frontier   int
	hasLimit   bool
	remaining  int
	attachment uint64
	answers    map[uint]RecordedAnswer
	order      []uint
	completed  bool
	lastActive time.Time
}

func NewExamSession(exam models.StoredExam) *ExamSession {
	s := &ExamSession{
		ID:        exam.ID,
		UserID:    exam.UserID,
		Questions: exam.Questions,
		answers:   make(map[uint]RecordedAnswer),
	}
	s.enter(0)
	return s
}

// enter moves the cursor and resets the countdown to the full limit, also on
// re-entry of an already visited question. Callers hold the mutex, except
// for the constructor.
func (s *ExamSession) enter(i int) {
	s.index = i
	if i > s.frontier {
		s.frontier = i
	}
	limit := s.Questions[i].TimeLimit
	s.hasLimit = limit != nil && *limit > 0
	if s.hasLimit {
		s.remaining = *limit
	} else {
		s.remaining = 0
	}
	s.lastActive = time.Now()
}

// Next advances the cursor by one. It reports false on the last question;
// completion only happens through Complete.
func (s *ExamSession) Next() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return false, ErrSessionCompleted
	}
	if s.index >= len(s.Questions)-1 {
		return false, nil
	}
	s.enter(s.index + 1)
	return true, nil
}

// Goto jumps to any question that was already reached. Forward jumps past
// the frontier are rejected.
func (s *ExamSession) Goto(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return ErrSessionCompleted
	}
	if i < 0 || i >= len(s.Questions) {
		return ErrIndexOutOfRange
	}
	if i > s.frontier {
		return ErrIndexNotReached
	}
	s.enter(i)
	return nil
}

func (s *ExamSession) Previous() error {
	s.mu.Lock()
	i := s.index - 1
	s.mu.Unlock()
	if i < 0 {
		return nil
	}
	return s.Goto(i)
}

// Record upserts the answer for one of the session's questions; the last
// write wins. Only the value type is checked at selection time.
func (s *ExamSession) Record(questionID uint, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return ErrSessionCompleted
	}

	var question *models.Question
	for i := range s.Questions {
		if s.Questions[i].Question.ID == questionID {
			question = &s.Questions[i].Question
			break
		}
	}
	if question == nil {
		return ErrUnknownQuestion
	}

	answerData := fmt.Sprintf(`{"answer":%s}`, value)
	if err := models.ValidateAnswerData(question.TypeID, answerData); err != nil {
		return err
	}

	if _, seen := s.answers[questionID]; !seen {
		s.order = append(s.order, questionID)
	}
	s.answers[questionID] = RecordedAnswer{
		QuestionID: questionID,
		TypeID:     question.TypeID,
		AnswerData: answerData,
	}
	s.lastActive = time.Now()
	return nil
}

// Attach claims the countdown for one connection, superseding any earlier
// attachment. The session keeps a single timeline no matter how many
// connections present its id; only ticks from the latest attachment count.
func (s *ExamSession) Attach() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachment++
	s.lastActive = time.Now()
	return s.attachment
}

// Tick consumes one countdown second on behalf of one attachment. Reaching
// zero advances exactly like a manual "next", answered or not, and is a
// no-op on the last question. A stale attachment consumes nothing.
func (s *ExamSession) Tick(attachment uint64) TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attachment != s.attachment {
		return TickResult{Remaining: s.remaining, Detached: true}
	}
	if s.completed || !s.hasLimit || s.remaining <= 0 {
		return TickResult{Remaining: s.remaining}
	}

	s.remaining--
	if s.remaining > 0 {
		return TickResult{Remaining: s.remaining}
	}

	if s.index < len(s.Questions)-1 {
		s.enter(s.index + 1)
		return TickResult{Remaining: s.remaining, Advanced: true}
	}
	return TickResult{Remaining: 0}
}

// Complete enters the terminal state exactly once and hands back the
// recorded answers in the order they were first given.
func (s *ExamSession) Complete() ([]RecordedAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return nil, ErrSessionCompleted
	}
	s.completed = true
	s.hasLimit = false
	s.lastActive = time.Now()

	recorded := make([]RecordedAnswer, 0, len(s.order))
	for _, id := range s.order {
		recorded = append(recorded, s.answers[id])
	}
	return recorded, nil
}

func (s *ExamSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := SessionState{
		Index:     s.index,
		Total:     len(s.Questions),
		Answered:  append([]uint(nil), s.order...),
		Completed: s.completed,
	}
	if s.hasLimit {
		remaining := s.remaining
		state.Remaining = &remaining
	}
	return state
}

// QuestionIDs lists every question in the exam, for grading.
func (s *ExamSession) QuestionIDs() []uint {
	ids := make([]uint, len(s.Questions))
	for i, q := range s.Questions {
		ids[i] = q.Question.ID
	}
	return ids
}

func (s *ExamSession) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *ExamSession) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}
