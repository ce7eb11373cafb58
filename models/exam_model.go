package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ExamConfig struct {
	CourseIDs               []uint `json:"course_ids" validate:"required,min=1"`
	TopicIDs                []uint `json:"topic_ids"`
	QuestionCount           *int   `json:"question_count" validate:"omitempty,min=1"`
	GlobalTimeLimit         *int   `json:"global_time_limit" validate:"omitempty,min=1"`
	UseIndividualTimeLimits *bool  `json:"use_individual_time_limits"`
}

// IndividualTimeLimits reports whether each question keeps its own time
// limit. Omitting the field means yes; only an explicit false switches the
// exam to the global override.
func (c ExamConfig) IndividualTimeLimits() bool {
	return c.UseIndividualTimeLimits == nil || *c.UseIndividualTimeLimits
}

// ExamQuestion is a question bundled with its effective time limit for one
// exam instance. The limit is either the question's own or the global
// override, never both.
type ExamQuestion struct {
	Question     Question        `json:"question"`
	QuestionData json.RawMessage `json:"question_data"`
	TimeLimit    *int            `json:"time_limit"`
}

// StoredExam is the snapshot of one generated exam, kept in the exam store
// until it expires or the attempt is submitted.
type StoredExam struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uint           `json:"user_id"`
	Questions []ExamQuestion `json:"questions"`
	CreatedAt time.Time      `json:"created_at"`
}

type ExamResult struct {
	QuestionID    uint            `json:"question_id"`
	UserAnswer    json.RawMessage `json:"user_answer"`
	CorrectAnswer interface{}     `json:"correct_answer"`
	IsCorrect     bool            `json:"is_correct"`
	Explanation   string          `json:"explanation,omitempty"`
}
