package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	TypeTrueFalse      = 0
	TypeMultipleChoice = 1
)

var ErrPayloadTypeMismatch = errors.New("payload does not match question type")

type Question struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	TopicID      uint   `gorm:"not null;index" json:"topic_id"`
	TypeID       int    `gorm:"not null" json:"type_id"`
	QuestionData string `gorm:"type:text;not null" json:"question_data"`
	TimeLimit    *int   `json:"time_limit"`
}

type QuestionWithDetails struct {
	Question
	TopicName  string `json:"topic_name"`
	CourseName string `json:"course_name"`
	TypeName   string `json:"type_name"`
}

type TrueFalsePayload struct {
	Question      string `json:"question"`
	CorrectAnswer bool   `json:"correct_answer"`
	Explanation   string `json:"explanation,omitempty"`
}

type MultipleChoicePayload struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

func TypeName(typeID int) string {
	switch typeID {
	case TypeTrueFalse:
		return "True or False"
	case TypeMultipleChoice:
		return "Multiple Choice"
	default:
		return "Unknown"
	}
}

// TrueFalse decodes question_data as a true/false payload. The variant is
// selected by type_id, never by the shape of the stored value.
func (q *Question) TrueFalse() (TrueFalsePayload, error) {
	var p TrueFalsePayload
	if q.TypeID != TypeTrueFalse {
		return p, ErrPayloadTypeMismatch
	}
	if err := json.Unmarshal([]byte(q.QuestionData), &p); err != nil {
		return p, fmt.Errorf("decode true/false payload: %w", err)
	}
	return p, nil
}

func (q *Question) MultipleChoice() (MultipleChoicePayload, error) {
	var p MultipleChoicePayload
	if q.TypeID != TypeMultipleChoice {
		return p, ErrPayloadTypeMismatch
	}
	if err := json.Unmarshal([]byte(q.QuestionData), &p); err != nil {
		return p, fmt.Errorf("decode multiple choice payload: %w", err)
	}
	return p, nil
}

// ValidatePayload checks that question_data holds the variant required by
// type_id before the row is written.
func ValidatePayload(typeID int, data string) error {
	switch typeID {
	case TypeTrueFalse:
		var p struct {
			Question      string `json:"question"`
			CorrectAnswer *bool  `json:"correct_answer"`
		}
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return ErrPayloadTypeMismatch
		}
		if p.Question == "" || p.CorrectAnswer == nil {
			return errors.New("true/false payload requires question and boolean correct_answer")
		}
	case TypeMultipleChoice:
		var p struct {
			Question      string   `json:"question"`
			Options       []string `json:"options"`
			CorrectAnswer *int     `json:"correct_answer"`
		}
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return ErrPayloadTypeMismatch
		}
		if p.Question == "" || p.CorrectAnswer == nil {
			return errors.New("multiple choice payload requires question and numeric correct_answer")
		}
		if len(p.Options) < 2 {
			return errors.New("multiple choice payload requires at least 2 options")
		}
		if *p.CorrectAnswer < 0 || *p.CorrectAnswer >= len(p.Options) {
			return errors.New("correct_answer index is out of range")
		}
	default:
		return fmt.Errorf("unknown question type %d", typeID)
	}
	return nil
}
