package models

import (
	"encoding/json"
	"errors"
	"time"
)

// Answer rows are an append-only log; re-submissions insert new rows and
// grading picks the most recent one.
type Answer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	TypeID      int       `gorm:"not null" json:"type_id"`
	QuestionID  uint      `gorm:"not null;index" json:"question_id"`
	AnswerData  string    `gorm:"type:text;not null" json:"answer_data"`
	SubmittedAt time.Time `gorm:"not null;autoCreateTime" json:"submitted_at"`
}

func (a *Answer) BoolAnswer() (bool, error) {
	if a.TypeID != TypeTrueFalse {
		return false, ErrPayloadTypeMismatch
	}
	var p struct {
		Answer *bool `json:"answer"`
	}
	if err := json.Unmarshal([]byte(a.AnswerData), &p); err != nil || p.Answer == nil {
		return false, ErrPayloadTypeMismatch
	}
	return *p.Answer, nil
}

func (a *Answer) OptionAnswer() (int, error) {
	if a.TypeID != TypeMultipleChoice {
		return 0, ErrPayloadTypeMismatch
	}
	var p struct {
		Answer *int `json:"answer"`
	}
	if err := json.Unmarshal([]byte(a.AnswerData), &p); err != nil || p.Answer == nil {
		return 0, ErrPayloadTypeMismatch
	}
	return *p.Answer, nil
}

// ValidateAnswerData rejects payloads whose variant does not match type_id,
// e.g. a numeric answer tagged as true/false.
func ValidateAnswerData(typeID int, data string) error {
	probe := Answer{TypeID: typeID, AnswerData: data}
	switch typeID {
	case TypeTrueFalse:
		_, err := probe.BoolAnswer()
		return err
	case TypeMultipleChoice:
		v, err := probe.OptionAnswer()
		if err != nil {
			return err
		}
		if v < 0 {
			return errors.New("answer index must not be negative")
		}
		return nil
	default:
		return ErrPayloadTypeMismatch
	}
}
