package models

import (
	"errors"
	"testing"
)

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name    string
		typeID  int
		data    string
		wantErr bool
	}{
		{"valid true/false", TypeTrueFalse, `{"question":"Is water wet?","correct_answer":true}`, false},
		{"true/false missing correct_answer", TypeTrueFalse, `{"question":"Is water wet?"}`, true},
		{"true/false numeric correct_answer", TypeTrueFalse, `{"question":"Is water wet?","correct_answer":1}`, true},
		{"valid multiple choice", TypeMultipleChoice, `{"question":"2+2?","options":["3","4"],"correct_answer":1}`, false},
		{"multiple choice one option", TypeMultipleChoice, `{"question":"2+2?","options":["4"],"correct_answer":0}`, true},
		{"multiple choice index out of range", TypeMultipleChoice, `{"question":"2+2?","options":["3","4"],"correct_answer":2}`, true},
		{"multiple choice negative index", TypeMultipleChoice, `{"question":"2+2?","options":["3","4"],"correct_answer":-1}`, true},
		{"multiple choice boolean correct_answer", TypeMultipleChoice, `{"question":"2+2?","options":["3","4"],"correct_answer":true}`, true},
		{"unknown type", 7, `{"question":"?"}`, true},
		{"not json", TypeTrueFalse, `question`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayload(tt.typeID, tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePayload(%d, %s) = %v, wantErr %v", tt.typeID, tt.data, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAnswerData(t *testing.T) {
	tests := []struct {
		name    string
		typeID  int
		data    string
		wantErr bool
	}{
		{"boolean for true/false", TypeTrueFalse, `{"answer":true}`, false},
		{"numeric for true/false", TypeTrueFalse, `{"answer":1}`, true},
		{"numeric for multiple choice", TypeMultipleChoice, `{"answer":2}`, false},
		{"boolean for multiple choice", TypeMultipleChoice, `{"answer":false}`, true},
		{"negative index", TypeMultipleChoice, `{"answer":-1}`, true},
		{"missing answer key", TypeTrueFalse, `{}`, true},
		{"unknown type", 3, `{"answer":true}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnswerData(tt.typeID, tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAnswerData(%d, %s) = %v, wantErr %v", tt.typeID, tt.data, err, tt.wantErr)
			}
		})
	}
}

func TestQuestionDecodeRespectsTypeTag(t *testing.T) {
	q := Question{
		TypeID:       TypeTrueFalse,
		QuestionData: `{"question":"Is water wet?","correct_answer":true,"explanation":"Yes."}`,
	}

	payload, err := q.TrueFalse()
	if err != nil {
		t.Fatalf("TrueFalse: %v", err)
	}
	if !payload.CorrectAnswer || payload.Explanation != "Yes." {
		t.Fatalf("payload = %+v", payload)
	}

	if _, err := q.MultipleChoice(); !errors.Is(err, ErrPayloadTypeMismatch) {
		t.Fatalf("MultipleChoice on true/false question: err=%v, want ErrPayloadTypeMismatch", err)
	}
}
