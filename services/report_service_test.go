package services

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/st20/course_exam/models"
)

func TestRenderReportHTML(t *testing.T) {
	results := []models.ExamResult{
		{
			QuestionID:    1,
			UserAnswer:    json.RawMessage(`{"answer":true}`),
			CorrectAnswer: true,
			IsCorrect:     true,
			Explanation:   "Water is indeed wet.",
		},
		{
			QuestionID:    2,
			UserAnswer:    json.RawMessage(`{"answer":0}`),
			CorrectAnswer: 1,
			IsCorrect:     false,
		},
	}

	html, err := renderReportHTML(results)
	if err != nil {
		t.Fatalf("renderReportHTML: %v", err)
	}

	for _, want := range []string{"50.0", "1 of 2 correct", "Water is indeed wet.", "Question 2"} {
		if !strings.Contains(html, want) {
			t.Errorf("report html is missing %q", want)
		}
	}
}

func TestRenderReportHTMLEmptyResults(t *testing.T) {
	html, err := renderReportHTML(nil)
	if err != nil {
		t.Fatalf("renderReportHTML: %v", err)
	}
	if !strings.Contains(html, "0 of 0 correct") {
		t.Error("empty report does not render a zero score")
	}
}
