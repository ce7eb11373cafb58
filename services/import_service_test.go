package services

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/st20/course_exam/models"
	"github.com/xuri/excelize/v2"
)

func TestImportQuestionsCreatesCoursesAndTopics(t *testing.T) {
	db := newTestDB(t)

	items := []QuestionImport{
		{
			Course:        "Biology",
			Topic:         "Cells",
			Type:          "True or False",
			Question:      "Mitochondria produce energy.",
			CorrectAnswer: json.RawMessage(`true`),
			Explanation:   "They are the powerhouse of the cell.",
		},
		{
			Course:        "Biology",
			Topic:         "Genetics",
			Type:          "Multiple Choice",
			Question:      "How many chromosomes do humans have?",
			Options:       []string{"23", "46", "64"},
			CorrectAnswer: json.RawMessage(`1`),
			TimeLimit:     intPtr(30),
		},
	}

	report := ImportQuestions(db, items)
	if report.Imported != 2 {
		t.Fatalf("imported = %d (errors: %v), want 2", report.Imported, report.Errors)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}

	var courses []models.Course
	db.Find(&courses)
	if len(courses) != 1 || courses[0].Name != "Biology" {
		t.Fatalf("courses = %+v, want exactly one Biology", courses)
	}

	var topics []models.Topic
	db.Where("course_id = ?", courses[0].ID).Order("number").Find(&topics)
	if len(topics) != 2 {
		t.Fatalf("got %d topics, want 2", len(topics))
	}
	if topics[0].Number != 1 || topics[1].Number != 2 {
		t.Fatalf("topic numbers = %d, %d, want 1, 2", topics[0].Number, topics[1].Number)
	}

	var mc models.Question
	if err := db.Where("topic_id = ?", topics[1].ID).First(&mc).Error; err != nil {
		t.Fatalf("load imported question: %v", err)
	}
	payload, err := mc.MultipleChoice()
	if err != nil {
		t.Fatalf("decode imported question: %v", err)
	}
	if payload.CorrectAnswer != 1 || len(payload.Options) != 3 {
		t.Fatalf("payload = %+v", payload)
	}
	if mc.TimeLimit == nil || *mc.TimeLimit != 30 {
		t.Fatalf("time limit = %v, want 30", mc.TimeLimit)
	}
}

func TestImportQuestionsContinuesPastItemFailures(t *testing.T) {
	db := newTestDB(t)

	items := []QuestionImport{
		{
			Course:        "Chemistry",
			Topic:         "Atoms",
			Type:          "Short Answer", // unsupported
			Question:      "Describe an atom.",
			CorrectAnswer: json.RawMessage(`true`),
		},
		{
			Course:        "Chemistry",
			Topic:         "Atoms",
			Type:          "Multiple Choice",
			Question:      "Only one option given.",
			Options:       []string{"alone"},
			CorrectAnswer: json.RawMessage(`0`),
		},
		{
			Course:        "Chemistry",
			Topic:         "Atoms",
			Type:          "True or False",
			Question:      "Atoms are divisible.",
			CorrectAnswer: json.RawMessage(`true`),
		},
	}

	report := ImportQuestions(db, items)
	if report.Imported != 1 {
		t.Fatalf("imported = %d, want 1", report.Imported)
	}
	if len(report.Errors) != 2 {
		t.Fatalf("errors = %v, want 2 entries", report.Errors)
	}
	if !strings.HasPrefix(report.Errors[0], "question 1:") {
		t.Errorf("error %q does not name the failing item", report.Errors[0])
	}
	if !strings.HasPrefix(report.Errors[1], "question 2:") {
		t.Errorf("error %q does not name the failing item", report.Errors[1])
	}

	// The failed multiple choice item must not leave a question behind.
	var count int64
	db.Model(&models.Question{}).Count(&count)
	if count != 1 {
		t.Fatalf("got %d questions, want 1", count)
	}
}

func TestImportQuestionsMismatchedCorrectAnswer(t *testing.T) {
	db := newTestDB(t)

	report := ImportQuestions(db, []QuestionImport{{
		Course:        "Physics",
		Topic:         "Light",
		Type:          "True or False",
		Question:      "Light is fast.",
		CorrectAnswer: json.RawMessage(`2`),
	}})
	if report.Imported != 0 || len(report.Errors) != 1 {
		t.Fatalf("report = %+v, want one rejected item", report)
	}
}

func TestParseWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"course", "topic", "type", "question", "options", "correct_answer", "explanation", "time_limit"},
		{"Math", "Algebra", "True or False", "x+x = 2x", "", "TRUE", "Basic identity.", ""},
		{"Math", "Algebra", "Multiple Choice", "What is 2+2?", "3|4|5", "1", "", "45"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("build workbook: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	items, err := ParseWorkbook(&buf)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	tf := items[0]
	if tf.Type != "True or False" || string(tf.CorrectAnswer) != "true" {
		t.Fatalf("true/false item = %+v", tf)
	}
	if tf.TimeLimit != nil {
		t.Errorf("true/false item has time limit %v", *tf.TimeLimit)
	}

	mc := items[1]
	if string(mc.CorrectAnswer) != "1" {
		t.Errorf("correct answer = %s, want 1", mc.CorrectAnswer)
	}
	if len(mc.Options) != 3 || mc.Options[1] != "4" {
		t.Errorf("options = %v", mc.Options)
	}
	if mc.TimeLimit == nil || *mc.TimeLimit != 45 {
		t.Errorf("time limit = %v, want 45", mc.TimeLimit)
	}

	report := ImportQuestions(newTestDB(t), items)
	if report.Imported != 2 || len(report.Errors) != 0 {
		t.Fatalf("report = %+v, want both rows imported", report)
	}
}
