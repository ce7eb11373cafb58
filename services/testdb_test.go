package services

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/st20/course_exam/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Topic{},
		&models.Question{},
		&models.Answer{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func createCourse(t *testing.T, db *gorm.DB, name string) models.Course {
	t.Helper()
	course := models.Course{Name: name}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("create course %q: %v", name, err)
	}
	return course
}

func createTopic(t *testing.T, db *gorm.DB, courseID uint, name string, number int) models.Topic {
	t.Helper()
	topic := models.Topic{CourseID: courseID, Name: name, Number: number}
	if err := db.Create(&topic).Error; err != nil {
		t.Fatalf("create topic %q: %v", name, err)
	}
	return topic
}

func createTrueFalseQuestion(t *testing.T, db *gorm.DB, topicID uint, correct bool, explanation string, timeLimit *int) models.Question {
	t.Helper()
	payload, _ := json.Marshal(models.TrueFalsePayload{
		Question:      "The sky is green.",
		CorrectAnswer: correct,
		Explanation:   explanation,
	})
	question := models.Question{
		TopicID:      topicID,
		TypeID:       models.TypeTrueFalse,
		QuestionData: string(payload),
		TimeLimit:    timeLimit,
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("create true/false question: %v", err)
	}
	return question
}

func createMultipleChoiceQuestion(t *testing.T, db *gorm.DB, topicID uint, options []string, correct int, timeLimit *int) models.Question {
	t.Helper()
	payload, _ := json.Marshal(models.MultipleChoicePayload{
		Question:      "What is 2+2?",
		Options:       options,
		CorrectAnswer: correct,
	})
	question := models.Question{
		TopicID:      topicID,
		TypeID:       models.TypeMultipleChoice,
		QuestionData: string(payload),
		TimeLimit:    timeLimit,
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("create multiple choice question: %v", err)
	}
	return question
}

func intPtr(v int) *int {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
