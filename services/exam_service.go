package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/st20/course_exam/models"
	"gorm.io/gorm"
)

// ErrNoQuestionsMatched is returned when an exam configuration filters down
// to an empty candidate set. Callers must surface it, never hand out an
// empty exam.
var ErrNoQuestionsMatched = errors.New("no questions matched the exam configuration")

// GenerateExam selects a uniform-random subset of the questions belonging to
// the configured courses (and topics, when given) and attaches the effective
// time limit to each one. There is no seed; every call shuffles independently.
func GenerateExam(db *gorm.DB, cfg models.ExamConfig) ([]models.ExamQuestion, error) {
	query := db.Model(&models.Question{}).
		Select("questions.*").
		Joins("JOIN topics ON topics.id = questions.topic_id").
		Where("topics.course_id IN ?", cfg.CourseIDs)

	if len(cfg.TopicIDs) > 0 {
		query = query.Where("questions.topic_id IN ?", cfg.TopicIDs)
	}

	query = query.Order("RANDOM()")

	if cfg.QuestionCount != nil {
		query = query.Limit(*cfg.QuestionCount)
	}

	var questions []models.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("select exam questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestionsMatched
	}

	examQuestions := make([]models.ExamQuestion, len(questions))
	for i, q := range questions {
		eq := models.ExamQuestion{
			Question:     q,
			QuestionData: json.RawMessage(q.QuestionData),
		}
		if cfg.IndividualTimeLimits() {
			eq.TimeLimit = q.TimeLimit
		} else {
			eq.TimeLimit = cfg.GlobalTimeLimit
		}
		examQuestions[i] = eq
	}

	return examQuestions, nil
}

// SubmitAnswer appends one answer row. Prior submissions for the same
// question are never touched; grading resolves the most recent one.
func SubmitAnswer(db *gorm.DB, userID uint, questionID uint, typeID int, answerData string) error {
	if err := models.ValidateAnswerData(typeID, answerData); err != nil {
		return err
	}

	answer := models.Answer{
		UserID:     userID,
		TypeID:     typeID,
		QuestionID: questionID,
		AnswerData: answerData,
	}
	if err := db.Create(&answer).Error; err != nil {
		return fmt.Errorf("persist answer: %w", err)
	}
	return nil
}

// GradeExam scores the user's latest answer for each question id. Questions
// that no longer exist, or that the user never answered, are omitted from
// the results rather than scored as incorrect. Grading only reads the answer
// log, so repeating it yields identical results.
func GradeExam(db *gorm.DB, userID uint, questionIDs []uint) ([]models.ExamResult, error) {
	results := make([]models.ExamResult, 0, len(questionIDs))

	for _, questionID := range questionIDs {
		var question models.Question
		if err := db.First(&question, "id = ?", questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("load question %d: %w", questionID, err)
		}

		var answer models.Answer
		err := db.Where("user_id = ? AND question_id = ?", userID, questionID).
			Order("submitted_at DESC, id DESC").
			First(&answer).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("load answer for question %d: %w", questionID, err)
		}

		result := models.ExamResult{
			QuestionID: questionID,
			UserAnswer: json.RawMessage(answer.AnswerData),
		}

		// The variant is picked by the stored type_id, not by sniffing the
		// value shape. An answer whose payload fails to decode under the
		// question's type is graded as incorrect.
		switch question.TypeID {
		case models.TypeTrueFalse:
			payload, err := question.TrueFalse()
			if err != nil {
				continue
			}
			result.CorrectAnswer = payload.CorrectAnswer
			result.Explanation = payload.Explanation
			if submitted, err := answer.BoolAnswer(); err == nil {
				result.IsCorrect = submitted == payload.CorrectAnswer
			}
		case models.TypeMultipleChoice:
			payload, err := question.MultipleChoice()
			if err != nil {
				continue
			}
			result.CorrectAnswer = payload.CorrectAnswer
			result.Explanation = payload.Explanation
			if submitted, err := answer.OptionAnswer(); err == nil {
				result.IsCorrect = submitted == payload.CorrectAnswer
			}
		default:
			continue
		}

		results = append(results, result)
	}

	return results, nil
}

// AnswerHistory lists every submission the user made for one question,
// newest first.
func AnswerHistory(db *gorm.DB, userID uint, questionID uint) ([]models.Answer, error) {
	var answers []models.Answer
	err := db.Where("user_id = ? AND question_id = ?", userID, questionID).
		Order("submitted_at DESC, id DESC").
		Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("load answer history: %w", err)
	}
	return answers, nil
}
