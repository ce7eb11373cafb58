package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/st20/course_exam/database"
	"github.com/st20/course_exam/middleware"
	"github.com/st20/course_exam/models"
	"github.com/st20/course_exam/services"
)

// GenerateExam builds a randomized exam for the caller and snapshots it in
// the exam store so the attempt can be resumed until the snapshot expires.
func GenerateExam(c *fiber.Ctx) error {
	var cfg models.ExamConfig
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(cfg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	questions, err := services.GenerateExam(database.DB, cfg)
	if err != nil {
		if errors.Is(err, services.ErrNoQuestionsMatched) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No questions matched the selected courses and topics"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate exam"})
	}

	exam := models.StoredExam{
		ID:        uuid.New(),
		UserID:    middleware.UserID(c),
		Questions: questions,
		CreatedAt: time.Now(),
	}
	if err := services.SaveExam(c.Context(), database.RDB, exam); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store exam"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"exam_id":   exam.ID,
		"questions": exam.Questions,
	})
}

type SubmitAnswerRequest struct {
	QuestionID uint            `json:"question_id" validate:"required"`
	TypeID     *int            `json:"type_id" validate:"required,min=0,max=1"`
	AnswerData json.RawMessage `json:"answer_data" validate:"required"`
}

func SubmitAnswer(c *fiber.Ctx) error {
	var req SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	err := services.SubmitAnswer(database.DB, middleware.UserID(c), req.QuestionID, *req.TypeID, string(req.AnswerData))
	if err != nil {
		if errors.Is(err, models.ErrPayloadTypeMismatch) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "answer_data does not match type_id"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit answer"})
	}

	return c.SendStatus(fiber.StatusCreated)
}

type GradeExamRequest struct {
	QuestionIDs []uint `json:"question_ids" validate:"required,min=1"`
}

// GradeExam scores the caller's latest answers. Unanswered and vanished
// questions are omitted from the result list, so it may be shorter than the
// request.
func GradeExam(c *fiber.Ctx) error {
	var req GradeExamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	results, err := services.GradeExam(database.DB, middleware.UserID(c), req.QuestionIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to grade exam"})
	}
	return c.JSON(results)
}

func AnswerHistory(c *fiber.Ctx) error {
	questionID, err := c.ParamsInt("questionId")
	if err != nil || questionID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question id"})
	}

	answers, err := services.AnswerHistory(database.DB, middleware.UserID(c), uint(questionID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load answer history"})
	}
	return c.JSON(answers)
}

// ExamReport grades the given questions and returns the results as a PDF.
func ExamReport(c *fiber.Ctx) error {
	var req GradeExamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	results, err := services.GradeExam(database.DB, middleware.UserID(c), req.QuestionIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to grade exam"})
	}
	if len(results) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No graded answers to report"})
	}

	pdf, err := services.RenderResultReport(c.Context(), results)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to render report"})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="exam-report.pdf"`)
	return c.Send(pdf)
}
