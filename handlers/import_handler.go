package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/st20/course_exam/database"
	"github.com/st20/course_exam/services"
)

type ImportQuestionsRequest struct {
	Questions []services.QuestionImport `json:"questions" validate:"required,min=1,dive"`
}

// ImportQuestions ingests a JSON batch. Per-item failures are collected in
// the report; the batch never aborts halfway.
func ImportQuestions(c *fiber.Ctx) error {
	var req ImportQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	report := services.ImportQuestions(database.DB, req.Questions)
	return c.JSON(report)
}

// ImportQuestionsWorkbook ingests the same batch shape from an uploaded
// .xlsx file.
func ImportQuestionsWorkbook(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A workbook file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot open uploaded file"})
	}
	defer file.Close()

	items, err := services.ParseWorkbook(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if len(items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Workbook contains no questions"})
	}

	report := services.ImportQuestions(database.DB, items)
	return c.JSON(report)
}
