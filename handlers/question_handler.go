package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/st20/course_exam/database"
	"github.com/st20/course_exam/models"
)

type QuestionRequest struct {
	TopicID      uint            `json:"topic_id" validate:"required"`
	TypeID       *int            `json:"type_id" validate:"required,min=0,max=1"`
	QuestionData json.RawMessage `json:"question_data" validate:"required"`
	TimeLimit    *int            `json:"time_limit" validate:"omitempty,min=1"`
}

func ListQuestions(c *fiber.Ctx) error {
	var questions []models.QuestionWithDetails
	err := database.DB.Table("questions").
		Select("questions.*, topics.name AS topic_name, courses.name AS course_name").
		Joins("JOIN topics ON topics.id = questions.topic_id").
		Joins("JOIN courses ON courses.id = topics.course_id").
		Order("courses.name, topics.number, questions.id").
		Scan(&questions).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list questions"})
	}
	for i := range questions {
		questions[i].TypeName = models.TypeName(questions[i].TypeID)
	}
	return c.JSON(questions)
}

func ListQuestionsByTopic(c *fiber.Ctx) error {
	topicID := c.Params("topicId")
	var questions []models.Question
	database.DB.Where("topic_id = ?", topicID).Order("id").Find(&questions)
	return c.JSON(questions)
}

func GetQuestion(c *fiber.Ctx) error {
	questionID := c.Params("questionId")
	var question models.Question
	if err := database.DB.First(&question, "id = ?", questionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}
	return c.JSON(question)
}

func CreateQuestion(c *fiber.Ctx) error {
	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := models.ValidatePayload(*req.TypeID, string(req.QuestionData)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var topic models.Topic
	if err := database.DB.First(&topic, "id = ?", req.TopicID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Topic not found"})
	}

	question := models.Question{
		TopicID:      topic.ID,
		TypeID:       *req.TypeID,
		QuestionData: string(req.QuestionData),
		TimeLimit:    req.TimeLimit,
	}
	if err := database.DB.Create(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create question"})
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

func UpdateQuestion(c *fiber.Ctx) error {
	questionID := c.Params("questionId")
	var question models.Question
	if err := database.DB.First(&question, "id = ?", questionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}

	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := models.ValidatePayload(*req.TypeID, string(req.QuestionData)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var topic models.Topic
	if err := database.DB.First(&topic, "id = ?", req.TopicID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Topic not found"})
	}

	question.TopicID = topic.ID
	question.TypeID = *req.TypeID
	question.QuestionData = string(req.QuestionData)
	question.TimeLimit = req.TimeLimit
	database.DB.Save(&question)

	return c.JSON(question)
}

func DeleteQuestion(c *fiber.Ctx) error {
	questionID := c.Params("questionId")
	result := database.DB.Delete(&models.Question{}, "id = ?", questionID)

	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete question"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
