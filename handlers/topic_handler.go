package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/st20/course_exam/database"
	"github.com/st20/course_exam/models"
	"github.com/st20/course_exam/services"
	"gorm.io/gorm"
)

type CreateTopicRequest struct {
	CourseID uint   `json:"course_id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Number   *int   `json:"number" validate:"omitempty,min=1"`
}

type UpdateTopicRequest struct {
	Name   string `json:"name" validate:"required"`
	Number int    `json:"number" validate:"required,min=1"`
}

func ListTopics(c *fiber.Ctx) error {
	var topics []models.TopicWithCourse
	err := database.DB.Table("topics").
		Select("topics.*, courses.name AS course_name").
		Joins("JOIN courses ON courses.id = topics.course_id").
		Order("courses.name, topics.number").
		Scan(&topics).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list topics"})
	}
	return c.JSON(topics)
}

func ListTopicsByCourse(c *fiber.Ctx) error {
	courseID := c.Params("courseId")
	var topics []models.Topic
	database.DB.Where("course_id = ?", courseID).Order("number").Find(&topics)
	return c.JSON(topics)
}

func GetTopic(c *fiber.Ctx) error {
	topicID := c.Params("topicId")
	var topic models.Topic
	if err := database.DB.First(&topic, "id = ?", topicID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Topic not found"})
	}
	return c.JSON(topic)
}

// NextTopicNumber reports the number a new topic in the course would get.
func NextTopicNumber(c *fiber.Ctx) error {
	courseID := c.Params("courseId")
	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	number, err := services.NextTopicNumber(database.DB, course.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute next topic number"})
	}
	return c.JSON(fiber.Map{"number": number})
}

func CreateTopic(c *fiber.Ctx) error {
	var req CreateTopicRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", req.CourseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	var topic models.Topic
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		number := 0
		if req.Number != nil {
			number = *req.Number
		} else {
			next, err := services.NextTopicNumber(tx, course.ID)
			if err != nil {
				return err
			}
			number = next
		}
		topic = models.Topic{CourseID: course.ID, Name: req.Name, Number: number}
		return tx.Create(&topic).Error
	})
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Failed to create topic (number may already be taken)"})
	}

	return c.Status(fiber.StatusCreated).JSON(topic)
}

func UpdateTopic(c *fiber.Ctx) error {
	topicID := c.Params("topicId")
	var topic models.Topic
	if err := database.DB.First(&topic, "id = ?", topicID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Topic not found"})
	}

	var req UpdateTopicRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	topic.Name = req.Name
	topic.Number = req.Number
	if err := database.DB.Save(&topic).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Failed to update topic (number may already be taken)"})
	}
	return c.JSON(topic)
}

// DeleteTopic cascades to the topic's questions.
func DeleteTopic(c *fiber.Ctx) error {
	topicID := c.Params("topicId")
	var topic models.Topic
	if err := database.DB.First(&topic, "id = ?", topicID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Topic not found"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("topic_id = ?", topic.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&topic).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete topic"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
