package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/st20/course_exam/handlers"
	"github.com/st20/course_exam/middleware"
)

func CatalogRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	courses := api.Group("/courses", middleware.Protected())
	courses.Get("", handlers.ListCourses)
	courses.Get("/:courseId", handlers.GetCourse)
	courses.Get("/:courseId/topics", handlers.ListTopicsByCourse)
	courses.Get("/:courseId/topics/next-number", handlers.NextTopicNumber)
	courses.Post("", middleware.AdminRequired(), handlers.CreateCourse)
	courses.Put("/:courseId", middleware.AdminRequired(), handlers.UpdateCourse)
	courses.Delete("/:courseId", middleware.AdminRequired(), handlers.DeleteCourse)

	topics := api.Group("/topics", middleware.Protected())
	topics.Get("", handlers.ListTopics)
	topics.Get("/:topicId", handlers.GetTopic)
	topics.Get("/:topicId/questions", handlers.ListQuestionsByTopic)
	topics.Post("", middleware.AdminRequired(), handlers.CreateTopic)
	topics.Put("/:topicId", middleware.AdminRequired(), handlers.UpdateTopic)
	topics.Delete("/:topicId", middleware.AdminRequired(), handlers.DeleteTopic)
}
