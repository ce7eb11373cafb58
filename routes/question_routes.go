package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/st20/course_exam/handlers"
	"github.com/st20/course_exam/middleware"
)

func QuestionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	questions := api.Group("/questions", middleware.Protected())
	questions.Get("", handlers.ListQuestions)
	questions.Get("/:questionId", handlers.GetQuestion)

	admin := api.Group("/admin/questions", middleware.Protected(), middleware.AdminRequired())
	admin.Post("", handlers.CreateQuestion)
	admin.Put("/:questionId", handlers.UpdateQuestion)
	admin.Delete("/:questionId", handlers.DeleteQuestion)
	admin.Post("/import", handlers.ImportQuestions)
	admin.Post("/import/workbook", handlers.ImportQuestionsWorkbook)
}
